package prompt

// Offline answers used when the generation call fails. Deterministic and
// keyed only by detected query type, so users always get something useful
// back instead of an error.

const fallbackSuffix = " For authoritative and current details, please consult " + AuthoritativeSource + " or contact Minnesota DHS directly."

var fallbackAnswers = map[QueryType]string{
	QueryEligibility: "EIDBI eligibility generally requires that the person is under 21, enrolled in Medical Assistance or another Minnesota Health Care Program, and has an autism spectrum disorder diagnosis or a related condition identified through a comprehensive evaluation." + fallbackSuffix,
	QueryServices:    "EIDBI covers early intensive treatment services such as behavioral intervention, developmental therapies, family training, and care coordination delivered by qualified providers." + fallbackSuffix,
	QueryProcess:     "Getting started with EIDBI typically involves obtaining a diagnosis or comprehensive multi-disciplinary evaluation, confirming Medical Assistance coverage, and contacting an enrolled EIDBI provider for an intake assessment." + fallbackSuffix,
	QueryCost:        "EIDBI services are covered by Medical Assistance and other Minnesota Health Care Programs for eligible members, typically without out-of-pocket cost." + fallbackSuffix,
	QueryProvider:    "EIDBI services are delivered by enrolled providers, including qualified supervising professionals and behavior analysts. The Minnesota DHS provider directory lists enrolled providers." + fallbackSuffix,
	QueryProviderCount: "The exact number of EIDBI providers is not specified in the available information. For the most current provider count and directory, please consult " + AuthoritativeSource + ".",
	QueryDefinition:  "EIDBI (Early Intensive Developmental and Behavioral Intervention) is a Minnesota Health Care Program benefit providing early intensive treatment for people under 21 with autism spectrum disorder or related conditions." + fallbackSuffix,
	QueryComparison:  "Detailed comparisons are not available right now." + fallbackSuffix,
	QueryGeneral:     "The answer could not be generated right now." + fallbackSuffix,
}

// FallbackAnswer returns the offline answer for a query type.
func FallbackAnswer(queryType QueryType) string {
	if answer, ok := fallbackAnswers[queryType]; ok {
		return answer
	}
	return fallbackAnswers[QueryGeneral]
}

// InsufficientInfoAnswer is returned when retrieval produces no candidates
// at all (e.g. empty corpus).
const InsufficientInfoAnswer = "I could not find relevant information to answer this question. The available information does not cover it; please consult " + AuthoritativeSource + "."
