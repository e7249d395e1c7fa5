// Package prompt classifies queries by intent and builds the generation
// prompt: a format-specific instruction header, source-attributed context,
// and the user question.
package prompt

import "regexp"

// QueryType is the detected intent of a query.
type QueryType string

const (
	QueryEligibility   QueryType = "eligibility"
	QueryServices      QueryType = "services"
	QueryProcess       QueryType = "process"
	QueryCost          QueryType = "cost"
	QueryProvider      QueryType = "provider"
	QueryProviderCount QueryType = "provider_count"
	QueryDefinition    QueryType = "definition"
	QueryComparison    QueryType = "comparison"
	QueryGeneral       QueryType = "general"
)

// AllQueryTypes lists every type; tests assert the format mapping is total.
var AllQueryTypes = []QueryType{
	QueryEligibility, QueryServices, QueryProcess, QueryCost,
	QueryProvider, QueryProviderCount, QueryDefinition, QueryComparison,
	QueryGeneral,
}

// ResponseFormat shapes the instruction header of the prompt.
type ResponseFormat string

const (
	FormatConcise      ResponseFormat = "concise"
	FormatDetailed     ResponseFormat = "detailed"
	FormatBulletPoints ResponseFormat = "bullet_points"
	FormatStepByStep   ResponseFormat = "step_by_step"
	FormatFAQ          ResponseFormat = "faq"
)

// Classification rules, first match wins. provider_count must run before
// the broader provider rule or count questions would never be detected.
var classificationRules = []struct {
	queryType QueryType
	pattern   *regexp.Regexp
}{
	{QueryProviderCount, regexp.MustCompile(`(?i)\b(how many|total number of|number of|count of)\b.*\b(provider|therapist)s?\b`)},
	{QueryProviderCount, regexp.MustCompile(`(?i)\b(provider|therapist)s?\b.*\bcount\b`)},
	{QueryEligibility, regexp.MustCompile(`(?i)\b(eligible|eligibility|qualify|qualifies|who can|requirements?|criteria|age limit)\b`)},
	{QueryProcess, regexp.MustCompile(`(?i)\b(how to|how do i|process|steps?|procedure|apply|application|enroll|sign up|get started|referral)\b`)},
	{QueryCost, regexp.MustCompile(`(?i)\b(costs?|price|fees?|payment|insurance|covered|coverage|pay|copay|medicaid|minnesotacare)\b`)},
	{QueryProvider, regexp.MustCompile(`(?i)\b(providers?|therapists?|professionals?|staff|bcba|behavior analyst|psychologist|specialists?|qualifications?|certified|licensed)\b`)},
	{QueryServices, regexp.MustCompile(`(?i)\b(services?|treatment|therapy|interventions?|support|offered|available)\b`)},
	{QueryDefinition, regexp.MustCompile(`(?i)\b(what is|define|definition|meaning|means)\b`)},
	{QueryComparison, regexp.MustCompile(`(?i)\b(difference|compare|versus|vs|better|alternative|similar to|different from)\b`)},
}

// Classify detects the query type over normalized text; defaults to general.
func Classify(queryText string) QueryType {
	for _, rule := range classificationRules {
		if rule.pattern.MatchString(queryText) {
			return rule.queryType
		}
	}
	return QueryGeneral
}

// defaultFormats is the total QueryType -> ResponseFormat mapping.
var defaultFormats = map[QueryType]ResponseFormat{
	QueryEligibility:   FormatConcise,
	QueryServices:      FormatBulletPoints,
	QueryProcess:       FormatStepByStep,
	QueryCost:          FormatConcise,
	QueryProvider:      FormatConcise,
	QueryProviderCount: FormatConcise,
	QueryDefinition:    FormatConcise,
	QueryComparison:    FormatDetailed,
	QueryGeneral:       FormatConcise,
}

var formatOverrides = []struct {
	pattern *regexp.Regexp
	format  ResponseFormat
}{
	{regexp.MustCompile(`(?i)\b(steps?|how to|procedure)\b`), FormatStepByStep},
	{regexp.MustCompile(`(?i)\b(list|types|kinds|what are)\b`), FormatBulletPoints},
	{regexp.MustCompile(`(?i)\b(brief|quick|summary|short)\b`), FormatConcise},
	{regexp.MustCompile(`(?i)\b(detailed|comprehensive|explain|tell me about)\b`), FormatDetailed},
	{regexp.MustCompile(`(?i)\b(faq|frequently asked)\b`), FormatFAQ},
}

// DetermineFormat picks the response format: explicit format words in the
// query win, otherwise the query type's default applies.
func DetermineFormat(queryText string, queryType QueryType) ResponseFormat {
	for _, override := range formatOverrides {
		if override.pattern.MatchString(queryText) {
			return override.format
		}
	}
	if format, ok := defaultFormats[queryType]; ok {
		return format
	}
	return FormatConcise
}
