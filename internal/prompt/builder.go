package prompt

import (
	"fmt"
	"strings"

	"eidbi-query-system/internal/retrieval"
)

// AuthoritativeSource is where users are pointed when the corpus cannot
// answer, especially for provider counts.
const AuthoritativeSource = "the official Minnesota DHS resources at https://www.dhs.state.mn.us/"

// Metadata records how a prompt was assembled, for observability and tests.
type Metadata struct {
	QueryType      QueryType      `json:"query_type"`
	ResponseFormat ResponseFormat `json:"response_format"`
	TemplateID     string         `json:"template_used"`
	Enhanced       bool           `json:"enhanced"`
	ContextChunks  int            `json:"context_chunks"`
}

var formatInstructions = map[ResponseFormat]string{
	FormatConcise: `- Answer directly and specifically
- Keep the response focused and under 150 words
- Use bullet points only if listing multiple requirements`,
	FormatDetailed: `- Cover the topic thoroughly, including exceptions and special cases
- Organize information logically with headings if needed
- Include relevant details and examples from the context`,
	FormatBulletPoints: `- Use bullet points or numbered lists
- Group related items together
- Include a brief description for each item
- Prioritize the most important items first`,
	FormatStepByStep: `- Break the process into numbered, actionable steps
- Say who to contact or where to go for each step
- Mention typical timeframes if the context provides them`,
	FormatFAQ: `- Structure the answer as a clear question and answer
- Address likely follow-up questions
- Use simple, non-technical language`,
}

var typeInstructions = map[QueryType]string{
	QueryEligibility: "- Include the key eligibility criteria (age, diagnosis, insurance)",
	QueryServices:    "- List the main types of services provided, most common first",
	QueryProcess:     "- Focus on the actions the person needs to take, in order",
	QueryCost:        "- State clearly what is covered and what is not, naming specific insurance programs (Medical Assistance, MinnesotaCare)",
	QueryProvider:    "- Describe provider qualifications using only information from the context\n- Include actionable next steps for finding a provider",
	QueryProviderCount: `- Check whether an exact provider count appears in the context
- If the exact count is NOT in the context, state explicitly: "The exact number of EIDBI providers is not specified in the available information."
- Always recommend consulting ` + AuthoritativeSource + ` for the current count
- Never invent or estimate a number`,
	QueryDefinition: "- Lead with a one-sentence definition before any elaboration",
	QueryComparison: "- Compare the options point by point, then summarize the key difference",
	QueryGeneral:    "- If the context does not contain the answer, say so clearly",
}

// Build assembles the final prompt for the generator. When enhanced is
// false a minimal context-question prompt is produced instead of the
// type/format template.
func Build(queryText string, results []retrieval.Result, queryType QueryType, format ResponseFormat, enhanced bool) (string, Metadata) {
	meta := Metadata{
		QueryType:      queryType,
		ResponseFormat: format,
		TemplateID:     string(queryType) + "_" + string(format),
		Enhanced:       enhanced,
		ContextChunks:  len(results),
	}

	context := formatContext(results)

	if !enhanced {
		meta.TemplateID = "basic"
		basic := fmt.Sprintf(`You are an expert assistant knowledgeable about the Minnesota EIDBI program.
Answer the following question based only on the provided context. If the context does not contain the answer, say 'I cannot answer the question based on the provided information.'

Question: %s

Context:
%s

Answer:`, queryText, context)
		return basic, meta
	}

	var b strings.Builder
	b.WriteString("You are an expert on the Minnesota EIDBI (Early Intensive Developmental and Behavioral Intervention) program. ")
	b.WriteString("Answer the question using only the provided context.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\nContext:\n%s\n\nInstructions:\n", queryText, context)
	b.WriteString(formatInstructions[format])
	if extra, ok := typeInstructions[queryType]; ok {
		b.WriteString("\n")
		b.WriteString(extra)
	}
	b.WriteString("\n\nAnswer:")
	return b.String(), meta
}

// formatContext renders each result with its source attribution, separated
// so the generator can tell the chunks apart.
func formatContext(results []retrieval.Result) string {
	if len(results) == 0 {
		return "No relevant context available."
	}
	blocks := make([]string, 0, len(results))
	for i, res := range results {
		source := ""
		switch {
		case res.SourceName != "" && res.SourceURL != "":
			source = fmt.Sprintf(" (Source: %s, %s)", res.SourceName, res.SourceURL)
		case res.SourceURL != "":
			source = fmt.Sprintf(" (Source: %s)", res.SourceURL)
		case res.SourceName != "":
			source = fmt.Sprintf(" (Source: %s)", res.SourceName)
		}
		blocks = append(blocks, fmt.Sprintf("Context %d%s:\n%s", i+1, source, strings.TrimSpace(res.Text)))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}
