package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		query string
		want  QueryType
	}{
		{"How many EIDBI providers are there in Minnesota?", QueryProviderCount},
		{"What is the total number of providers?", QueryProviderCount},
		{"provider count for the metro area", QueryProviderCount},
		{"Who is eligible for EIDBI?", QueryEligibility},
		{"Is there an age limit for the program?", QueryEligibility},
		{"How do I apply for EIDBI services?", QueryProcess},
		{"What are the steps to enroll?", QueryProcess},
		{"What does EIDBI cost?", QueryCost},
		{"Is EIDBI covered by insurance?", QueryCost},
		{"What qualifications does a therapist need?", QueryProvider},
		{"What services are offered?", QueryServices},
		{"What is EIDBI?", QueryDefinition},
		{"EIDBI versus ABA, which is better?", QueryComparison},
		{"Tell me something", QueryGeneral},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.query, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Classify(tc.query))
		})
	}
}

// Count questions must not fall through to the broader provider rule.
func TestClassify_ProviderCountBeforeProvider(t *testing.T) {
	t.Parallel()

	assert.Equal(t, QueryProviderCount, Classify("how many providers accept new patients"))
	assert.Equal(t, QueryProvider, Classify("which providers accept new patients"))
}

func TestDetermineFormat_DefaultsAreTotal(t *testing.T) {
	t.Parallel()

	for _, queryType := range AllQueryTypes {
		format := DetermineFormat("plain question without format words", queryType)
		assert.NotEmpty(t, format, "query type %s has no default format", queryType)
	}
}

func TestDetermineFormat_TypeDefaults(t *testing.T) {
	t.Parallel()

	cases := []struct {
		queryType QueryType
		want      ResponseFormat
	}{
		{QueryEligibility, FormatConcise},
		{QueryServices, FormatBulletPoints},
		{QueryProcess, FormatStepByStep},
		{QueryCost, FormatConcise},
		{QueryProviderCount, FormatConcise},
		{QueryComparison, FormatDetailed},
		{QueryGeneral, FormatConcise},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DetermineFormat("plain question", tc.queryType))
	}
}

func TestDetermineFormat_QueryWordsOverride(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatStepByStep, DetermineFormat("what are the steps", QueryGeneral))
	assert.Equal(t, FormatConcise, DetermineFormat("quick answer please", QueryComparison))
	assert.Equal(t, FormatDetailed, DetermineFormat("explain the coverage", QueryCost))
	assert.Equal(t, FormatFAQ, DetermineFormat("frequently asked questions about eidbi", QueryGeneral))
}

func TestCostScenario(t *testing.T) {
	t.Parallel()

	// "What does EIDBI cost?" routes to cost intent with a concise answer.
	queryType := Classify("What does EIDBI cost?")
	assert.Equal(t, QueryCost, queryType)
	assert.Equal(t, FormatConcise, DetermineFormat("What does EIDBI cost?", queryType))
}
