package retrieval

import (
	"regexp"
	"strings"
)

// Boost factors for the second-pass relevance signals. These sit on top of
// the fused score, so they only reorder within the candidate slice; facts
// carry a score far above any boost sum and stay pinned.
const (
	boostExactMatch     = 5.0
	boostKeywordDensity = 2.0
	boostDefinition     = 4.0
	boostOverview       = 3.5
	boostPrimaryTopic   = 2.5
)

var definitionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(is|are)\s+a\s+\w+`),
	regexp.MustCompile(`(?i)definition\s+of`),
	regexp.MustCompile(`(?i)refers?\s+to`),
	regexp.MustCompile(`(?i)means?\s+that`),
	regexp.MustCompile(`(?i)benefit\s+is\s+a`),
	regexp.MustCompile(`(?i)program\s+that`),
}

var overviewIndicators = []string{
	"overview", "introduction", "what is", "about",
	"program overview", "general information",
}

var primaryTopicPattern = regexp.MustCompile(`(?i)\beidbi\b`)

type Reranker struct {
	TopK int
}

func NewReranker(topK int) *Reranker {
	if topK <= 0 {
		topK = 8
	}
	return &Reranker{TopK: topK}
}

// Rerank rescores the candidate slice with finer lexical signals and
// returns the final top-k. Deterministic: same candidates and query always
// produce the same order.
func (r *Reranker) Rerank(queryText string, keywords []string, candidates []Result) []Result {
	queryLower := strings.ToLower(queryText)
	wantsDefinition := strings.Contains(queryLower, "what is") || strings.Contains(queryLower, "definition")

	reranked := make([]Result, len(candidates))
	copy(reranked, candidates)

	for i := range reranked {
		if reranked[i].IsFact {
			continue
		}
		textLower := strings.ToLower(reranked[i].Text)
		score := reranked[i].Score

		if strings.Contains(textLower, queryLower) {
			score += boostExactMatch
		}

		var keywordHits int
		for _, kw := range keywords {
			if strings.Contains(textLower, kw) {
				keywordHits++
			}
		}
		wordCount := len(strings.Fields(textLower)) + 1
		score += float64(keywordHits) / float64(wordCount) * boostKeywordDensity

		if wantsDefinition {
			for _, pattern := range definitionPatterns {
				if pattern.MatchString(textLower) {
					score += boostDefinition
					break
				}
			}
		}

		for _, indicator := range overviewIndicators {
			if strings.Contains(textLower, indicator) {
				score += boostOverview
				break
			}
		}

		if len(primaryTopicPattern.FindAllStringIndex(textLower, 4)) > 3 {
			score += boostPrimaryTopic
		}

		reranked[i].Score = score
	}

	SortResults(reranked)
	if len(reranked) > r.TopK {
		reranked = reranked[:r.TopK]
	}
	return reranked
}
