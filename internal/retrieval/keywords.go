package retrieval

import "strings"

var stopWords = map[string]struct{}{
	"is": {}, "are": {}, "what": {}, "who": {}, "where": {}, "when": {},
	"how": {}, "the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {},
	"can": {}, "do": {}, "does": {}, "get": {}, "i": {}, "my": {}, "me": {},
	"there": {}, "many": {},
}

// acronyms expand domain shorthand so keyword search matches the spelled-out
// form that documents usually use.
var acronyms = map[string]string{
	"eidbi": "early intensive developmental and behavioral intervention",
	"asd":   "autism spectrum disorder",
	"cmde":  "comprehensive multi-disciplinary evaluation",
	"qsp":   "qualified supervising professional",
	"ma":    "medical assistance",
	"mhcp":  "minnesota health care program",
}

var importantPhrases = []string{
	"early intensive developmental and behavioral intervention",
	"autism spectrum disorder",
	"minnesota health care program",
	"medical assistance",
	"comprehensive multi-disciplinary evaluation",
}

// ExtractKeywords tokenizes the query into lowercased, stopword-filtered
// keywords, expanding known acronyms and picking up multi-word domain
// phrases the query contains verbatim.
func ExtractKeywords(query string) []string {
	queryLower := strings.ToLower(query)
	seen := make(map[string]struct{})
	var keywords []string

	add := func(kw string) {
		if kw == "" {
			return
		}
		if _, dup := seen[kw]; dup {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, word := range strings.Fields(queryLower) {
		cleaned := strings.TrimFunc(word, func(r rune) bool {
			return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '-'
		})
		if cleaned == "" {
			continue
		}
		if _, stop := stopWords[cleaned]; stop {
			continue
		}
		add(cleaned)
		if expanded, ok := acronyms[cleaned]; ok {
			add(expanded)
		}
	}

	for _, phrase := range importantPhrases {
		if strings.Contains(queryLower, phrase) {
			add(phrase)
		}
	}

	return keywords
}
