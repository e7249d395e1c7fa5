package app

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode"

	"eidbi-query-system/internal/ai"
	"eidbi-query-system/internal/cache"
	"eidbi-query-system/internal/corpus"
	"eidbi-query-system/internal/prompt"
	"eidbi-query-system/internal/retrieval"
)

// QueryInput is the single externally-facing query operation's input.
type QueryInput struct {
	QueryText          string
	NumResults         int
	UseHybridSearch    bool
	UseReranking       bool
	UseEnhancedPrompts bool
	UserSessionID      string
}

// QueryResponse is always fully populated, even on degraded paths.
type QueryResponse struct {
	Query             string          `json:"query"`
	Answer            string          `json:"answer"`
	RetrievedChunkIDs []string        `json:"retrieved_chunk_ids"`
	Version           string          `json:"version"`
	Cached            bool            `json:"cached"`
	SearchMethod      string          `json:"search_method"`
	QueryType         string          `json:"query_type"`
	ResponseFormat    string          `json:"response_format"`
	SourcesUsed       []string        `json:"sources_used"`
	PromptMetadata    prompt.Metadata `json:"prompt_metadata"`
}

// QueryService is the answer synthesizer: cache lookup, classification,
// hybrid retrieval, reranking, prompt construction, generation, cache write.
type QueryService struct {
	store      *corpus.Store
	retriever  *retrieval.Retriever
	reranker   *retrieval.Reranker
	generator  ai.Generator
	queryCache *cache.QueryCache[QueryResponse]
	embedCache *cache.CachingEmbedder
	history    *cache.SessionHistory[QueryResponse]

	version    string
	genTimeout time.Duration
}

func NewQueryService(
	store *corpus.Store,
	retriever *retrieval.Retriever,
	reranker *retrieval.Reranker,
	generator ai.Generator,
	queryCache *cache.QueryCache[QueryResponse],
	embedCache *cache.CachingEmbedder,
	history *cache.SessionHistory[QueryResponse],
	version string,
	genTimeout time.Duration,
) *QueryService {
	if version == "" {
		version = "2.0.0"
	}
	if genTimeout <= 0 {
		genTimeout = 30 * time.Second
	}
	return &QueryService{
		store:      store,
		retriever:  retriever,
		reranker:   reranker,
		generator:  generator,
		queryCache: queryCache,
		embedCache: embedCache,
		history:    history,
		version:    version,
		genTimeout: genTimeout,
	}
}

// Query runs the full pipeline. It never returns an error for dependency
// failures: embedding failures degrade to keyword search and generation
// failures produce a templated offline answer.
func (s *QueryService) Query(ctx context.Context, input QueryInput) (*QueryResponse, error) {
	queryText := strings.TrimSpace(input.QueryText)
	if queryText == "" {
		return nil, ErrInvalidInput
	}

	fingerprint := cache.Fingerprint(queryText, input.NumResults, input.UseHybridSearch, input.UseReranking, input.UseEnhancedPrompts)
	if hit, ok := s.queryCache.Lookup(fingerprint); ok {
		hit.Cached = true
		s.appendHistory(input.UserSessionID, hit)
		return &hit, nil
	}

	queryType := prompt.Classify(queryText)
	format := prompt.DetermineFormat(queryText, queryType)

	candidates, method := s.retriever.Retrieve(ctx, s.store.Current(), queryText, input.UseHybridSearch)

	topK := input.NumResults
	if topK <= 0 {
		topK = s.reranker.TopK
	}
	var results []retrieval.Result
	if input.UseReranking {
		keywords := retrieval.ExtractKeywords(queryText)
		reranker := retrieval.NewReranker(topK)
		results = reranker.Rerank(queryText, keywords, candidates)
	} else {
		results = candidates
		if len(results) > topK {
			results = results[:topK]
		}
	}

	resp := QueryResponse{
		Query:             queryText,
		RetrievedChunkIDs: []string{},
		Version:           s.version,
		SearchMethod:      string(method),
		QueryType:         string(queryType),
		ResponseFormat:    string(format),
		SourcesUsed:       []string{},
		PromptMetadata: prompt.Metadata{
			QueryType:      queryType,
			ResponseFormat: format,
			TemplateID:     "none",
			Enhanced:       input.UseEnhancedPrompts,
		},
	}

	if len(results) == 0 {
		resp.Answer = prompt.InsufficientInfoAnswer
		s.queryCache.Store(fingerprint, resp)
		s.appendHistory(input.UserSessionID, resp)
		return &resp, nil
	}

	for _, res := range results {
		resp.RetrievedChunkIDs = append(resp.RetrievedChunkIDs, res.ChunkID)
	}
	resp.SourcesUsed = collectSources(results)

	// Provider-count questions with no fact and no number anywhere in the
	// context get the deterministic disclaimer instead of a generation that
	// could only fabricate one.
	if queryType == prompt.QueryProviderCount && !hasCountEvidence(results) {
		resp.Answer = prompt.FallbackAnswer(prompt.QueryProviderCount)
		resp.PromptMetadata.TemplateID = "provider_count_disclaimer"
		s.queryCache.Store(fingerprint, resp)
		s.appendHistory(input.UserSessionID, resp)
		return &resp, nil
	}

	promptText, meta := prompt.Build(queryText, results, queryType, format, input.UseEnhancedPrompts)
	resp.PromptMetadata = meta

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()
	answer, err := s.generator.Generate(genCtx, promptText)
	if err != nil {
		log.Printf("generation failed, serving offline answer (type=%s): %v", queryType, err)
		resp.Answer = prompt.FallbackAnswer(queryType)
		// Degraded answers are not cached so a recovered generator serves
		// fresh ones on the next identical query.
		s.appendHistory(input.UserSessionID, resp)
		return &resp, nil
	}

	resp.Answer = strings.TrimSpace(answer)
	s.queryCache.Store(fingerprint, resp)
	s.appendHistory(input.UserSessionID, resp)
	return &resp, nil
}

// SessionHistory returns recent answers for a session.
func (s *QueryService) SessionHistory(ctx context.Context, sessionID string) ([]QueryResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidInput
	}
	return s.history.List(ctx, sessionID)
}

// CacheStats exposes both caches for the admin endpoint.
func (s *QueryService) CacheStats() map[string]cache.QueryCacheStats {
	return map[string]cache.QueryCacheStats{
		"query_cache":     s.queryCache.Stats(),
		"embedding_cache": s.embedCache.Stats(),
	}
}

func (s *QueryService) ClearCaches() {
	s.queryCache.Clear()
	s.embedCache.Clear()
}

func (s *QueryService) appendHistory(sessionID string, resp QueryResponse) {
	if sessionID == "" || s.history == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.history.Append(ctx, sessionID, resp); err != nil {
		log.Printf("append session history failed: %v", err)
	}
}

func collectSources(results []retrieval.Result) []string {
	seen := make(map[string]struct{}, len(results))
	sources := []string{}
	for _, res := range results {
		source := res.SourceName
		if source == "" {
			source = res.SourceURL
		}
		if source == "" {
			continue
		}
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}
	return sources
}

// hasCountEvidence reports whether any candidate is a structured fact or
// contains a digit an exact count could come from.
func hasCountEvidence(results []retrieval.Result) bool {
	for _, res := range results {
		if res.IsFact {
			return true
		}
		if strings.ContainsFunc(res.Text, unicode.IsDigit) {
			return true
		}
	}
	return false
}
