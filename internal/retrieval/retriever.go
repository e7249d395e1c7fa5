// Package retrieval implements the query-time search pipeline: hybrid
// vector + keyword candidate generation with weighted fusion, structured
// fact short-circuiting, and a second-pass reranker.
package retrieval

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"eidbi-query-system/internal/ai"
	"eidbi-query-system/internal/corpus"
	"eidbi-query-system/internal/model"
)

// SearchMethod names how a result set was produced.
type SearchMethod string

const (
	SearchHybrid  SearchMethod = "hybrid"
	SearchVector  SearchMethod = "vector"
	SearchKeyword SearchMethod = "keyword"
	SearchNone    SearchMethod = "none" // empty corpus, nothing searched
)

// Structured facts outrank any fused score: normalized fusion scores are
// bounded by vector_weight + keyword_weight.
const factPriorityScore = 1e6

// Result is one ranked candidate. Facts are carried as synthetic chunks so
// downstream stages treat them uniformly.
type Result struct {
	ChunkID     string
	Text        string
	SourceName  string
	SourceURL   string
	Score       float64
	IsFact      bool
	LastUpdated time.Time
}

// Options are the tunable knobs of the fusion stage.
type Options struct {
	VectorTopN    int
	KeywordTopM   int
	VectorWeight  float64
	KeywordWeight float64
}

func (o Options) withDefaults() Options {
	if o.VectorTopN <= 0 {
		o.VectorTopN = 15
	}
	if o.KeywordTopM <= 0 {
		o.KeywordTopM = 20
	}
	if o.VectorWeight <= 0 && o.KeywordWeight <= 0 {
		o.VectorWeight, o.KeywordWeight = 0.7, 0.3
	}
	return o
}

type Retriever struct {
	embedder ai.Embedder
	opts     Options
}

func NewRetriever(embedder ai.Embedder, opts Options) *Retriever {
	return &Retriever{embedder: embedder, opts: opts.withDefaults()}
}

// Retrieve produces the fused candidate list for a query over the given
// corpus snapshot. When useHybrid is false only the vector pass runs; when
// the embedding call fails the retriever degrades to keyword-only rather
// than surfacing an error. Empty corpus yields an empty list.
func (r *Retriever) Retrieve(ctx context.Context, snap *corpus.Snapshot, queryText string, useHybrid bool) ([]Result, SearchMethod) {
	if snap == nil || (len(snap.Chunks) == 0 && len(snap.Facts) == 0) {
		return nil, SearchNone
	}

	keywords := ExtractKeywords(queryText)

	var (
		wg            sync.WaitGroup
		vectorScores  []scoredChunk
		keywordScores []scoredChunk
		embedErr      error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		queryVec, err := r.embedder.Embed(ctx, queryText)
		if err != nil {
			embedErr = err
			return
		}
		vectorScores = r.vectorPass(snap, queryVec)
	}()

	if useHybrid {
		wg.Add(1)
		go func() {
			defer wg.Done()
			keywordScores = r.keywordPass(snap, keywords)
		}()
	}
	wg.Wait()

	method := SearchVector
	switch {
	case embedErr != nil:
		log.Printf("query embedding failed, degrading to keyword search: %v", embedErr)
		if keywordScores == nil {
			keywordScores = r.keywordPass(snap, keywords)
		}
		method = SearchKeyword
	case useHybrid && len(keywordScores) > 0:
		method = SearchHybrid
	}

	fused := fuse(vectorScores, keywordScores, r.opts)

	results := make([]Result, 0, len(fused)+2)
	for _, fact := range matchFacts(snap.Facts, keywords) {
		results = append(results, Result{
			ChunkID:     fact.ChunkID(),
			Text:        fact.AsText(),
			SourceName:  fact.Source,
			SourceURL:   fact.SourceURL,
			Score:       factPriorityScore,
			IsFact:      true,
			LastUpdated: fact.LastUpdated,
		})
	}
	for _, sc := range fused {
		results = append(results, Result{
			ChunkID:     sc.chunk.ID,
			Text:        sc.chunk.Text,
			SourceName:  sc.chunk.SourceName,
			SourceURL:   sc.chunk.SourceURL,
			Score:       sc.score,
			LastUpdated: sc.chunk.ExtractedAt,
		})
	}
	SortResults(results)
	return results, method
}

type scoredChunk struct {
	chunk *model.Chunk
	score float64
}

func (r *Retriever) vectorPass(snap *corpus.Snapshot, queryVec []float32) []scoredChunk {
	scored := make([]scoredChunk, 0, len(snap.Chunks))
	for i := range snap.Chunks {
		c := &snap.Chunks[i]
		if !c.HasEmbedding() {
			continue
		}
		scored = append(scored, scoredChunk{chunk: c, score: CosineSimilarity(queryVec, c.EmbeddingVector())})
	}
	sortScored(scored)
	if len(scored) > r.opts.VectorTopN {
		scored = scored[:r.opts.VectorTopN]
	}
	return scored
}

func (r *Retriever) keywordPass(snap *corpus.Snapshot, keywords []string) []scoredChunk {
	if len(keywords) == 0 {
		return nil
	}
	scored := make([]scoredChunk, 0, len(snap.Chunks))
	for i := range snap.Chunks {
		c := &snap.Chunks[i]
		textLower := strings.ToLower(c.Text)
		var hits float64
		for _, kw := range keywords {
			hits += float64(strings.Count(textLower, kw))
		}
		if hits > 0 {
			scored = append(scored, scoredChunk{chunk: c, score: hits})
		}
	}
	sortScored(scored)
	if len(scored) > r.opts.KeywordTopM {
		scored = scored[:r.opts.KeywordTopM]
	}
	return scored
}

// fuse merges the two candidate sets, max-normalizing each signal and
// summing with the configured weights. Chunks present in both sets appear
// once with the combined score.
func fuse(vector, keyword []scoredChunk, opts Options) []scoredChunk {
	combined := make(map[string]scoredChunk, len(vector)+len(keyword))

	maxVec := maxScore(vector)
	for _, sc := range vector {
		norm := sc.score
		if maxVec > 0 {
			norm = sc.score / maxVec
		}
		combined[sc.chunk.ID] = scoredChunk{chunk: sc.chunk, score: opts.VectorWeight * norm}
	}

	maxKw := maxScore(keyword)
	for _, sc := range keyword {
		norm := sc.score
		if maxKw > 0 {
			norm = sc.score / maxKw
		}
		weighted := opts.KeywordWeight * norm
		if existing, ok := combined[sc.chunk.ID]; ok {
			existing.score += weighted
			combined[sc.chunk.ID] = existing
		} else {
			combined[sc.chunk.ID] = scoredChunk{chunk: sc.chunk, score: weighted}
		}
	}

	fused := make([]scoredChunk, 0, len(combined))
	for _, sc := range combined {
		fused = append(fused, sc)
	}
	sortScored(fused)
	return fused
}

// matchFacts returns facts whose key or category overlaps the query
// keywords. These short-circuit fuzzy ranking entirely.
func matchFacts(facts []model.StructuredFact, keywords []string) []*model.StructuredFact {
	var matched []*model.StructuredFact
	for i := range facts {
		f := &facts[i]
		haystack := strings.ToLower(strings.ReplaceAll(f.FactKey, "_", " ") + " " + strings.ReplaceAll(f.Category, "_", " "))
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, f)
				break
			}
		}
	}
	return matched
}

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]; zero when dimensions mismatch or either vector is empty.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func maxScore(scored []scoredChunk) float64 {
	var max float64
	for _, sc := range scored {
		if sc.score > max {
			max = sc.score
		}
	}
	return max
}

func sortScored(scored []scoredChunk) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if !scored[i].chunk.ExtractedAt.Equal(scored[j].chunk.ExtractedAt) {
			return scored[i].chunk.ExtractedAt.After(scored[j].chunk.ExtractedAt)
		}
		return len(scored[i].chunk.Text) < len(scored[j].chunk.Text)
	})
}

// SortResults orders by score descending, breaking ties by recency then by
// shorter text (prefer concise sources).
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].LastUpdated.Equal(results[j].LastUpdated) {
			return results[i].LastUpdated.After(results[j].LastUpdated)
		}
		return len(results[i].Text) < len(results[j].Text)
	})
}
