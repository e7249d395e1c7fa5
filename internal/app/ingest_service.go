package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"eidbi-query-system/internal/ai"
	"eidbi-query-system/internal/corpus"
	"eidbi-query-system/internal/model"
	"eidbi-query-system/internal/repository"
)

// IngestService accepts chunk/fact batches from the external scraping
// pipeline, persists them, and publishes a new corpus snapshot atomically.
type IngestService struct {
	chunkRepo *repository.ChunkRepository
	factRepo  *repository.FactRepository
	store     *corpus.Store
	embedder  ai.Embedder
}

func NewIngestService(
	chunkRepo *repository.ChunkRepository,
	factRepo *repository.FactRepository,
	store *corpus.Store,
	embedder ai.Embedder,
) *IngestService {
	return &IngestService{
		chunkRepo: chunkRepo,
		factRepo:  factRepo,
		store:     store,
		embedder:  embedder,
	}
}

// IngestResult summarizes an applied batch.
type IngestResult struct {
	ChunksAccepted int       `json:"chunks_accepted"`
	FactsAccepted  int       `json:"facts_accepted"`
	CorpusChunks   int       `json:"corpus_chunks"`
	CorpusFacts    int       `json:"corpus_facts"`
	Replaced       bool      `json:"replaced"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// Ingest applies a batch. replace=true swaps the corpus wholesale; false
// merges into the current one. In both cases in-flight queries see either
// the old snapshot or the new one, never a mix.
func (s *IngestService) Ingest(ctx context.Context, chunks []model.Chunk, facts []model.StructuredFact, replace bool) (*IngestResult, error) {
	prepared, err := s.prepareChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}
	preparedFacts, err := prepareFacts(facts)
	if err != nil {
		return nil, err
	}
	if len(prepared) == 0 && len(preparedFacts) == 0 && !replace {
		return nil, ErrInvalidInput
	}

	var snap *corpus.Snapshot
	if replace {
		if err := s.chunkRepo.ReplaceAll(prepared); err != nil {
			return nil, err
		}
		if err := s.factRepo.UpsertBatch(preparedFacts); err != nil {
			return nil, err
		}
		snap = s.store.Replace(prepared, preparedFacts)
	} else {
		if err := s.chunkRepo.UpsertBatch(prepared); err != nil {
			return nil, err
		}
		if err := s.factRepo.UpsertBatch(preparedFacts); err != nil {
			return nil, err
		}
		snap = s.store.Merge(prepared, preparedFacts)
	}

	return &IngestResult{
		ChunksAccepted: len(prepared),
		FactsAccepted:  len(preparedFacts),
		CorpusChunks:   len(snap.Chunks),
		CorpusFacts:    len(snap.Facts),
		Replaced:       replace,
		LoadedAt:       snap.LoadedAt,
	}, nil
}

// WarmLoad fills the snapshot from MySQL at startup.
func (s *IngestService) WarmLoad(ctx context.Context) error {
	chunks, err := s.chunkRepo.ListAll()
	if err != nil {
		return fmt.Errorf("warm load chunks failed: %w", err)
	}
	facts, err := s.factRepo.ListAll()
	if err != nil {
		return fmt.Errorf("warm load facts failed: %w", err)
	}
	snap := s.store.Replace(chunks, facts)
	log.Printf("corpus loaded: %d chunks, %d facts", len(snap.Chunks), len(snap.Facts))
	return nil
}

// prepareChunks validates, bounds, hashes, and best-effort embeds incoming
// chunks. An embedding failure leaves the chunk keyword-only rather than
// rejecting it.
func (s *IngestService) prepareChunks(ctx context.Context, chunks []model.Chunk) ([]model.Chunk, error) {
	prepared := make([]model.Chunk, 0, len(chunks))
	for _, c := range chunks {
		c.ID = strings.TrimSpace(c.ID)
		c.Text = strings.TrimSpace(c.Text)
		if c.ID == "" || c.Text == "" {
			return nil, fmt.Errorf("%w: chunk id and text are required", ErrInvalidInput)
		}
		if len(c.Text) > model.MaxChunkTextLen {
			c.Text = c.Text[:model.MaxChunkTextLen]
		}
		c.ContentHash = model.HashContent(c.Text)
		if c.ExtractedAt.IsZero() {
			c.ExtractedAt = time.Now()
		}
		if !c.HasEmbedding() && s.embedder != nil {
			vec, err := s.embedder.Embed(ctx, c.Text)
			if err != nil {
				log.Printf("embed chunk %s failed, keeping keyword-only: %v", c.ID, err)
			} else {
				c.SetEmbedding(vec)
			}
		}
		prepared = append(prepared, c)
	}
	return prepared, nil
}

func prepareFacts(facts []model.StructuredFact) ([]model.StructuredFact, error) {
	prepared := make([]model.StructuredFact, 0, len(facts))
	for _, f := range facts {
		f.Category = strings.TrimSpace(f.Category)
		f.FactKey = strings.TrimSpace(f.FactKey)
		if f.Category == "" || f.FactKey == "" || strings.TrimSpace(f.Value) == "" {
			return nil, fmt.Errorf("%w: fact category, key and value are required", ErrInvalidInput)
		}
		if f.Confidence == "" {
			f.Confidence = "high"
		}
		if f.LastUpdated.IsZero() {
			f.LastUpdated = time.Now()
		}
		prepared = append(prepared, f)
	}
	return prepared, nil
}
