// Package corpus holds the in-memory searchable corpus: an immutable
// snapshot of chunks and structured facts swapped atomically on refresh,
// so in-flight queries always see either the old corpus or the new one.
package corpus

import (
	"sync"
	"sync/atomic"
	"time"

	"eidbi-query-system/internal/model"
)

// Snapshot is a read-only view of the corpus. Never mutate a snapshot after
// publishing it through Store.
type Snapshot struct {
	Chunks    []model.Chunk
	Facts     []model.StructuredFact
	LoadedAt  time.Time
	byChunkID map[string]int
}

func NewSnapshot(chunks []model.Chunk, facts []model.StructuredFact) *Snapshot {
	s := &Snapshot{
		Chunks:    chunks,
		Facts:     facts,
		LoadedAt:  time.Now(),
		byChunkID: make(map[string]int, len(chunks)),
	}
	for i := range chunks {
		s.byChunkID[chunks[i].ID] = i
	}
	return s
}

func (s *Snapshot) ChunkByID(id string) (*model.Chunk, bool) {
	i, ok := s.byChunkID[id]
	if !ok {
		return nil, false
	}
	return &s.Chunks[i], true
}

// Store serializes writers with a mutex; readers stay lock-free on the
// atomic pointer. Without the mutex, two concurrent Merge calls would both
// build from the same base snapshot and the second Store would drop the
// first one's batch.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	st := &Store{}
	st.current.Store(NewSnapshot(nil, nil))
	return st
}

// Current returns the live snapshot. Callers must treat it as immutable.
func (st *Store) Current() *Snapshot {
	return st.current.Load()
}

// Replace publishes a full new corpus, deduplicated by id and content hash.
func (st *Store) Replace(chunks []model.Chunk, facts []model.StructuredFact) *Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	snap := NewSnapshot(dedupChunks(chunks), dedupFacts(facts))
	st.current.Store(snap)
	return snap
}

// Merge folds a batch into the current corpus. Incoming chunks win over
// existing ones with the same id; incoming facts replace the current fact
// for the same (category, key).
func (st *Store) Merge(chunks []model.Chunk, facts []model.StructuredFact) *Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	cur := st.current.Load()

	merged := make([]model.Chunk, 0, len(cur.Chunks)+len(chunks))
	incoming := make(map[string]struct{}, len(chunks))
	for i := range chunks {
		incoming[chunks[i].ID] = struct{}{}
	}
	for i := range cur.Chunks {
		if _, replaced := incoming[cur.Chunks[i].ID]; !replaced {
			merged = append(merged, cur.Chunks[i])
		}
	}
	merged = append(merged, chunks...)

	mergedFacts := make([]model.StructuredFact, 0, len(cur.Facts)+len(facts))
	incomingFacts := make(map[string]struct{}, len(facts))
	for i := range facts {
		incomingFacts[factKey(&facts[i])] = struct{}{}
	}
	for i := range cur.Facts {
		if _, replaced := incomingFacts[factKey(&cur.Facts[i])]; !replaced {
			mergedFacts = append(mergedFacts, cur.Facts[i])
		}
	}
	mergedFacts = append(mergedFacts, facts...)

	snap := NewSnapshot(dedupChunks(merged), dedupFacts(mergedFacts))
	st.current.Store(snap)
	return snap
}

// dedupChunks drops later duplicates by id, then by content hash, keeping
// first occurrence. Chunks without a precomputed hash get one here.
func dedupChunks(chunks []model.Chunk) []model.Chunk {
	seenID := make(map[string]struct{}, len(chunks))
	seenHash := make(map[string]struct{}, len(chunks))
	out := make([]model.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if c.ContentHash == "" {
			c.ContentHash = model.HashContent(c.Text)
		}
		if _, dup := seenID[c.ID]; dup {
			continue
		}
		if _, dup := seenHash[c.ContentHash]; dup {
			continue
		}
		seenID[c.ID] = struct{}{}
		seenHash[c.ContentHash] = struct{}{}
		out = append(out, c)
	}
	return out
}

// dedupFacts keeps the last fact per (category, key): updates replace.
func dedupFacts(facts []model.StructuredFact) []model.StructuredFact {
	byKey := make(map[string]int, len(facts))
	out := make([]model.StructuredFact, 0, len(facts))
	for i := range facts {
		k := factKey(&facts[i])
		if j, ok := byKey[k]; ok {
			out[j] = facts[i]
			continue
		}
		byKey[k] = len(out)
		out = append(out, facts[i])
	}
	return out
}

func factKey(f *model.StructuredFact) string {
	return f.Category + "\x00" + f.FactKey
}
