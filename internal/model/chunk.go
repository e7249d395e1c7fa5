package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// MaxChunkTextLen bounds chunk text so it stays within embedding input limits.
const MaxChunkTextLen = 8000

// Chunk is the atomic retrievable unit: a bounded piece of source text plus
// its embedding and provenance metadata.
// Embedding is stored as a JSON array of float32 for portability.
type Chunk struct {
	ID          string    `gorm:"primaryKey;size:128" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Embedding   string    `gorm:"type:mediumtext" json:"-"` // JSON array of float32; empty = keyword-only
	ContentHash string    `gorm:"size:64;index" json:"content_hash"`
	SourceName  string    `gorm:"size:256" json:"source_name"`
	SourceURL   string    `gorm:"size:512" json:"source_url"`
	Topic       string    `gorm:"size:128;index" json:"topic"`
	Confidence  float64   `json:"confidence"`
	ChunkIndex  int       `json:"chunk_index"`
	TotalChunks int       `json:"total_chunks"`
	ExtractedAt time.Time `json:"extracted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (c *Chunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *Chunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = ""
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}

// HasEmbedding reports whether the chunk is eligible for vector search.
func (c *Chunk) HasEmbedding() bool {
	return c.Embedding != "" && c.Embedding != "[]"
}

// HashContent computes the dedup hash over chunk text.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
