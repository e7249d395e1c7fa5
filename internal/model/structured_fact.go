package model

import (
	"fmt"
	"time"
)

// StructuredFact is a curated exact-value record (e.g. a provider count)
// kept separate from free-text chunks. At most one current fact exists per
// (category, fact_key); updates replace the row.
type StructuredFact struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Category    string    `gorm:"size:128;not null;uniqueIndex:idx_fact_category_key" json:"category"`
	FactKey     string    `gorm:"size:256;not null;uniqueIndex:idx_fact_category_key" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"` // scalar or JSON-encoded structure
	Source      string    `gorm:"size:256" json:"source"`
	SourceURL   string    `gorm:"size:512" json:"source_url"`
	Confidence  string    `gorm:"size:16" json:"confidence"` // high, medium, low
	Notes       string    `gorm:"type:text" json:"notes,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// AsText renders the fact as an attributable context block for prompts.
func (f *StructuredFact) AsText() string {
	s := fmt.Sprintf("Key Fact: %s\nValue: %s\nSource: %s", f.FactKey, f.Value, f.Source)
	if f.Notes != "" {
		s += "\nNotes: " + f.Notes
	}
	return s
}

// ChunkID is the fact's identifier in retrieval results, namespaced so it
// never collides with free-text chunk ids.
func (f *StructuredFact) ChunkID() string {
	return "structured_" + f.Category + "_" + f.FactKey
}
