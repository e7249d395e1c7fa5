package model

import "time"

// FeedbackRecord captures a user's rating of an answer. It is stored for
// later corpus curation only; query-time ranking never reads it.
type FeedbackRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QueryText    string    `gorm:"type:text;not null" json:"query_text"`
	ResponseText string    `gorm:"type:text" json:"response_text"`
	FeedbackType string    `gorm:"size:32;not null;index" json:"feedback_type"` // thumbs_up, thumbs_down
	Rating       int       `json:"rating"`                                      // 1-5, 0 = not given
	Categories   string    `gorm:"size:512" json:"categories"`                  // comma-separated, e.g. "accuracy,clarity"
	Details      string    `gorm:"type:text" json:"details,omitempty"`
	SearchMethod string    `gorm:"size:32" json:"search_method"`
	SessionID    string    `gorm:"size:128;index" json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
}
