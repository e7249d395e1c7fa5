package repository

import (
	"fmt"

	"gorm.io/gorm"

	"eidbi-query-system/internal/model"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(record *model.FeedbackRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create feedback record failed: %w", err)
	}
	return nil
}

// FeedbackStats aggregates stored feedback for the stats endpoint.
type FeedbackStats struct {
	Total         int64            `json:"total"`
	ByType        map[string]int64 `json:"by_type"`
	AverageRating float64          `json:"average_rating"`
}

func (r *FeedbackRepository) Stats() (*FeedbackStats, error) {
	stats := &FeedbackStats{ByType: make(map[string]int64)}

	if err := r.db.Model(&model.FeedbackRecord{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("count feedback failed: %w", err)
	}

	type typeCount struct {
		FeedbackType string
		N            int64
	}
	var counts []typeCount
	err := r.db.Model(&model.FeedbackRecord{}).
		Select("feedback_type, count(*) as n").
		Group("feedback_type").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("group feedback by type failed: %w", err)
	}
	for _, c := range counts {
		stats.ByType[c.FeedbackType] = c.N
	}

	var avg *float64
	err = r.db.Model(&model.FeedbackRecord{}).
		Where("rating > 0").
		Select("avg(rating)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("average feedback rating failed: %w", err)
	}
	if avg != nil {
		stats.AverageRating = *avg
	}
	return stats, nil
}
