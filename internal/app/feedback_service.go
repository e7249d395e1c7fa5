package app

import (
	"context"
	"fmt"
	"strings"

	"eidbi-query-system/internal/model"
	"eidbi-query-system/internal/platform/rabbitmq"
	"eidbi-query-system/internal/repository"
)

var validFeedbackTypes = map[string]struct{}{
	"thumbs_up":   {},
	"thumbs_down": {},
	"correction":  {},
	"suggestion":  {},
}

// FeedbackService validates feedback and hands it off asynchronously. The
// query pipeline never reads feedback at ranking time; it is curation input.
type FeedbackService struct {
	publisher *rabbitmq.Publisher
	repo      *repository.FeedbackRepository
}

func NewFeedbackService(publisher *rabbitmq.Publisher, repo *repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{publisher: publisher, repo: repo}
}

// Submit validates and publishes a feedback record for async persistence.
func (s *FeedbackService) Submit(ctx context.Context, record model.FeedbackRecord) error {
	record.QueryText = strings.TrimSpace(record.QueryText)
	if record.QueryText == "" {
		return fmt.Errorf("%w: query_text is required", ErrInvalidInput)
	}
	if _, ok := validFeedbackTypes[record.FeedbackType]; !ok {
		return fmt.Errorf("%w: unknown feedback_type %q", ErrInvalidInput, record.FeedbackType)
	}
	if record.Rating < 0 || record.Rating > 5 {
		return fmt.Errorf("%w: rating must be 0-5", ErrInvalidInput)
	}
	if err := s.publisher.Publish(ctx, record); err != nil {
		return err
	}
	return nil
}

func (s *FeedbackService) Stats() (*repository.FeedbackStats, error) {
	return s.repo.Stats()
}
