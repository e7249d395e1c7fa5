package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eidbi-query-system/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) ListAll() ([]model.Chunk, error) {
	var chunks []model.Chunk
	if err := r.db.Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks failed: %w", err)
	}
	return chunks, nil
}

// UpsertBatch inserts chunks, replacing existing rows with the same id.
func (r *ChunkRepository) UpsertBatch(chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).CreateInBatches(&chunks, 100).Error
	if err != nil {
		return fmt.Errorf("upsert chunks batch failed: %w", err)
	}
	return nil
}

// ReplaceAll swaps the persisted corpus wholesale inside one transaction.
func (r *ChunkRepository) ReplaceAll(chunks []model.Chunk) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Chunk{}).Error; err != nil {
			return fmt.Errorf("clear chunks failed: %w", err)
		}
		if len(chunks) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&chunks, 100).Error; err != nil {
			return fmt.Errorf("insert chunks failed: %w", err)
		}
		return nil
	})
}

func (r *ChunkRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.Chunk{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count chunks failed: %w", err)
	}
	return n, nil
}
