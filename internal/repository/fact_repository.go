package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eidbi-query-system/internal/model"
)

type FactRepository struct {
	db *gorm.DB
}

func NewFactRepository(db *gorm.DB) *FactRepository {
	return &FactRepository{db: db}
}

func (r *FactRepository) ListAll() ([]model.StructuredFact, error) {
	var facts []model.StructuredFact
	if err := r.db.Find(&facts).Error; err != nil {
		return nil, fmt.Errorf("list structured facts failed: %w", err)
	}
	return facts, nil
}

// Upsert replaces the current fact for (category, fact_key); history is not
// kept in this table.
func (r *FactRepository) Upsert(fact *model.StructuredFact) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "fact_key"}},
		UpdateAll: true,
	}).Create(fact).Error
	if err != nil {
		return fmt.Errorf("upsert structured fact failed: %w", err)
	}
	return nil
}

func (r *FactRepository) UpsertBatch(facts []model.StructuredFact) error {
	if len(facts) == 0 {
		return nil
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "fact_key"}},
		UpdateAll: true,
	}).Create(&facts).Error
	if err != nil {
		return fmt.Errorf("upsert structured facts batch failed: %w", err)
	}
	return nil
}
