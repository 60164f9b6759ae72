package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/billfold/estimate-api/internal/domain"
)

// NumberSequenceRepository backs generated estimate numbers with a
// per-prefix/year counter.
type NumberSequenceRepository struct {
	db *gorm.DB
}

func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber atomically increments and returns the sequence for a
// prefix/year. The increment runs as a single UPDATE inside a
// transaction so it works on both postgres and sqlite; a missing row is
// created starting at 1.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, prefix string, year int) (int, error) {
	var next int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.NumberSequence{}).
			Where("prefix = ? AND year = ?", prefix, year).
			Updates(map[string]interface{}{
				"last_number": gorm.Expr("last_number + 1"),
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update number sequence: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			seq := domain.NumberSequence{
				Prefix:     prefix,
				Year:       year,
				LastNumber: 1,
				UpdatedAt:  time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			next = 1
			return nil
		}

		var seq domain.NumberSequence
		if err := tx.Where("prefix = ? AND year = ?", prefix, year).First(&seq).Error; err != nil {
			return fmt.Errorf("failed to read number sequence: %w", err)
		}
		next = seq.LastNumber
		return nil
	})

	if err != nil {
		return 0, err
	}
	return next, nil
}

// GetCurrentSequence returns the last issued number without incrementing,
// or 0 when no sequence exists yet.
func (r *NumberSequenceRepository) GetCurrentSequence(ctx context.Context, prefix string, year int) (int, error) {
	var seq domain.NumberSequence
	err := r.db.WithContext(ctx).
		Where("prefix = ? AND year = ?", prefix, year).
		First(&seq).Error

	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", err)
	}
	return seq.LastNumber, nil
}
