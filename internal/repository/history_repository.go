package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billfold/estimate-api/internal/domain"
)

// historyKey is the single key-value slot holding the estimate history
const historyKey = "estimate_history"

// HistoryRepository persists the ordered list of estimate summaries as
// one serialized value under a fixed key. Every mutation rewrites the
// whole list; writes are last-writer-wins with no merge policy.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Load reads the full history. A missing row means no estimates were
// ever generated and yields an empty list; corrupt stored data is an
// error for the caller to surface.
func (r *HistoryRepository) Load(ctx context.Context) ([]domain.EstimateSummary, error) {
	var entry domain.KVEntry
	err := r.db.WithContext(ctx).First(&entry, "key = ?", historyKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []domain.EstimateSummary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	var summaries []domain.EstimateSummary
	if err := json.Unmarshal([]byte(entry.Value), &summaries); err != nil {
		return nil, fmt.Errorf("corrupt history data: %w", err)
	}
	return summaries, nil
}

// Save overwrites the stored history with the given list
func (r *HistoryRepository) Save(ctx context.Context, summaries []domain.EstimateSummary) error {
	if summaries == nil {
		summaries = []domain.EstimateSummary{}
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}

	entry := domain.KVEntry{
		Key:       historyKey,
		Value:     string(data),
		UpdatedAt: time.Now().UTC(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}
