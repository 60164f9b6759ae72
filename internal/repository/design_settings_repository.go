package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/billfold/estimate-api/internal/domain"
)

type DesignSettingsRepository struct {
	db *gorm.DB
}

func NewDesignSettingsRepository(db *gorm.DB) *DesignSettingsRepository {
	return &DesignSettingsRepository{db: db}
}

// GetByUser returns the user's saved settings, or gorm.ErrRecordNotFound
// when the user never saved any.
func (r *DesignSettingsRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.DesignSettings, error) {
	var settings domain.DesignSettings
	err := r.db.WithContext(ctx).First(&settings, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the user's settings, replacing any previous row
func (r *DesignSettingsRepository) Upsert(ctx context.Context, settings *domain.DesignSettings) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"primary_color", "secondary_color", "font_family", "logo", "updated_at",
			}),
		}).
		Create(settings).Error
}
