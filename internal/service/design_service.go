package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/billfold/estimate-api/internal/domain"
	"github.com/billfold/estimate-api/internal/repository"
)

// DesignService manages per-user document presentation settings. The
// settings live independently of any estimate and are threaded into the
// renderer explicitly at generation time.
type DesignService struct {
	settings *repository.DesignSettingsRepository
	logger   *zap.Logger
}

// NewDesignService creates a new DesignService instance
func NewDesignService(settings *repository.DesignSettingsRepository, logger *zap.Logger) *DesignService {
	return &DesignService{
		settings: settings,
		logger:   logger,
	}
}

// Get returns the user's settings, falling back to defaults when the
// user never saved any.
func (s *DesignService) Get(ctx context.Context, userID uuid.UUID) (domain.DesignSettings, error) {
	settings, err := s.settings.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultDesignSettings(userID), nil
	}
	if err != nil {
		return domain.DesignSettings{}, fmt.Errorf("failed to load design settings: %w", err)
	}
	return *settings, nil
}

// Update overwrites the user's settings
func (s *DesignService) Update(ctx context.Context, userID uuid.UUID, req *domain.DesignSettingsRequest) (domain.DesignSettings, error) {
	settings := domain.DesignSettings{
		UserID:         userID,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		FontFamily:     req.FontFamily,
		Logo:           req.Logo,
	}

	if err := s.settings.Upsert(ctx, &settings); err != nil {
		return domain.DesignSettings{}, fmt.Errorf("failed to save design settings: %w", err)
	}

	s.logger.Info("design settings updated",
		zap.String("user_id", userID.String()),
		zap.String("font", string(req.FontFamily)),
	)
	return settings, nil
}

// ToDesignSettingsDTO converts settings to their public view
func ToDesignSettingsDTO(settings domain.DesignSettings) domain.DesignSettingsDTO {
	return domain.DesignSettingsDTO{
		PrimaryColor:   settings.PrimaryColor,
		SecondaryColor: settings.SecondaryColor,
		FontFamily:     settings.FontFamily,
		Logo:           settings.Logo,
	}
}
