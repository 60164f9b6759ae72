package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/auth"
	"github.com/billfold/estimate-api/internal/domain"
	"github.com/billfold/estimate-api/internal/service"
)

// DesignHandler handles HTTP requests for document design settings
type DesignHandler struct {
	designService *service.DesignService
	logger        *zap.Logger
}

// NewDesignHandler creates a new DesignHandler instance
func NewDesignHandler(designService *service.DesignService, logger *zap.Logger) *DesignHandler {
	return &DesignHandler{
		designService: designService,
		logger:        logger,
	}
}

// Get godoc
// @Summary Get design settings
// @Description Get the caller's document design settings, or the defaults if none were saved
// @Tags Design
// @Produce json
// @Success 200 {object} domain.DesignSettingsDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /design-settings [get]
func (h *DesignHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx := auth.MustFromContext(r.Context())

	settings, err := h.designService.Get(r.Context(), userCtx.UserID)
	if err != nil {
		h.logger.Error("failed to load design settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load design settings")
		return
	}

	respondJSON(w, http.StatusOK, service.ToDesignSettingsDTO(settings))
}

// Update godoc
// @Summary Update design settings
// @Description Replace the caller's document design settings
// @Tags Design
// @Accept json
// @Produce json
// @Param request body domain.DesignSettingsRequest true "Design settings"
// @Success 200 {object} domain.DesignSettingsDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /design-settings [put]
func (h *DesignHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.DesignSettingsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	settings, err := h.designService.Update(r.Context(), userCtx.UserID, &req)
	if err != nil {
		h.logger.Error("failed to save design settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to save design settings")
		return
	}

	respondJSON(w, http.StatusOK, service.ToDesignSettingsDTO(settings))
}
