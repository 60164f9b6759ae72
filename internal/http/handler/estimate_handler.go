package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/auth"
	"github.com/billfold/estimate-api/internal/domain"
	"github.com/billfold/estimate-api/internal/service"
	"github.com/billfold/estimate-api/internal/storage"
)

// EstimateHandler handles HTTP requests for estimate preview, generation
// and the persisted history.
type EstimateHandler struct {
	estimateService *service.EstimateService
	logger          *zap.Logger
}

// NewEstimateHandler creates a new EstimateHandler instance
func NewEstimateHandler(estimateService *service.EstimateService, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
		logger:          logger,
	}
}

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// Preview godoc
// @Summary Preview totals
// @Description Compute subtotal, tax, discount and grand total for an estimate payload without generating anything
// @Tags Estimates
// @Accept json
// @Produce json
// @Param request body domain.EstimateRequest true "Estimate payload"
// @Success 200 {object} domain.TotalsResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates/preview [post]
func (h *EstimateHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.estimateService.Preview(&req))
}

// Generate godoc
// @Summary Generate an estimate
// @Description Render the PDF, store the artifact and append a history entry
// @Tags Estimates
// @Accept json
// @Produce json
// @Param request body domain.EstimateRequest true "Estimate payload"
// @Success 201 {object} domain.GenerateEstimateResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates [post]
func (h *EstimateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	userCtx := auth.MustFromContext(r.Context())
	resp, err := h.estimateService.Generate(r.Context(), userCtx, &req)
	if err != nil {
		h.logger.Error("estimate generation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Document generation failed")
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// List godoc
// @Summary List estimate history
// @Description Get all generated estimates, newest first
// @Tags Estimates
// @Produce json
// @Success 200 {array} domain.EstimateSummary
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates [get]
func (h *EstimateHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.estimateService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list estimates", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// Stats godoc
// @Summary Estimate status counts
// @Description Count history entries by acceptance status
// @Tags Estimates
// @Produce json
// @Success 200 {object} domain.EstimateStatsResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates/stats [get]
func (h *EstimateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.estimateService.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Get godoc
// @Summary Get one estimate
// @Description Get a single history entry by id
// @Tags Estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} domain.EstimateSummary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates/{id} [get]
func (h *EstimateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid estimate id")
		return
	}

	summary, err := h.estimateService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEstimateNotFound) {
			respondWithError(w, http.StatusNotFound, "Estimate not found")
			return
		}
		h.logger.Error("failed to get estimate", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to load estimate")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Download godoc
// @Summary Download estimate PDF
// @Description Stream the stored PDF artifact for an estimate
// @Tags Estimates
// @Produce application/pdf
// @Param id path string true "Estimate ID"
// @Success 200 {file} file "PDF document"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates/{id}/download [get]
func (h *EstimateHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid estimate id")
		return
	}

	rc, filename, err := h.estimateService.Download(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEstimateNotFound) || errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Estimate not found")
			return
		}
		h.logger.Error("failed to download estimate", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to download estimate")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("download stream interrupted",
			zap.String("id", id.String()),
			zap.Error(err),
		)
	}
}

// UpdateStatus godoc
// @Summary Set estimate status
// @Description Set the acceptance status; any status may follow any other
// @Tags Estimates
// @Accept json
// @Produce json
// @Param id path string true "Estimate ID"
// @Param request body domain.UpdateStatusRequest true "New status"
// @Success 200 {object} domain.EstimateSummary
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates/{id}/status [put]
func (h *EstimateHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid estimate id")
		return
	}

	var req domain.UpdateStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	summary, err := h.estimateService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEstimateNotFound):
			respondWithError(w, http.StatusNotFound, "Estimate not found")
		case errors.Is(err, service.ErrInvalidStatus):
			respondWithError(w, http.StatusBadRequest, "Invalid status")
		default:
			h.logger.Error("failed to update status", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to update status")
		}
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Delete godoc
// @Summary Delete an estimate
// @Description Remove a history entry and its stored artifact; allowed from any status
// @Tags Estimates
// @Param id path string true "Estimate ID"
// @Success 204 "No Content"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /estimates/{id} [delete]
func (h *EstimateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid estimate id")
		return
	}

	if err := h.estimateService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrEstimateNotFound) {
			respondWithError(w, http.StatusNotFound, "Estimate not found")
			return
		}
		h.logger.Error("failed to delete estimate", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete estimate")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
