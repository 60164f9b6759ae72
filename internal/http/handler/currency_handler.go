package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/service"
)

// CurrencyHandler serves the selectable currency code list
type CurrencyHandler struct {
	exchangeService *service.ExchangeRateService
	logger          *zap.Logger
}

// NewCurrencyHandler creates a new CurrencyHandler instance
func NewCurrencyHandler(exchangeService *service.ExchangeRateService, logger *zap.Logger) *CurrencyHandler {
	return &CurrencyHandler{
		exchangeService: exchangeService,
		logger:          logger,
	}
}

// List godoc
// @Summary List currencies
// @Description Get the currency codes available as display labels. Degraded is true when the upstream fetch failed and only the default code is offered.
// @Tags Currencies
// @Produce json
// @Success 200 {object} domain.CurrenciesResponse
// @Router /currencies [get]
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.exchangeService.Currencies())
}
