package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/config"
	"github.com/billfold/estimate-api/internal/domain"
)

// ExchangeRateService fetches the currency code list once at startup.
// The codes are display labels only: no amount is ever converted between
// currencies. A failed fetch degrades silently to the default code with
// no retry.
type ExchangeRateService struct {
	url             string
	defaultCurrency string
	client          *http.Client
	logger          *zap.Logger

	mu       sync.RWMutex
	base     string
	codes    []string
	degraded bool
}

// ratesPayload is the shape of the upstream response
type ratesPayload struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// NewExchangeRateService creates the service in degraded state; call
// Fetch to populate the code list.
func NewExchangeRateService(cfg *config.ExchangeRatesConfig, logger *zap.Logger) *ExchangeRateService {
	return &ExchangeRateService{
		url:             cfg.URL,
		defaultCurrency: cfg.DefaultCurrency,
		client:          &http.Client{Timeout: cfg.FetchTimeoutDuration()},
		logger:          logger,
		base:            cfg.DefaultCurrency,
		codes:           []string{cfg.DefaultCurrency},
		degraded:        true,
	}
}

// Fetch loads the currency list from the upstream source. On any failure
// the service stays on the single default code; the error is logged, not
// returned, because startup must not block on this.
func (s *ExchangeRateService) Fetch(ctx context.Context) {
	if err := s.fetch(ctx); err != nil {
		s.logger.Warn("exchange rate fetch failed, using default currency only",
			zap.String("default", s.defaultCurrency),
			zap.Error(err),
		)
	}
}

func (s *ExchangeRateService) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return fmt.Errorf("empty rate mapping")
	}

	codes := make([]string, 0, len(payload.Rates))
	for code := range payload.Rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	base := payload.Base
	if base == "" {
		base = s.defaultCurrency
	}

	s.mu.Lock()
	s.base = base
	s.codes = codes
	s.degraded = false
	s.mu.Unlock()

	s.logger.Info("exchange rates loaded",
		zap.String("base", base),
		zap.Int("currencies", len(codes)),
	)
	return nil
}

// Currencies returns the selectable currency codes
func (s *ExchangeRateService) Currencies() domain.CurrenciesResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, len(s.codes))
	copy(codes, s.codes)

	return domain.CurrenciesResponse{
		Base:     s.base,
		Codes:    codes,
		Degraded: s.degraded,
	}
}
