package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/billfold/estimate-api/internal/auth"
	"github.com/billfold/estimate-api/internal/domain"
	"github.com/billfold/estimate-api/internal/pdf"
	"github.com/billfold/estimate-api/internal/repository"
	"github.com/billfold/estimate-api/internal/storage"
)

// numberPrefix is used for server-assigned estimate numbers
const numberPrefix = "EST"

// EstimateService owns the generation pipeline: an estimate payload is
// rendered, the artifact stored, and a summary appended to history.
// Nothing is committed when any step fails.
type EstimateService struct {
	history   *repository.HistoryRepository
	sequences *repository.NumberSequenceRepository
	designs   *DesignService
	renderer  *pdf.Renderer
	store     storage.Storage
	logger    *zap.Logger
}

// NewEstimateService creates a new EstimateService instance
func NewEstimateService(
	history *repository.HistoryRepository,
	sequences *repository.NumberSequenceRepository,
	designs *DesignService,
	renderer *pdf.Renderer,
	store storage.Storage,
	logger *zap.Logger,
) *EstimateService {
	return &EstimateService{
		history:   history,
		sequences: sequences,
		designs:   designs,
		renderer:  renderer,
		store:     store,
		logger:    logger,
	}
}

// Preview computes the live figures for an estimate payload without side
// effects. The same functions feed the renderer, so preview and document
// always agree.
func (s *EstimateService) Preview(req *domain.EstimateRequest) domain.TotalsResponse {
	record := req.ToRecord()
	return totalsFor(record)
}

func totalsFor(record domain.EstimateRecord) domain.TotalsResponse {
	subtotal := domain.Subtotal(record.Items)
	total := domain.GrandTotal(record.Items, record.TaxRatePercent, record.Discount)

	currency := record.CurrencyLabel
	if currency == "" {
		currency = "USD"
	}

	return domain.TotalsResponse{
		Subtotal:       subtotal,
		TaxAmount:      domain.TaxAmount(record.Items, record.TaxRatePercent),
		DiscountAmount: domain.DiscountAmount(subtotal, record.Discount),
		GrandTotal:     total,
		FormattedTotal: domain.FormatAmount(total),
		CurrencyLabel:  currency,
	}
}

// Summarize derives the history entry for a generated estimate. The
// total is computed from the record, never read from a cached figure,
// and new entries always start Pending.
func Summarize(record domain.EstimateRecord, id uuid.UUID, artifactRef string) domain.EstimateSummary {
	date := record.IssueDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	total := domain.GrandTotal(record.Items, record.TaxRatePercent, record.Discount)

	return domain.EstimateSummary{
		ID:          id,
		Number:      record.Number,
		Date:        date,
		ClientName:  record.Client.Name,
		TotalAmount: domain.FormatAmount(total),
		ArtifactRef: artifactRef,
		Filename:    pdf.Filename(record.Number),
		Status:      domain.EstimateStatusPending,
	}
}

// Generate runs the full pipeline: assign a number if needed, render the
// PDF with the caller's design settings, store the artifact, and append
// the summary to history.
func (s *EstimateService) Generate(ctx context.Context, user *auth.UserContext, req *domain.EstimateRequest) (*domain.GenerateEstimateResponse, error) {
	record := req.ToRecord()

	if record.Number == "" {
		year := time.Now().Year()
		seq, err := s.sequences.GetNextNumber(ctx, numberPrefix, year)
		if err != nil {
			return nil, fmt.Errorf("failed to assign estimate number: %w", err)
		}
		record.Number = fmt.Sprintf("%s-%d-%03d", numberPrefix, year, seq)
	}

	settings, err := s.designs.Get(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	id := uuid.New()

	document, err := s.renderer.Render(record, settings, id)
	if err != nil {
		return nil, fmt.Errorf("document generation failed: %w", err)
	}

	filename := pdf.Filename(record.Number)
	ref, size, err := s.store.Upload(ctx, filename, "application/pdf", bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	summary := Summarize(record, id, ref)

	entries, err := s.history.Load(ctx)
	if err == nil {
		entries = append(entries, summary)
		err = s.history.Save(ctx, entries)
	}
	if err != nil {
		// Roll back the stored artifact so a failed generation leaves
		// no partial state behind.
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			s.logger.Warn("failed to clean up artifact after history error",
				zap.String("ref", ref),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to record estimate: %w", err)
	}

	s.logger.Info("estimate generated",
		zap.String("id", id.String()),
		zap.String("number", record.Number),
		zap.String("user", user.DisplayName),
		zap.Int64("size", size),
	)

	return &domain.GenerateEstimateResponse{
		Summary:     summary,
		Filename:    filename,
		DownloadURL: fmt.Sprintf("/api/v1/estimates/%s/download", id),
	}, nil
}

// List returns the history, newest first
func (s *EstimateService) List(ctx context.Context) ([]domain.EstimateSummary, error) {
	entries, err := s.history.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Stored order is append order; present newest first
	out := make([]domain.EstimateSummary, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out, nil
}

// Get returns a single history entry by id
func (s *EstimateService) Get(ctx context.Context, id uuid.UUID) (*domain.EstimateSummary, error) {
	entries, err := s.history.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID == id {
			return &entries[i], nil
		}
	}
	return nil, ErrEstimateNotFound
}

// UpdateStatus sets an entry's status. Every status is reachable from
// every other; there are no forbidden transitions and no automatic ones.
func (s *EstimateService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.EstimateStatus) (*domain.EstimateSummary, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	entries, err := s.history.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if entries[i].ID == id {
			entries[i].Status = status
			if err := s.history.Save(ctx, entries); err != nil {
				return nil, err
			}
			return &entries[i], nil
		}
	}
	return nil, ErrEstimateNotFound
}

// Delete removes an entry unconditionally from any status and discards
// its stored artifact.
func (s *EstimateService) Delete(ctx context.Context, id uuid.UUID) error {
	entries, err := s.history.Load(ctx)
	if err != nil {
		return err
	}

	for i := range entries {
		if entries[i].ID == id {
			ref := entries[i].ArtifactRef
			entries = append(entries[:i], entries[i+1:]...)
			if err := s.history.Save(ctx, entries); err != nil {
				return err
			}

			if ref != "" {
				if err := s.store.Delete(ctx, ref); err != nil {
					s.logger.Warn("failed to delete artifact",
						zap.String("ref", ref),
						zap.Error(err),
					)
				}
			}
			return nil
		}
	}
	return ErrEstimateNotFound
}

// Download streams a stored artifact for re-download
func (s *EstimateService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	rc, err := s.store.Download(ctx, summary.ArtifactRef)
	if err != nil {
		return nil, "", err
	}

	filename := summary.Filename
	if filename == "" {
		filename = pdf.Filename(summary.Number)
	}
	return rc, filename, nil
}

// Stats counts history entries by status
func (s *EstimateService) Stats(ctx context.Context) (*domain.EstimateStatsResponse, error) {
	entries, err := s.history.Load(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.EstimateStatsResponse{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case domain.EstimateStatusPending:
			stats.Pending++
		case domain.EstimateStatusAccepted:
			stats.Accepted++
		case domain.EstimateStatusDeclined:
			stats.Declined++
		}
	}
	return stats, nil
}
