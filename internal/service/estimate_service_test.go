package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/billfold/estimate-api/internal/auth"
	"github.com/billfold/estimate-api/internal/domain"
	"github.com/billfold/estimate-api/internal/pdf"
	"github.com/billfold/estimate-api/internal/repository"
	"github.com/billfold/estimate-api/internal/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.DesignSettings{},
		&domain.KVEntry{},
		&domain.NumberSequence{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newEstimateService(t *testing.T) *EstimateService {
	t.Helper()

	db := newTestDB(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	log := zap.NewNop()
	designs := NewDesignService(repository.NewDesignSettingsRepository(db), log)
	renderer := pdf.NewRenderer("http://localhost:8080", log)

	return NewEstimateService(
		repository.NewHistoryRepository(db),
		repository.NewNumberSequenceRepository(db),
		designs,
		renderer,
		store,
		log,
	)
}

func testUserCtx() *auth.UserContext {
	return &auth.UserContext{
		UserID:      uuid.New(),
		Email:       "user@example.com",
		DisplayName: "Test User",
	}
}

func testEstimateRequest() *domain.EstimateRequest {
	return &domain.EstimateRequest{
		Title:     "Website Redesign",
		Number:    "EST-2026-001",
		IssueDate: "2026-08-01",
		Business:  domain.PartyRequest{Name: "Acme Studio", Email: "hello@acme.example"},
		Client:    domain.PartyRequest{Name: "Globex Corp"},
		Items: []domain.LineItemRequest{
			{Description: "Design", Rate: 100, Quantity: 2, Taxable: true},
			{Description: "Hosting", Rate: 50, Quantity: 1, Taxable: false},
		},
		TaxRatePercent: 10,
		Discount:       domain.DiscountRequest{Type: domain.DiscountFixed, Value: 20},
		CurrencyLabel:  "USD",
	}
}

func TestPreviewTotals(t *testing.T) {
	s := newEstimateService(t)

	got := s.Preview(testEstimateRequest())
	assert.InDelta(t, 250, got.Subtotal, 1e-9)
	assert.InDelta(t, 20, got.TaxAmount, 1e-9)
	assert.InDelta(t, 20, got.DiscountAmount, 1e-9)
	assert.InDelta(t, 250, got.GrandTotal, 1e-9)
	assert.Equal(t, "250.00", got.FormattedTotal)
}

func TestGenerateAppendsHistory(t *testing.T) {
	s := newEstimateService(t)
	ctx := context.Background()

	resp, err := s.Generate(ctx, testUserCtx(), testEstimateRequest())
	require.NoError(t, err)

	assert.Equal(t, "estimate-EST-2026-001.pdf", resp.Filename)
	assert.Equal(t, domain.EstimateStatusPending, resp.Summary.Status)
	assert.Equal(t, "250.00", resp.Summary.TotalAmount)
	assert.Equal(t, "Globex Corp", resp.Summary.ClientName)
	assert.Contains(t, resp.DownloadURL, resp.Summary.ID.String())

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, resp.Summary.ID, entries[0].ID)

	// The stored artifact is a PDF and re-downloadable
	rc, filename, err := s.Download(ctx, resp.Summary.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "estimate-EST-2026-001.pdf", filename)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestGenerateAssignsSequentialNumber(t *testing.T) {
	s := newEstimateService(t)
	ctx := context.Background()

	req := testEstimateRequest()
	req.Number = ""

	first, err := s.Generate(ctx, testUserCtx(), req)
	require.NoError(t, err)
	second, err := s.Generate(ctx, testUserCtx(), req)
	require.NoError(t, err)

	assert.Regexp(t, `^EST-\d{4}-001$`, first.Summary.Number)
	assert.Regexp(t, `^EST-\d{4}-002$`, second.Summary.Number)
}

func TestListNewestFirst(t *testing.T) {
	s := newEstimateService(t)
	ctx := context.Background()
	user := testUserCtx()

	req := testEstimateRequest()
	req.Number = "A"
	_, err := s.Generate(ctx, user, req)
	require.NoError(t, err)

	req.Number = "B"
	_, err = s.Generate(ctx, user, req)
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].Number)
	assert.Equal(t, "A", entries[1].Number)
}

func TestUpdateStatusFreeTransitions(t *testing.T) {
	s := newEstimateService(t)
	ctx := context.Background()

	resp, err := s.Generate(ctx, testUserCtx(), testEstimateRequest())
	require.NoError(t, err)
	id := resp.Summary.ID

	// Any status can follow any other
	for _, status := range []domain.EstimateStatus{
		domain.EstimateStatusAccepted,
		domain.EstimateStatusDeclined,
		domain.EstimateStatusPending,
		domain.EstimateStatusDeclined,
	} {
		got, err := s.UpdateStatus(ctx, id, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	_, err = s.UpdateStatus(ctx, id, domain.EstimateStatus("Archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.UpdateStatus(ctx, uuid.New(), domain.EstimateStatusAccepted)
	assert.ErrorIs(t, err, ErrEstimateNotFound)
}

func TestDeleteRemovesEntryAndArtifact(t *testing.T) {
	s := newEstimateService(t)
	ctx := context.Background()

	resp, err := s.Generate(ctx, testUserCtx(), testEstimateRequest())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, resp.Summary.ID))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, _, err = s.Download(ctx, resp.Summary.ID)
	assert.ErrorIs(t, err, ErrEstimateNotFound)

	assert.ErrorIs(t, s.Delete(ctx, resp.Summary.ID), ErrEstimateNotFound)
}

func TestStatsCountsByStatus(t *testing.T) {
	s := newEstimateService(t)
	ctx := context.Background()
	user := testUserCtx()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		req := testEstimateRequest()
		req.Number = fmt.Sprintf("N-%d", i)
		resp, err := s.Generate(ctx, user, req)
		require.NoError(t, err)
		ids = append(ids, resp.Summary.ID)
	}

	_, err := s.UpdateStatus(ctx, ids[0], domain.EstimateStatusAccepted)
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, ids[1], domain.EstimateStatusDeclined)
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Declined)
}

func TestSummarizeNegativeTotal(t *testing.T) {
	req := testEstimateRequest()
	req.Items = []domain.LineItemRequest{{Description: "Small", Rate: 100, Quantity: 1, Taxable: false}}
	req.Discount = domain.DiscountRequest{Type: domain.DiscountFixed, Value: 500}
	record := req.ToRecord()

	summary := Summarize(record, uuid.New(), "ref")
	assert.Equal(t, "-400.00", summary.TotalAmount) // not clamped at zero
	assert.Equal(t, domain.EstimateStatusPending, summary.Status)
}
