package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/billfold/estimate-api/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named in-memory database so the connection pool shares one instance
	// per test while tests stay isolated from each other.
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
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func TestHistoryLoadEmpty(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))

	summaries, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.NotNil(t, summaries)
}

func TestHistorySaveAndLoad(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()

	entries := []domain.EstimateSummary{
		{
			ID:          uuid.New(),
			Number:      "EST-2026-001",
			Date:        "2026-08-01",
			ClientName:  "Globex Corp",
			TotalAmount: "250.00",
			ArtifactRef: "ab/cd/abcd.pdf",
			Filename:    "estimate-EST-2026-001.pdf",
			Status:      domain.EstimateStatusPending,
		},
		{
			ID:          uuid.New(),
			Number:      "EST-2026-002",
			Date:        "2026-08-02",
			ClientName:  "Initech",
			TotalAmount: "-390.00",
			Status:      domain.EstimateStatusAccepted,
		},
	}

	require.NoError(t, repo.Save(ctx, entries))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestHistorySaveOverwritesWholesale(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	ctx := context.Background()

	first := []domain.EstimateSummary{
		{ID: uuid.New(), Number: "A", Status: domain.EstimateStatusPending},
		{ID: uuid.New(), Number: "B", Status: domain.EstimateStatusPending},
	}
	require.NoError(t, repo.Save(ctx, first))

	// A later save fully replaces the stored list, including deletions
	second := []domain.EstimateSummary{first[1]}
	second[0].Status = domain.EstimateStatusDeclined
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Number)
	assert.Equal(t, domain.EstimateStatusDeclined, got[0].Status)
}

func TestHistoryCorruptData(t *testing.T) {
	db := newTestDB(t)
	repo := NewHistoryRepository(db)

	require.NoError(t, db.Create(&domain.KVEntry{
		Key:       "estimate_history",
		Value:     "{not json",
		UpdatedAt: time.Now(),
	}).Error)

	_, err := repo.Load(context.Background())
	assert.ErrorContains(t, err, "corrupt history data")
}

func TestNumberSequenceIncrements(t *testing.T) {
	repo := NewNumberSequenceRepository(newTestDB(t))
	ctx := context.Background()

	n1, err := repo.GetNextNumber(ctx, "EST", 2026)
	require.NoError(t, err)
	n2, err := repo.GetNextNumber(ctx, "EST", 2026)
	require.NoError(t, err)
	n3, err := repo.GetNextNumber(ctx, "EST", 2027)
	require.NoError(t, err)

	assert.Equal(t, 1, n1)
	assert.Equal(t, 2, n2)
	assert.Equal(t, 1, n3) // independent per year

	current, err := repo.GetCurrentSequence(ctx, "EST", 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}
