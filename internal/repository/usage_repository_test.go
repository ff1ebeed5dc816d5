package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pdfinsight/internal/model"
)

func TestConsumeIncrementsUpToLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	for i := 1; i <= 3; i++ {
		count, err := repo.Consume(1, model.UsageKindQA, 3)
		require.NoError(t, err)
		require.Equal(t, i, count)
	}

	_, err := repo.Consume(1, model.UsageKindQA, 3)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// A rejected attempt must not move the counter.
	usage, err := repo.Today(1)
	require.NoError(t, err)
	require.NotNil(t, usage)
	require.Equal(t, 3, usage.QACount)
}

func TestConsumeKindsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	_, err := repo.Consume(1, model.UsageKindQA, 1)
	require.NoError(t, err)
	_, err = repo.Consume(1, model.UsageKindQA, 1)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	count, err := repo.Consume(1, model.UsageKindFullAnalysis, 1)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	usage, err := repo.Today(1)
	require.NoError(t, err)
	require.Equal(t, 1, usage.QACount)
	require.Equal(t, 1, usage.FullAnalysisCount)
}

func TestConsumeIsolatedPerUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	_, err := repo.Consume(1, model.UsageKindQA, 1)
	require.NoError(t, err)
	_, err = repo.Consume(1, model.UsageKindQA, 1)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	count, err := repo.Consume(2, model.UsageKindQA, 1)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestConsumeUnknownKind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	_, err := repo.Consume(1, "EXPORT", 10)
	require.Error(t, err)
}

func TestTodayWithoutUsage(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	usage, err := repo.Today(42)
	require.NoError(t, err)
	require.Nil(t, usage)
}
