package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pdfinsight/internal/model"
)

func TestGetByIDAndOwner(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewDocumentRepository(db)

	found, err := repo.GetByIDAndOwner(doc.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, found)

	// Wrong owner looks identical to a missing document.
	found, err = repo.GetByIDAndOwner(doc.ID, 2)
	require.NoError(t, err)
	require.Nil(t, found)

	found, err = repo.GetByIDAndOwner(9999, 1)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestSoftDeleteHidesDocument(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewDocumentRepository(db)

	require.NoError(t, repo.SoftDelete(doc.ID, 1))

	found, err := repo.GetByIDAndOwner(doc.ID, 1)
	require.NoError(t, err)
	require.Nil(t, found)

	docs, total, err := repo.ListByOwner(1, 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
	require.Empty(t, docs)

	// The row itself survives for audit.
	var raw model.Document
	require.NoError(t, db.First(&raw, doc.ID).Error)
	require.True(t, raw.IsDeleted)
}

func TestOverviewByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewDocumentRepository(db)

	statuses := []string{
		model.DocumentStatusUploaded,
		model.DocumentStatusPreviewReady,
		model.DocumentStatusProcessing,
		model.DocumentStatusReady,
		model.DocumentStatusFailed,
	}
	for _, status := range statuses {
		doc := createTestDocument(t, db, 1)
		require.NoError(t, repo.UpdateFields(doc.ID, map[string]any{"status": status}))
	}

	ov, err := repo.OverviewByOwner(1)
	require.NoError(t, err)
	require.EqualValues(t, 5, ov.TotalDocuments)
	require.EqualValues(t, 1, ov.Processing)
	require.EqualValues(t, 2, ov.Ready)
	require.EqualValues(t, 1, ov.Errors)
}

func TestUpdateFields(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewDocumentRepository(db)

	require.NoError(t, repo.UpdateFields(doc.ID, map[string]any{
		"status":     model.DocumentStatusReady,
		"page_count": 7,
		"language":   "en",
	}))

	found, err := repo.GetByIDAndOwner(doc.ID, 1)
	require.NoError(t, err)
	require.Equal(t, model.DocumentStatusReady, found.Status)
	require.NotNil(t, found.PageCount)
	require.Equal(t, 7, *found.PageCount)
	require.Equal(t, "en", found.Language)
}
