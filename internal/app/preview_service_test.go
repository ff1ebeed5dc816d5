package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"pdfinsight/internal/model"
	"pdfinsight/internal/repository"
)

func TestPreviewReturnsStoredText(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.UpdateFields(doc.ID, map[string]any{
		"preview_text": "stored preview",
		"page_count":   3,
		"status":       model.DocumentStatusPreviewReady,
	}))

	fetcher := &fakeFetcher{err: errors.New("must not be called")}
	svc := NewPreviewService(docRepo, repository.NewJobRepository(db), fetcher, 2)

	result, err := svc.Generate(context.Background(), 1, doc.ID, false)
	require.NoError(t, err)
	require.True(t, result.Cached)
	require.Equal(t, "stored preview", result.Text)
	require.Equal(t, 3, result.PageCount)
	require.Equal(t, model.DocumentStatusPreviewReady, result.Status)
}

func TestPreviewDocumentNotFound(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	svc := NewPreviewService(
		repository.NewDocumentRepository(db),
		repository.NewJobRepository(db),
		&fakeFetcher{}, 2,
	)

	_, err := svc.Generate(context.Background(), 2, doc.ID, false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPreviewFetchFailure(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	docRepo := repository.NewDocumentRepository(db)
	jobRepo := repository.NewJobRepository(db)
	svc := NewPreviewService(docRepo, jobRepo,
		&fakeFetcher{err: errors.New("object missing")}, 2)

	_, err := svc.Generate(context.Background(), 1, doc.ID, false)
	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)

	updated, err := docRepo.GetByIDAndOwner(doc.ID, 1)
	require.NoError(t, err)
	require.Equal(t, model.DocumentStatusFailed, updated.Status)

	job, err := jobRepo.LatestByKind(doc.ID, model.JobKindPreview)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, model.JobStatusFailed, job.Status)
}

func TestPreviewUnparsablePDF(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	docRepo := repository.NewDocumentRepository(db)
	svc := NewPreviewService(docRepo, repository.NewJobRepository(db),
		&fakeFetcher{data: []byte("plain text, not a pdf")}, 2)

	_, err := svc.Generate(context.Background(), 1, doc.ID, false)
	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)

	updated, err := docRepo.GetByIDAndOwner(doc.ID, 1)
	require.NoError(t, err)
	require.Equal(t, model.DocumentStatusFailed, updated.Status)
}

func TestPreviewConflictWithRunningPreview(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	jobRepo := repository.NewJobRepository(db)
	require.NoError(t, jobRepo.Create(&model.AnalysisJob{
		DocumentID: doc.ID,
		JobKind:    model.JobKindPreview,
		Status:     model.JobStatusProcessing,
	}))

	svc := NewPreviewService(repository.NewDocumentRepository(db), jobRepo,
		&fakeFetcher{}, 2)

	_, err := svc.Generate(context.Background(), 1, doc.ID, false)
	require.ErrorIs(t, err, ErrConflict)
}

func TestPreviewFailedDocumentIsNotServedFromStore(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.UpdateFields(doc.ID, map[string]any{
		"preview_text": "stale preview",
		"status":       model.DocumentStatusFailed,
	}))

	// The stored text belongs to a FAILED document, so a plain call must
	// re-extract rather than serve it.
	svc := NewPreviewService(docRepo, repository.NewJobRepository(db),
		&fakeFetcher{err: errors.New("object missing")}, 2)

	_, err := svc.Generate(context.Background(), 1, doc.ID, false)
	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
}

func TestPreviewRefreshForcesReExtraction(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	docRepo := repository.NewDocumentRepository(db)
	require.NoError(t, docRepo.UpdateFields(doc.ID, map[string]any{
		"preview_text": "stored preview",
		"status":       model.DocumentStatusPreviewReady,
	}))

	fetcher := &fakeFetcher{err: errors.New("object missing")}
	svc := NewPreviewService(docRepo, repository.NewJobRepository(db), fetcher, 2)

	// Without refresh the stored preview is served and the fetcher stays idle.
	result, err := svc.Generate(context.Background(), 1, doc.ID, false)
	require.NoError(t, err)
	require.True(t, result.Cached)

	// With refresh the stored preview is ignored and extraction runs again.
	_, err = svc.Generate(context.Background(), 1, doc.ID, true)
	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
}
