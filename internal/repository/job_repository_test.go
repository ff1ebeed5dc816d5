package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pdfinsight/internal/model"
)

func TestExistsActive(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewJobRepository(db)

	active, err := repo.ExistsActive(doc.ID, model.JobKindFull)
	require.NoError(t, err)
	require.False(t, active)

	job := &model.AnalysisJob{
		DocumentID: doc.ID,
		JobKind:    model.JobKindFull,
		Status:     model.JobStatusPending,
	}
	require.NoError(t, repo.Create(job))

	active, err = repo.ExistsActive(doc.ID, model.JobKindFull)
	require.NoError(t, err)
	require.True(t, active)

	// A finished job frees the slot.
	now := time.Now()
	require.NoError(t, repo.UpdateFields(job.ID, map[string]any{
		"status":      model.JobStatusReady,
		"progress":    100,
		"finished_at": &now,
	}))

	active, err = repo.ExistsActive(doc.ID, model.JobKindFull)
	require.NoError(t, err)
	require.False(t, active)

	// Jobs of another kind never block this one.
	require.NoError(t, repo.Create(&model.AnalysisJob{
		DocumentID: doc.ID,
		JobKind:    model.JobKindPreview,
		Status:     model.JobStatusProcessing,
	}))
	active, err = repo.ExistsActive(doc.ID, model.JobKindFull)
	require.NoError(t, err)
	require.False(t, active)
}

func TestLatestByKind(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewJobRepository(db)

	job, err := repo.LatestByKind(doc.ID, model.JobKindFull)
	require.NoError(t, err)
	require.Nil(t, job)

	first := &model.AnalysisJob{DocumentID: doc.ID, JobKind: model.JobKindFull, Status: model.JobStatusFailed}
	require.NoError(t, repo.Create(first))
	second := &model.AnalysisJob{DocumentID: doc.ID, JobKind: model.JobKindFull, Status: model.JobStatusPending}
	require.NoError(t, repo.Create(second))

	job, err = repo.LatestByKind(doc.ID, model.JobKindFull)
	require.NoError(t, err)
	require.NotNil(t, job)
	require.Equal(t, second.ID, job.ID)
}

func TestListByOwnerOnlyOwnJobs(t *testing.T) {
	db := newTestDB(t)
	mine := createTestDocument(t, db, 1)
	theirs := createTestDocument(t, db, 2)
	repo := NewJobRepository(db)

	require.NoError(t, repo.Create(&model.AnalysisJob{DocumentID: mine.ID, JobKind: model.JobKindFull, Status: model.JobStatusReady}))
	require.NoError(t, repo.Create(&model.AnalysisJob{DocumentID: theirs.ID, JobKind: model.JobKindFull, Status: model.JobStatusReady}))

	jobs, total, err := repo.ListByOwner(1, 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, jobs, 1)
	require.Equal(t, mine.ID, jobs[0].DocumentID)
}
