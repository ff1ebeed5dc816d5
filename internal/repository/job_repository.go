package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdfinsight/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.AnalysisJob) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("create analysis job failed: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(id uint) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	if err := r.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get analysis job failed: %w", err)
	}
	return &job, nil
}

// ExistsActive reports whether a PENDING or PROCESSING job of the given kind
// holds the document's slot. This is the check half of the check-then-create
// conflict guard; two racing creators can both pass it (accepted race).
func (r *JobRepository) ExistsActive(documentID uint, kind string) (bool, error) {
	var count int64
	err := r.db.Model(&model.AnalysisJob{}).
		Where("document_id = ? AND job_kind = ? AND status IN ?",
			documentID, kind,
			[]string{model.JobStatusPending, model.JobStatusProcessing}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("count active jobs failed: %w", err)
	}
	return count > 0, nil
}

// LatestByKind returns the most recent job of the kind, nil when none exists.
func (r *JobRepository) LatestByKind(documentID uint, kind string) (*model.AnalysisJob, error) {
	var job model.AnalysisJob
	err := r.db.
		Where("document_id = ? AND job_kind = ?", documentID, kind).
		Order("id DESC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest job failed: %w", err)
	}
	return &job, nil
}

func (r *JobRepository) UpdateFields(id uint, fields map[string]any) error {
	if err := r.db.Model(&model.AnalysisJob{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update analysis job failed: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's jobs newest first, feeding the event log.
func (r *JobRepository) ListByOwner(ownerID uint, offset, limit int) ([]model.AnalysisJob, int64, error) {
	var total int64
	err := r.db.Model(&model.AnalysisJob{}).
		Joins("JOIN documents ON documents.id = analysis_jobs.document_id").
		Where("documents.owner_id = ?", ownerID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count jobs failed: %w", err)
	}

	var jobs []model.AnalysisJob
	err = r.db.Model(&model.AnalysisJob{}).
		Joins("JOIN documents ON documents.id = analysis_jobs.document_id").
		Where("documents.owner_id = ?", ownerID).
		Order("analysis_jobs.created_at DESC, analysis_jobs.id DESC").
		Offset(offset).Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs failed: %w", err)
	}
	return jobs, total, nil
}
