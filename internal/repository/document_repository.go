package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pdfinsight/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	if err := r.db.Create(doc).Error; err != nil {
		return fmt.Errorf("create document failed: %w", err)
	}
	return nil
}

// GetByIDAndOwner returns the document only when it belongs to the owner and
// has not been soft-deleted; nil otherwise.
func (r *DocumentRepository) GetByIDAndOwner(id, ownerID uint) (*model.Document, error) {
	var doc model.Document
	err := r.db.
		Where("id = ? AND owner_id = ? AND is_deleted = ?", id, ownerID, false).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) GetByID(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.Where("id = ? AND is_deleted = ?", id, false).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByOwner(ownerID uint, offset, limit int) ([]model.Document, int64, error) {
	var total int64
	err := r.db.Model(&model.Document{}).
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count documents failed: %w", err)
	}

	var docs []model.Document
	err = r.db.
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("id DESC").Offset(offset).Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, total, nil
}

func (r *DocumentRepository) SoftDelete(id, ownerID uint) error {
	err := r.db.Model(&model.Document{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("is_deleted", true).Error
	if err != nil {
		return fmt.Errorf("soft delete document failed: %w", err)
	}
	return nil
}

// UpdateFields writes the given columns only; callers keep status moving
// forward through the document lifecycle.
func (r *DocumentRepository) UpdateFields(id uint, fields map[string]any) error {
	if err := r.db.Model(&model.Document{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update document failed: %w", err)
	}
	return nil
}

// Overview aggregates document counts for the dashboard.
type Overview struct {
	TotalDocuments int64 `json:"total_documents"`
	Processing     int64 `json:"processing"`
	Ready          int64 `json:"ready"`
	Errors         int64 `json:"errors"`
}

func (r *DocumentRepository) OverviewByOwner(ownerID uint) (*Overview, error) {
	base := func() *gorm.DB {
		return r.db.Model(&model.Document{}).
			Where("owner_id = ? AND is_deleted = ?", ownerID, false)
	}

	var ov Overview
	if err := base().Count(&ov.TotalDocuments).Error; err != nil {
		return nil, fmt.Errorf("overview count failed: %w", err)
	}
	if err := base().Where("status = ?", model.DocumentStatusProcessing).
		Count(&ov.Processing).Error; err != nil {
		return nil, fmt.Errorf("overview processing count failed: %w", err)
	}
	if err := base().Where("status IN ?", []string{model.DocumentStatusReady, model.DocumentStatusPreviewReady}).
		Count(&ov.Ready).Error; err != nil {
		return nil, fmt.Errorf("overview ready count failed: %w", err)
	}
	if err := base().Where("status = ?", model.DocumentStatusFailed).
		Count(&ov.Errors).Error; err != nil {
		return nil, fmt.Errorf("overview errors count failed: %w", err)
	}
	return &ov, nil
}

func (r *DocumentRepository) RecentByOwner(ownerID uint, limit int) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list recent documents failed: %w", err)
	}
	return docs, nil
}
