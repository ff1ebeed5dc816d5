package repository

import (
	"fmt"

	"gorm.io/gorm"

	"pdfinsight/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) Create(chunk *model.DocumentChunk) error {
	if err := r.db.Create(chunk).Error; err != nil {
		return fmt.Errorf("create document chunk failed: %w", err)
	}
	return nil
}

// DeleteByDocumentID removes the whole chunk set; a full-analysis run always
// replaces chunks, never appends.
func (r *ChunkRepository) DeleteByDocumentID(documentID uint) error {
	err := r.db.Where("document_id = ?", documentID).
		Delete(&model.DocumentChunk{}).Error
	if err != nil {
		return fmt.Errorf("delete document chunks failed: %w", err)
	}
	return nil
}

// ListByDocumentID returns all chunks in canonical chunk-index order.
func (r *ChunkRepository) ListByDocumentID(documentID uint) ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk
	err := r.db.Where("document_id = ?", documentID).
		Order("chunk_index ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("list document chunks failed: %w", err)
	}
	return chunks, nil
}

func (r *ChunkRepository) ListByDocumentIDPaged(documentID uint, offset, limit int) ([]model.DocumentChunk, int64, error) {
	var total int64
	err := r.db.Model(&model.DocumentChunk{}).
		Where("document_id = ?", documentID).
		Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("count document chunks failed: %w", err)
	}

	var chunks []model.DocumentChunk
	err = r.db.Where("document_id = ?", documentID).
		Order("chunk_index ASC").
		Offset(offset).Limit(limit).
		Find(&chunks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list document chunks failed: %w", err)
	}
	return chunks, total, nil
}

func (r *ChunkRepository) CountByDocumentID(documentID uint) (int64, error) {
	var total int64
	err := r.db.Model(&model.DocumentChunk{}).
		Where("document_id = ?", documentID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count document chunks failed: %w", err)
	}
	return total, nil
}
