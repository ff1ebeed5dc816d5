package app

import (
	"strings"

	"pdfinsight/internal/model"
	"pdfinsight/internal/repository"
)

const maxDocumentBytes = 20 << 20

type DocumentService struct {
	docRepo   *repository.DocumentRepository
	chunkRepo *repository.ChunkRepository
	jobRepo   *repository.JobRepository
}

func NewDocumentService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.ChunkRepository,
	jobRepo *repository.JobRepository,
) *DocumentService {
	return &DocumentService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		jobRepo:   jobRepo,
	}
}

type CreateDocumentInput struct {
	OwnerID      uint
	Title        string
	OriginalName string
	FilePath     string
	FileSize     int64
	MimeType     string
	Checksum     string
}

// Create registers an already-uploaded PDF. The bytes live in object
// storage; only metadata is recorded here.
func (s *DocumentService) Create(input CreateDocumentInput) (*model.Document, error) {
	name := strings.TrimSpace(input.OriginalName)
	path := strings.TrimSpace(input.FilePath)

	if input.OwnerID == 0 || name == "" || path == "" {
		return nil, ErrInvalidInput
	}
	if input.MimeType != "application/pdf" {
		return nil, ErrInvalidInput
	}
	if input.FileSize <= 0 || input.FileSize > maxDocumentBytes {
		return nil, ErrInvalidInput
	}
	if strings.Contains(path, "..") {
		return nil, ErrInvalidInput
	}

	doc := &model.Document{
		OwnerID:      input.OwnerID,
		Title:        strings.TrimSpace(input.Title),
		OriginalName: name,
		FilePath:     path,
		FileSize:     input.FileSize,
		MimeType:     input.MimeType,
		Checksum:     strings.TrimSpace(input.Checksum),
		Status:       model.DocumentStatusUploaded,
	}
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ownerID uint, page, pageSize int) ([]model.Document, int64, error) {
	if ownerID == 0 {
		return nil, 0, ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.docRepo.ListByOwner(ownerID, (page-1)*pageSize, pageSize)
}

// DocumentDetail is a document plus derived analysis state.
type DocumentDetail struct {
	Document   *model.Document    `json:"document"`
	ChunkCount int64              `json:"chunk_count"`
	LatestJob  *model.AnalysisJob `json:"latest_job"`
}

func (s *DocumentService) Detail(ownerID, documentID uint) (*DocumentDetail, error) {
	doc, err := s.docRepo.GetByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	count, err := s.chunkRepo.CountByDocumentID(doc.ID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.LatestByKind(doc.ID, model.JobKindFull)
	if err != nil {
		return nil, err
	}

	return &DocumentDetail{
		Document:   doc,
		ChunkCount: count,
		LatestJob:  job,
	}, nil
}

func (s *DocumentService) Delete(ownerID, documentID uint) error {
	doc, err := s.docRepo.GetByIDAndOwner(documentID, ownerID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrNotFound
	}
	return s.docRepo.SoftDelete(documentID, ownerID)
}

func (s *DocumentService) Chunks(ownerID, documentID uint, page, pageSize int) ([]model.DocumentChunk, int64, error) {
	doc, err := s.docRepo.GetByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, 0, err
	}
	if doc == nil {
		return nil, 0, ErrNotFound
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.chunkRepo.ListByDocumentIDPaged(documentID, (page-1)*pageSize, pageSize)
}

func (s *DocumentService) Overview(ownerID uint) (*repository.Overview, error) {
	if ownerID == 0 {
		return nil, ErrInvalidInput
	}
	return s.docRepo.OverviewByOwner(ownerID)
}

func (s *DocumentService) Recent(ownerID uint, limit int) ([]model.Document, error) {
	if ownerID == 0 {
		return nil, ErrInvalidInput
	}
	if limit < 1 || limit > 50 {
		limit = 5
	}
	return s.docRepo.RecentByOwner(ownerID, limit)
}

func (s *DocumentService) Events(ownerID uint, page, pageSize int) ([]model.AnalysisJob, int64, error) {
	if ownerID == 0 {
		return nil, 0, ErrInvalidInput
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.jobRepo.ListByOwner(ownerID, (page-1)*pageSize, pageSize)
}
