package app

import (
	"context"
	"errors"
	"time"

	"pdfinsight/internal/model"
	"pdfinsight/internal/pkg/pdfextract"
	"pdfinsight/internal/pkg/sanitize"
	"pdfinsight/internal/repository"
)

type PreviewService struct {
	docRepo *repository.DocumentRepository
	jobRepo *repository.JobRepository
	fetcher BlobFetcher

	previewPages int
}

func NewPreviewService(
	docRepo *repository.DocumentRepository,
	jobRepo *repository.JobRepository,
	fetcher BlobFetcher,
	previewPages int,
) *PreviewService {
	if previewPages <= 0 {
		previewPages = 2
	}
	return &PreviewService{
		docRepo:      docRepo,
		jobRepo:      jobRepo,
		fetcher:      fetcher,
		previewPages: previewPages,
	}
}

// PreviewResult is the synchronous preview response. Status FAILED with a
// Reason is a normal outcome (scanned PDFs with no text layer), not an
// error.
type PreviewResult struct {
	DocumentID uint   `json:"document_id"`
	Status     string `json:"status"`
	PageCount  int    `json:"page_count"`
	Text       string `json:"text"`
	Reason     string `json:"reason,omitempty"`
	Cached     bool   `json:"cached"`
}

// Generate extracts the first pages of the document synchronously. A second
// call returns the stored preview without re-reading the PDF, but only while
// the document is still PREVIEW_READY; refresh forces re-extraction either
// way.
func (s *PreviewService) Generate(ctx context.Context, ownerID, documentID uint, refresh bool) (*PreviewResult, error) {
	doc, err := s.docRepo.GetByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	if !refresh && doc.PreviewText != "" && doc.Status == model.DocumentStatusPreviewReady {
		pageCount := 0
		if doc.PageCount != nil {
			pageCount = *doc.PageCount
		}
		return &PreviewResult{
			DocumentID: doc.ID,
			Status:     doc.Status,
			PageCount:  pageCount,
			Text:       doc.PreviewText,
			Cached:     true,
		}, nil
	}

	active, err := s.jobRepo.ExistsActive(documentID, model.JobKindPreview)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrConflict
	}

	started := time.Now()
	job := &model.AnalysisJob{
		DocumentID: documentID,
		JobKind:    model.JobKindPreview,
		Status:     model.JobStatusProcessing,
		StartedAt:  &started,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	result, runErr := s.extract(ctx, doc)
	finished := time.Now()

	if runErr != nil {
		if err := s.jobRepo.UpdateFields(job.ID, map[string]any{
			"status":      model.JobStatusFailed,
			"error":       runErr.Error(),
			"finished_at": &finished,
		}); err != nil {
			return nil, err
		}
		if err := s.docRepo.UpdateFields(doc.ID, map[string]any{
			"status": model.DocumentStatusFailed,
		}); err != nil {
			return nil, err
		}
		return nil, runErr
	}

	if result.Text == "" {
		// No text layer. The document is unusable for analysis but the
		// request itself succeeded.
		reason := "document contains no extractable text"
		if err := s.jobRepo.UpdateFields(job.ID, map[string]any{
			"status":      model.JobStatusFailed,
			"error":       reason,
			"finished_at": &finished,
		}); err != nil {
			return nil, err
		}
		if err := s.docRepo.UpdateFields(doc.ID, map[string]any{
			"status":     model.DocumentStatusFailed,
			"page_count": result.PageCount,
		}); err != nil {
			return nil, err
		}
		return &PreviewResult{
			DocumentID: doc.ID,
			Status:     model.DocumentStatusFailed,
			PageCount:  result.PageCount,
			Reason:     reason,
		}, nil
	}

	fields := map[string]any{
		"preview_text": result.Text,
		"page_count":   result.PageCount,
	}
	// A fresh or recovered document becomes PREVIEW_READY; never downgrade
	// one a full analysis already moved past that state.
	status := doc.Status
	if doc.Status == model.DocumentStatusUploaded || doc.Status == model.DocumentStatusFailed {
		status = model.DocumentStatusPreviewReady
		fields["status"] = status
	}
	if err := s.docRepo.UpdateFields(doc.ID, fields); err != nil {
		return nil, err
	}
	if err := s.jobRepo.UpdateFields(job.ID, map[string]any{
		"status":      model.JobStatusReady,
		"progress":    100,
		"finished_at": &finished,
	}); err != nil {
		return nil, err
	}

	return &PreviewResult{
		DocumentID: doc.ID,
		Status:     status,
		PageCount:  result.PageCount,
		Text:       result.Text,
	}, nil
}

type previewExtract struct {
	PageCount int
	Text      string
}

func (s *PreviewService) extract(ctx context.Context, doc *model.Document) (*previewExtract, error) {
	data, err := s.fetcher.Fetch(ctx, doc.FilePath)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	total, text, err := pdfextract.ExtractFirstPages(data, s.previewPages)
	if err != nil {
		if errors.Is(err, pdfextract.ErrNotPDF) {
			return nil, &ExtractionError{Err: err}
		}
		return nil, err
	}

	return &previewExtract{
		PageCount: total,
		Text:      sanitize.Text(text),
	}, nil
}
