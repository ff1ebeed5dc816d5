package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"pdfinsight/internal/cache"
	"pdfinsight/internal/model"
	"pdfinsight/internal/pkg/chunker"
	"pdfinsight/internal/pkg/sanitize"
	"pdfinsight/internal/repository"
)

type AnalysisService struct {
	docRepo   *repository.DocumentRepository
	chunkRepo *repository.ChunkRepository
	jobRepo   *repository.JobRepository
	usageRepo *repository.UsageRepository

	fetcher   BlobFetcher
	extractor PageExtractor
	analyzer  DocumentAnalyzer
	publisher JobPublisher
	statuses  StatusCache

	maxPages   int
	dailyLimit int
}

func NewAnalysisService(
	docRepo *repository.DocumentRepository,
	chunkRepo *repository.ChunkRepository,
	jobRepo *repository.JobRepository,
	usageRepo *repository.UsageRepository,
	fetcher BlobFetcher,
	extractor PageExtractor,
	analyzer DocumentAnalyzer,
	publisher JobPublisher,
	statuses StatusCache,
	maxPages int,
	dailyLimit int,
) *AnalysisService {
	if maxPages <= 0 {
		maxPages = 50
	}
	return &AnalysisService{
		docRepo:    docRepo,
		chunkRepo:  chunkRepo,
		jobRepo:    jobRepo,
		usageRepo:  usageRepo,
		fetcher:    fetcher,
		extractor:  extractor,
		analyzer:   analyzer,
		publisher:  publisher,
		statuses:   statuses,
		maxPages:   maxPages,
		dailyLimit: dailyLimit,
	}
}

// CreateFullAnalysis starts an async full analysis for the document. It
// returns the PENDING job after the message is on the queue; if publishing
// fails the job is marked FAILED immediately so no phantom PENDING job
// blocks the document.
func (s *AnalysisService) CreateFullAnalysis(ctx context.Context, ownerID, documentID uint) (*model.AnalysisJob, error) {
	doc, err := s.docRepo.GetByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	active, err := s.jobRepo.ExistsActive(documentID, model.JobKindFull)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrConflict
	}

	if _, err := s.usageRepo.Consume(ownerID, model.UsageKindFullAnalysis, s.dailyLimit); err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			return nil, ErrQuotaExceeded
		}
		return nil, err
	}

	job := &model.AnalysisJob{
		DocumentID: documentID,
		JobKind:    model.JobKindFull,
		Status:     model.JobStatusPending,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	if err := s.docRepo.UpdateFields(documentID, map[string]any{
		"status": model.DocumentStatusProcessing,
	}); err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, job.ID); err != nil {
		now := time.Now()
		if uerr := s.jobRepo.UpdateFields(job.ID, map[string]any{
			"status":      model.JobStatusFailed,
			"error":       "enqueue failed: " + err.Error(),
			"finished_at": &now,
		}); uerr != nil {
			log.Printf("mark job %d failed after publish error: %v", job.ID, uerr)
		}
		return nil, fmt.Errorf("enqueue analysis job failed: %w", err)
	}
	return job, nil
}

// JobStatusView is what the polling endpoint returns.
type JobStatusView struct {
	JobID      uint   `json:"job_id"`
	DocumentID uint   `json:"document_id"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
	Error      string `json:"error,omitempty"`
}

// GetStatus reads the job state, serving pollers from the short-TTL cache
// when possible. Ownership is checked through the job's document.
func (s *AnalysisService) GetStatus(ctx context.Context, ownerID, jobID uint) (*JobStatusView, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrNotFound
	}

	doc, err := s.docRepo.GetByIDAndOwner(job.DocumentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	if cached, ok, err := s.statuses.Get(ctx, jobID); err == nil && ok {
		return &JobStatusView{
			JobID:      jobID,
			DocumentID: job.DocumentID,
			Status:     cached.Status,
			Progress:   cached.Progress,
			Error:      cached.Error,
		}, nil
	} else if err != nil {
		log.Printf("job status cache read failed: %v", err)
	}

	if job.Active() {
		if err := s.statuses.Set(ctx, &cache.JobStatus{
			JobID:    job.ID,
			Status:   job.Status,
			Progress: job.Progress,
			Error:    job.Error,
		}); err != nil {
			log.Printf("job status cache write failed: %v", err)
		}
	}

	return &JobStatusView{
		JobID:      job.ID,
		DocumentID: job.DocumentID,
		Status:     job.Status,
		Progress:   job.Progress,
		Error:      job.Error,
	}, nil
}

// Run executes one full-analysis job end to end and persists the terminal
// state. Only PENDING jobs run; anything else is a redelivery or a stale
// message and returns without touching the job.
func (s *AnalysisService) Run(ctx context.Context, jobID uint) error {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		log.Printf("analysis job %d no longer exists, dropping", jobID)
		return nil
	}
	if job.Status != model.JobStatusPending {
		log.Printf("analysis job %d is %s, skipping redelivery", jobID, job.Status)
		return nil
	}

	doc, err := s.docRepo.GetByID(job.DocumentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return s.finishFailed(ctx, job, "document was deleted before analysis ran")
	}

	// Progress and error restart from a clean slate on every run.
	now := time.Now()
	if err := s.jobRepo.UpdateFields(job.ID, map[string]any{
		"status":     model.JobStatusProcessing,
		"started_at": &now,
		"progress":   0,
		"error":      "",
	}); err != nil {
		return err
	}
	s.publishProgress(ctx, job.ID, model.JobStatusProcessing, 0)

	result, runErr := s.runPipeline(ctx, job, doc)
	if runErr != nil {
		// Every pipeline failure is terminal for this job. Requeueing would
		// be pointless: the job already left PENDING, so a redelivery would
		// be skipped. Re-analysis creates a fresh job.
		if err := s.docRepo.UpdateFields(doc.ID, map[string]any{
			"status": model.DocumentStatusFailed,
		}); err != nil {
			return err
		}
		return s.finishFailed(ctx, job, runErr.Error())
	}

	if err := s.docRepo.UpdateFields(doc.ID, map[string]any{
		"status":        model.DocumentStatusReady,
		"page_count":    result.PageCount,
		"language":      result.Language,
		"analysis_json": result.AnalysisJSON,
		"analysis_text": result.Summary,
		"ai_raw":        result.Raw,
	}); err != nil {
		return err
	}

	finished := time.Now()
	if err := s.jobRepo.UpdateFields(job.ID, map[string]any{
		"status":      model.JobStatusReady,
		"progress":    100,
		"error":       "",
		"finished_at": &finished,
	}); err != nil {
		return err
	}
	if err := s.statuses.Delete(ctx, job.ID); err != nil {
		log.Printf("drop job status cache failed: %v", err)
	}
	return nil
}

// pipelineResult carries everything the READY transition persists.
type pipelineResult struct {
	PageCount    int
	Language     string
	Raw          string
	Summary      string
	AnalysisJSON string
}

func (s *AnalysisService) runPipeline(ctx context.Context, job *model.AnalysisJob, doc *model.Document) (*pipelineResult, error) {
	data, err := s.fetcher.Fetch(ctx, doc.FilePath)
	if err != nil {
		return nil, &ExtractionError{Err: fmt.Errorf("download document failed: %w", err)}
	}

	pageCount, pages, err := s.extractor.ExtractPages(data, s.maxPages)
	if err != nil {
		return nil, &ExtractionError{Err: err}
	}

	for i := range pages {
		pages[i] = sanitize.Text(pages[i])
	}

	// Chunk replacement is delete-then-create so a rerun never leaves a
	// mixed set behind; the old set goes away even when this run turns out
	// to have nothing to store.
	if err := s.chunkRepo.DeleteByDocumentID(doc.ID); err != nil {
		return nil, err
	}

	chunks := chunker.Build(pages)
	if len(chunks) == 0 {
		return nil, &ExtractionError{Err: errors.New("document contains no extractable text")}
	}
	total := len(pages)
	for _, c := range chunks {
		if err := s.chunkRepo.Create(&model.DocumentChunk{
			DocumentID: doc.ID,
			ChunkIndex: c.Index,
			PageStart:  c.PageStart,
			PageEnd:    c.PageEnd,
			Text:       c.Text,
		}); err != nil {
			return nil, err
		}
		progress := c.PageEnd * 95 / total
		if progress > 95 {
			progress = 95
		}
		if err := s.jobRepo.UpdateFields(job.ID, map[string]any{"progress": progress}); err != nil {
			return nil, err
		}
		s.publishProgress(ctx, job.ID, model.JobStatusProcessing, progress)
	}

	if err := s.jobRepo.UpdateFields(job.ID, map[string]any{"progress": 99}); err != nil {
		return nil, err
	}
	s.publishProgress(ctx, job.ID, model.JobStatusProcessing, 99)

	fullText := chunker.JoinPages(pages)
	raw, parsed, err := s.analyzer.Analyze(ctx, fullText)
	if err != nil {
		return nil, &AnalyzerError{Err: err}
	}

	cleaned, _ := sanitize.Value(parsed).(map[string]any)
	if cleaned == nil {
		cleaned = map[string]any{}
	}

	// Suggestions come from a separate call; its failure never fails the
	// job, the list just stays empty.
	suggestions, err := s.analyzer.Suggest(ctx, fullText)
	if err != nil {
		log.Printf("suggestions call for job %d failed: %v", job.ID, err)
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	cleaned["suggestions"] = sanitize.StringSlice(suggestions)

	analysisJSON, err := json.Marshal(cleaned)
	if err != nil {
		return nil, &AnalyzerError{Err: fmt.Errorf("marshal analysis failed: %w", err)}
	}

	summary, _ := cleaned["summary"].(string)
	language, _ := cleaned["language"].(string)

	return &pipelineResult{
		PageCount:    pageCount,
		Language:     language,
		Raw:          sanitize.Text(raw),
		Summary:      summary,
		AnalysisJSON: string(analysisJSON),
	}, nil
}

func (s *AnalysisService) finishFailed(ctx context.Context, job *model.AnalysisJob, reason string) error {
	now := time.Now()
	if err := s.jobRepo.UpdateFields(job.ID, map[string]any{
		"status":      model.JobStatusFailed,
		"error":       reason,
		"finished_at": &now,
	}); err != nil {
		return err
	}
	if err := s.statuses.Delete(ctx, job.ID); err != nil {
		log.Printf("drop job status cache failed: %v", err)
	}
	return nil
}

func (s *AnalysisService) publishProgress(ctx context.Context, jobID uint, status string, progress int) {
	if err := s.statuses.Set(ctx, &cache.JobStatus{
		JobID:    jobID,
		Status:   status,
		Progress: progress,
	}); err != nil {
		log.Printf("job status cache write failed: %v", err)
	}
}
