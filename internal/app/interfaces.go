package app

import (
	"context"

	"pdfinsight/internal/cache"
)

// BlobFetcher retrieves a stored document's bytes by storage path.
type BlobFetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// PageExtractor turns raw PDF bytes into the total page count and the text
// of the first pages, up to maxPages.
type PageExtractor interface {
	ExtractPages(data []byte, maxPages int) (int, []string, error)
}

// DocumentAnalyzer is the structured-analysis side of the model client.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, text string) (raw string, parsed map[string]any, err error)
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Answerer produces a question answer from retrieved context.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// JobPublisher hands a created job to the async worker.
type JobPublisher interface {
	Publish(ctx context.Context, jobID uint) error
}

// StatusCache is the short-TTL job status snapshot store.
type StatusCache interface {
	Get(ctx context.Context, jobID uint) (*cache.JobStatus, bool, error)
	Set(ctx context.Context, status *cache.JobStatus) error
	Delete(ctx context.Context, jobID uint) error
}
