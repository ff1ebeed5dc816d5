package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdfinsight/internal/cache"
	"pdfinsight/internal/model"
	"pdfinsight/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.AnalysisJob{},
		&model.DailyUsage{},
	))
	return db
}

func createTestDocument(t *testing.T, db *gorm.DB, ownerID uint) *model.Document {
	t.Helper()

	doc := &model.Document{
		OwnerID:      ownerID,
		OriginalName: "report.pdf",
		FilePath:     fmt.Sprintf("user-%d/report.pdf", ownerID),
		FileSize:     1024,
		MimeType:     "application/pdf",
		Status:       model.DocumentStatusUploaded,
	}
	require.NoError(t, repository.NewDocumentRepository(db).Create(doc))
	return doc
}

type fakeFetcher struct {
	data []byte
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeExtractor struct {
	total int
	pages []string
	err   error
}

func (f *fakeExtractor) ExtractPages(data []byte, maxPages int) (int, []string, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	pages := f.pages
	if maxPages > 0 && len(pages) > maxPages {
		pages = pages[:maxPages]
	}
	return f.total, pages, nil
}

type fakeAnalyzer struct {
	raw         string
	parsed      map[string]any
	suggestions []string
	analyzeErr  error
	suggestErr  error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (string, map[string]any, error) {
	if f.analyzeErr != nil {
		return "", nil, f.analyzeErr
	}
	return f.raw, f.parsed, nil
}

func (f *fakeAnalyzer) Suggest(ctx context.Context, text string) ([]string, error) {
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions, nil
}

type fakePublisher struct {
	err       error
	published []uint
}

func (f *fakePublisher) Publish(ctx context.Context, jobID uint) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, jobID)
	return nil
}

type fakeAnswerer struct {
	answer string
	err    error

	lastQuestion string
	lastContext  string
}

func (f *fakeAnswerer) Answer(ctx context.Context, question, context string) (string, error) {
	f.lastQuestion = question
	f.lastContext = context
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

// memStatusCache is an in-memory StatusCache for tests.
type memStatusCache struct {
	mu sync.Mutex
	m  map[uint]*cache.JobStatus
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{m: map[uint]*cache.JobStatus{}}
}

func (c *memStatusCache) Get(ctx context.Context, jobID uint) (*cache.JobStatus, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.m[jobID]
	return status, ok, nil
}

func (c *memStatusCache) Set(ctx context.Context, status *cache.JobStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[status.JobID] = status
	return nil
}

func (c *memStatusCache) Delete(ctx context.Context, jobID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, jobID)
	return nil
}
