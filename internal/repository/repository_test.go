package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdfinsight/internal/model"
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
	require.NoError(t, NewDocumentRepository(db).Create(doc))
	return doc
}
