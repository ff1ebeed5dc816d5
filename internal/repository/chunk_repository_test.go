package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pdfinsight/internal/model"
)

func TestChunkReplacement(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewChunkRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&model.DocumentChunk{
			DocumentID: doc.ID,
			ChunkIndex: i,
			PageStart:  2*i + 1,
			PageEnd:    2*i + 2,
			Text:       "old",
		}))
	}

	require.NoError(t, repo.DeleteByDocumentID(doc.ID))
	require.NoError(t, repo.Create(&model.DocumentChunk{
		DocumentID: doc.ID,
		ChunkIndex: 0,
		PageStart:  1,
		PageEnd:    2,
		Text:       "new",
	}))

	chunks, err := repo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, "new", chunks[0].Text)
}

func TestListByDocumentIDOrder(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewChunkRepository(db)

	// Insert out of order; reads must come back by chunk index.
	for _, idx := range []int{2, 0, 1} {
		require.NoError(t, repo.Create(&model.DocumentChunk{
			DocumentID: doc.ID,
			ChunkIndex: idx,
			PageStart:  2*idx + 1,
			PageEnd:    2*idx + 2,
			Text:       "text",
		}))
	}

	chunks, err := repo.ListByDocumentID(doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	for i, c := range chunks {
		require.Equal(t, i, c.ChunkIndex)
	}
}

func TestListByDocumentIDPaged(t *testing.T) {
	db := newTestDB(t)
	doc := createTestDocument(t, db, 1)
	repo := NewChunkRepository(db)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&model.DocumentChunk{
			DocumentID: doc.ID,
			ChunkIndex: i,
			PageStart:  2*i + 1,
			PageEnd:    2*i + 2,
			Text:       "text",
		}))
	}

	chunks, total, err := repo.ListByDocumentIDPaged(doc.ID, 2, 2)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, chunks, 2)
	require.Equal(t, 2, chunks[0].ChunkIndex)
	require.Equal(t, 3, chunks[1].ChunkIndex)
}
