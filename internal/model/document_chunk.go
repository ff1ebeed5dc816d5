package model

import "time"

// DocumentChunk is the retrieval unit for question answering: a contiguous
// page range of extracted text. Chunk indices are zero-based and dense per
// document; the whole set is replaced on every full-analysis run.
type DocumentChunk struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	DocumentID uint `gorm:"not null;index;uniqueIndex:idx_doc_chunk,priority:1" json:"document_id"`
	ChunkIndex int  `gorm:"not null;uniqueIndex:idx_doc_chunk,priority:2" json:"chunk_index"`

	PageStart int    `gorm:"not null" json:"page_start"`
	PageEnd   int    `gorm:"not null" json:"page_end"`
	Text      string `gorm:"type:text;not null" json:"text"`

	CreatedAt time.Time `json:"created_at"`
}
