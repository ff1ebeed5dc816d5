package model

import "time"

// Document lifecycle states. Status only moves forward:
// UPLOADED -> PREVIEW_READY -> PROCESSING -> READY, with FAILED reachable
// from any processing step.
const (
	DocumentStatusUploaded     = "UPLOADED"
	DocumentStatusPreviewReady = "PREVIEW_READY"
	DocumentStatusProcessing   = "PROCESSING"
	DocumentStatusReady        = "READY"
	DocumentStatusFailed       = "FAILED"
)

// Document is an uploaded PDF plus everything derived from it. FilePath and
// Checksum are set at creation and never change; soft-deleted rows are
// excluded from every read path.
type Document struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OwnerID      uint   `gorm:"not null;index" json:"owner_id"`
	Title        string `gorm:"size:255" json:"title"`
	OriginalName string `gorm:"size:255;not null" json:"original_name"`
	FilePath     string `gorm:"size:512;not null" json:"file_path"`
	FileSize     int64  `gorm:"not null" json:"file_size"`
	MimeType     string `gorm:"size:120;not null" json:"mime_type"`
	Checksum     string `gorm:"size:64;index" json:"checksum"`

	PageCount *int   `json:"page_count"`
	Language  string `gorm:"size:20" json:"language"`

	PreviewText string `gorm:"type:text" json:"preview_text"`

	Status    string `gorm:"size:20;not null;default:UPLOADED" json:"status"`
	IsDeleted bool   `gorm:"not null;default:false;index" json:"-"`

	// Full-analysis output. AnalysisJSON is the sanitized structured result
	// as a JSON document, AIRaw the verbatim analyzer response, AnalysisText
	// the plain-text summary.
	AnalysisJSON string `gorm:"type:json" json:"analysis_json"`
	AnalysisText string `gorm:"type:text" json:"analysis_text"`
	AIRaw        string `gorm:"type:text" json:"ai_raw"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the title when set, the uploaded file name otherwise.
func (d *Document) DisplayName() string {
	if d.Title != "" {
		return d.Title
	}
	return d.OriginalName
}
