package model

import "time"

const (
	JobKindPreview = "PREVIEW"
	JobKindFull    = "FULL"
)

// Job states. PENDING and the two terminal states are stable; progress only
// advances while PROCESSING. A finished job is never resumed; re-analysis
// creates a new row.
const (
	JobStatusPending    = "PENDING"
	JobStatusProcessing = "PROCESSING"
	JobStatusReady      = "READY"
	JobStatusFailed     = "FAILED"
)

type AnalysisJob struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"not null;index" json:"document_id"`
	JobKind    string `gorm:"size:10;not null;index" json:"job_kind"`

	Status   string `gorm:"size:20;not null;default:PENDING" json:"status"`
	Progress int    `gorm:"not null;default:0" json:"progress"`
	Error    string `gorm:"type:text" json:"error"`

	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`

	CreatedAt time.Time `json:"created_at"`
}

// Active reports whether the job still occupies its document+kind slot.
func (j *AnalysisJob) Active() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusProcessing
}
