package model

import "time"

const (
	UsageKindFullAnalysis = "FULL_ANALYSIS"
	UsageKindQA           = "QA"
)

// DailyUsage holds both per-day counters for one user. The row is created
// lazily on first use and mutated only inside the quota guard's serialized
// read-modify-write.
type DailyUsage struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_user_day,priority:1" json:"user_id"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_user_day,priority:2" json:"date"`

	FullAnalysisCount int `gorm:"not null;default:0" json:"full_analysis_count"`
	QACount           int `gorm:"not null;default:0" json:"qa_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UsageDate renders t as the calendar-day key used by DailyUsage rows.
func UsageDate(t time.Time) string {
	return t.Format("2006-01-02")
}
