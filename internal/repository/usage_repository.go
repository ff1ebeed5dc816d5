package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pdfinsight/internal/model"
)

// ErrQuotaExceeded is returned when the day's counter is already at the
// limit; the counter is left untouched.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Consume atomically increments today's counter for the given kind, creating
// the (user, date) row on first use. The row is read under an exclusive lock
// so concurrent consumers of the same user and day are fully serialized.
// Returns the counter value after the increment.
func (r *UsageRepository) Consume(userID uint, kind string, dailyLimit int) (int, error) {
	date := model.UsageDate(time.Now())

	var newCount int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ? AND date = ?", userID, date)
		// SQLite rejects FOR UPDATE and serializes writers on its own; every
		// other dialect gets the row lock.
		if tx.Dialector.Name() != "sqlite" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var usage model.DailyUsage
		err := query.First(&usage).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			usage = model.DailyUsage{UserID: userID, Date: date}
			if err := tx.Create(&usage).Error; err != nil {
				return fmt.Errorf("create usage row failed: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("get usage row failed: %w", err)
		}

		var column string
		var current int
		switch kind {
		case model.UsageKindFullAnalysis:
			column, current = "full_analysis_count", usage.FullAnalysisCount
		case model.UsageKindQA:
			column, current = "qa_count", usage.QACount
		default:
			return fmt.Errorf("unknown usage kind %q", kind)
		}

		if current >= dailyLimit {
			return ErrQuotaExceeded
		}

		newCount = current + 1
		if err := tx.Model(&model.DailyUsage{}).
			Where("id = ?", usage.ID).
			Update(column, newCount).Error; err != nil {
			return fmt.Errorf("increment usage counter failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// Today returns the current day's usage row, nil when nothing was consumed.
func (r *UsageRepository) Today(userID uint) (*model.DailyUsage, error) {
	var usage model.DailyUsage
	err := r.db.
		Where("user_id = ? AND date = ?", userID, model.UsageDate(time.Now())).
		First(&usage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usage row failed: %w", err)
	}
	return &usage, nil
}
