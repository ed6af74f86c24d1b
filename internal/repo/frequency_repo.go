// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// QueryFrequency model that powers "frequently asked" assistant shortcuts.
//
// Retention: each user keeps at most MaxFrequencyRecords rows; older rows
// (by last_used) are pruned on every upsert so the table stays bounded
// without a background job.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
)

// MaxFrequencyRecords caps per-user query-frequency rows.
const MaxFrequencyRecords = 50

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// UpsertQueryFrequency increments the counter for (userID, normalizedQuery),
// creating the record on first use, and returns the new count. The example
// text is refreshed to the latest phrasing so the UI shows a recent wording.
func UpsertQueryFrequency(ctx context.Context, db *gorm.DB, userID, normalizedQuery, example string, now time.Time) (int, error) {
	var rec domain.QueryFrequency
	err := db.WithContext(ctx).
		Where("user_id = ? AND normalized_query = ?", userID, normalizedQuery).
		First(&rec).Error

	switch {
	case err == nil:
		rec.Count++
		rec.ExampleText = example
		rec.LastUsed = now
		if err := db.WithContext(ctx).Save(&rec).Error; err != nil {
			return 0, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = domain.QueryFrequency{
			ID:              uuid.NewString(),
			UserID:          userID,
			NormalizedQuery: normalizedQuery,
			ExampleText:     example,
			Count:           1,
			FirstUsed:       now,
			LastUsed:        now,
		}
		if err := db.WithContext(ctx).Create(&rec).Error; err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	if err := pruneQueryFrequency(ctx, db, userID); err != nil {
		return 0, err
	}
	return rec.Count, nil
}

// TopQueries returns up to n records for userID ordered by usage count, then
// recency. n <= 0 defaults to 10.
func TopQueries(ctx context.Context, db *gorm.DB, userID string, n int) ([]domain.QueryFrequency, error) {
	if n <= 0 {
		n = 10
	}
	var out []domain.QueryFrequency
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("count DESC, last_used DESC").
		Limit(n).
		Find(&out).Error
	return out, err
}

// pruneQueryFrequency deletes everything beyond the MaxFrequencyRecords most
// recently used rows for userID.
func pruneQueryFrequency(ctx context.Context, db *gorm.DB, userID string) error {
	var keep []string
	err := db.WithContext(ctx).
		Model(&domain.QueryFrequency{}).
		Where("user_id = ?", userID).
		Order("last_used DESC").
		Limit(MaxFrequencyRecords).
		Pluck("id", &keep).Error
	if err != nil {
		return err
	}
	if len(keep) < MaxFrequencyRecords {
		return nil
	}
	return db.WithContext(ctx).
		Where("user_id = ? AND id NOT IN ?", userID, keep).
		Delete(&domain.QueryFrequency{}).Error
}
