// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Student
// model used by the routine back-office endpoints.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
)

// CreateStudent inserts a new Student row with a UUID primary key.
func CreateStudent(ctx context.Context, db *gorm.DB, s *domain.Student) (*domain.Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetStudent fetches a student by ID, or ErrNotFound.
func GetStudent(ctx context.Context, db *gorm.DB, id string) (*domain.Student, error) {
	var s domain.Student
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// CountStudents returns the number of students, optionally filtered by
// membership status (empty status counts all).
func CountStudents(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	q := db.WithContext(ctx).Model(&domain.Student{})
	if status != "" {
		q = q.Where("membership_status = ?", status)
	}
	var total int64
	err := q.Count(&total).Error
	return total, err
}

// ListStudentsPage returns a page of students ordered by seat number, then
// name. The caller computes offset/limit.
func ListStudentsPage(ctx context.Context, db *gorm.DB, status string, offset, limit int) ([]domain.Student, error) {
	q := db.WithContext(ctx).Model(&domain.Student{})
	if status != "" {
		q = q.Where("membership_status = ?", status)
	}
	var out []domain.Student
	err := q.Order("seat_number, name").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// ExpiringSoon returns active students whose membership lapses within the
// window [now, now+days).
func ExpiringSoon(ctx context.Context, db *gorm.DB, now time.Time, days int) ([]domain.Student, error) {
	until := now.AddDate(0, 0, days)
	var out []domain.Student
	err := db.WithContext(ctx).
		Where("membership_status = ? AND membership_till >= ? AND membership_till < ?",
			domain.StatusActive, now, until).
		Order("membership_till").
		Find(&out).Error
	return out, err
}

// UpdateMembershipStatus sets membership_status for a student, returning
// ErrNotFound when the row does not exist.
func UpdateMembershipStatus(ctx context.Context, db *gorm.DB, id, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.Student{}).
		Where("id = ?", id).
		Update("membership_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
