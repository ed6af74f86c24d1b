// Package services – StudentService
//
// Routine back-office reads over the student roster: paginated listings,
// expiring-membership reports, and the dashboard aggregates. Mutations go
// through the import/admin tooling, so this service is read-only.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/repo"
)

// StudentService exposes read operations over students and dashboard stats.
type StudentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewStudentService constructs a StudentService.
func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{DB: db}
}

// Get fetches one student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	tr := otel.Tracer("services/StudentService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("student.id", id)),
	)
	defer span.End()

	student, err := repo.GetStudent(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// ListPage returns a page of students, optionally filtered by membership
// status, with the total count for pagination. Defaults are applied for
// invalid page/pageSize.
func (s *StudentService) ListPage(ctx context.Context, status string, page, pageSize int) ([]domain.Student, int64, error) {
	tr := otel.Tracer("services/StudentService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("status", status),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountStudents(ctx, s.DB, status)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Student{}, 0, nil
	}

	items, err := repo.ListStudentsPage(ctx, s.DB, status, offset, pageSize)
	return items, total, err
}

// ExpiringSoon returns active students whose membership lapses within the
// next days. Days outside [1,90] fall back to 7.
func (s *StudentService) ExpiringSoon(ctx context.Context, days int) ([]domain.Student, error) {
	tr := otel.Tracer("services/StudentService")
	ctx, span := tr.Start(ctx, "ExpiringSoon",
		trace.WithAttributes(attribute.Int("days", days)),
	)
	defer span.End()

	if days < 1 || days > 90 {
		days = 7
	}
	return repo.ExpiringSoon(ctx, s.DB, time.Now(), days)
}

// Dashboard returns the landing-page aggregates.
func (s *StudentService) Dashboard(ctx context.Context) (repo.DashboardStats, error) {
	tr := otel.Tracer("services/StudentService")
	ctx, span := tr.Start(ctx, "Dashboard")
	defer span.End()

	return repo.LoadDashboardStats(ctx, s.DB, time.Now())
}
