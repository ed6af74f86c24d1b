package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
)

func seedStudent(t *testing.T, s *StudentService, name, status string, till time.Time) *domain.Student {
	t.Helper()
	st := &domain.Student{
		ID:               uuid.NewString(),
		Name:             name,
		MembershipStatus: status,
		MembershipTill:   till,
	}
	if err := s.DB.Create(st).Error; err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
	return st
}

func TestStudentService_Get(t *testing.T) {
	s := NewStudentService(newServiceDB(t, &domain.Student{}))
	ctx := context.Background()

	st := seedStudent(t, s, "Asha", domain.StatusActive, time.Now().AddDate(0, 1, 0))

	got, err := s.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Asha" {
		t.Errorf("Name = %q", got.Name)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("want ErrStudentNotFound, got %v", err)
	}
}

func TestStudentService_ListPage(t *testing.T) {
	s := NewStudentService(newServiceDB(t, &domain.Student{}))
	ctx := context.Background()
	till := time.Now().AddDate(0, 1, 0)

	for _, n := range []string{"A", "B", "C"} {
		seedStudent(t, s, n, domain.StatusActive, till)
	}
	seedStudent(t, s, "X", domain.StatusExpired, till)

	items, total, err := s.ListPage(ctx, domain.StatusActive, 0, -5)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(items) != 3 {
		t.Errorf("items = %d, want 3 (defaults applied)", len(items))
	}

	_, total, err = s.ListPage(ctx, "", 1, 2)
	if err != nil {
		t.Fatalf("ListPage all: %v", err)
	}
	if total != 4 {
		t.Errorf("unfiltered total = %d, want 4", total)
	}
}

func TestStudentService_ExpiringSoon(t *testing.T) {
	s := NewStudentService(newServiceDB(t, &domain.Student{}))
	ctx := context.Background()
	now := time.Now()

	seedStudent(t, s, "soon", domain.StatusActive, now.AddDate(0, 0, 2))
	seedStudent(t, s, "later", domain.StatusActive, now.AddDate(0, 0, 60))

	got, err := s.ExpiringSoon(ctx, 0) // invalid days fall back to 7
	if err != nil {
		t.Fatalf("ExpiringSoon: %v", err)
	}
	if len(got) != 1 || got[0].Name != "soon" {
		t.Fatalf("got %+v, want only 'soon'", got)
	}
}

func TestStudentService_Dashboard(t *testing.T) {
	s := NewStudentService(newServiceDB(t,
		&domain.Student{}, &domain.Seat{}, &domain.Payment{}, &domain.Expense{},
	))
	ctx := context.Background()

	seedStudent(t, s, "Asha", domain.StatusActive, time.Now().AddDate(0, 1, 0))
	if err := s.DB.Create(&domain.Seat{SeatNumber: 1, Occupied: true}).Error; err != nil {
		t.Fatalf("seed seat: %v", err)
	}

	stats, err := s.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if stats.ActiveStudents != 1 || stats.TotalSeats != 1 || stats.OccupiedSeats != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
