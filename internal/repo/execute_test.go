package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
)

func TestSelectRows_RejectsNonSelect(t *testing.T) {
	db := newTestDB(t, &domain.Student{})

	cases := map[string]string{
		"update":        "UPDATE students SET name = 'x'",
		"delete":        "DELETE FROM students",
		"pragma":        "PRAGMA table_info(students)",
		"empty":         "",
		"stacked":       "SELECT * FROM students; DROP TABLE students",
		"leading space": "  DROP TABLE students",
	}
	for name, stmt := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := SelectRows(context.Background(), db, stmt)
			if !errors.Is(err, ErrNotReadOnly) {
				t.Fatalf("want ErrNotReadOnly, got %v", err)
			}
		})
	}
}

func TestSelectRows_TrailingSemicolonOK(t *testing.T) {
	db := newTestDB(t, &domain.Student{})

	res, err := SelectRows(context.Background(), db, "SELECT COUNT(*) AS n FROM students;")
	if err != nil {
		t.Fatalf("SelectRows: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(res.Rows))
	}
}

func TestSelectRows_ScansRowsAsMaps(t *testing.T) {
	db := newTestDB(t, &domain.Student{})

	seat := 7
	s := domain.Student{
		ID:               uuid.NewString(),
		Name:             "Asha",
		MembershipStatus: domain.StatusActive,
		SeatNumber:       &seat,
		MembershipTill:   time.Now().AddDate(0, 1, 0),
	}
	if err := db.Create(&s).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := SelectRows(context.Background(), db,
		"SELECT name, seat_number FROM students WHERE membership_status = 'active'")
	if err != nil {
		t.Fatalf("SelectRows: %v", err)
	}
	if len(res.Columns) != 2 || res.Columns[0] != "name" {
		t.Fatalf("unexpected columns: %v", res.Columns)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(res.Rows))
	}
	if got, ok := res.Rows[0]["name"].(string); !ok || got != "Asha" {
		t.Errorf("name = %v, want Asha as string", res.Rows[0]["name"])
	}
}

func TestSelectRows_SQLErrorSurfaces(t *testing.T) {
	db := newTestDB(t, &domain.Student{})

	if _, err := SelectRows(context.Background(), db, "SELECT * FROM no_such_table"); err == nil {
		t.Fatalf("expected driver error for missing table")
	}
}

func TestIsSingleSelect(t *testing.T) {
	cases := map[string]struct {
		stmt string
		want bool
	}{
		"plain":           {"select 1", true},
		"upper":           {"SELECT 1", true},
		"trailing semi":   {"select 1;", true},
		"semi then space": {"select 1; ", true},
		"stacked":         {"select 1; select 2", false},
		"insert":          {"insert into t values (1)", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := isSingleSelect(tc.stmt); got != tc.want {
				t.Errorf("isSingleSelect(%q) = %v, want %v", tc.stmt, got, tc.want)
			}
		})
	}
}
