package nlsql

import (
	"strings"
	"testing"
)

func TestInjectActiveFilter_AddsWhere(t *testing.T) {
	got := InjectActiveFilter("SELECT * FROM students", "list students")
	want := "SELECT * FROM students WHERE students.membership_status = 'active'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInjectActiveFilter_AllOverride(t *testing.T) {
	sql := "SELECT * FROM students"
	if got := InjectActiveFilter(sql, "list all students"); got != sql {
		t.Fatalf("explicit 'all' must not be filtered, got %q", got)
	}
	if got := InjectActiveFilter(sql, "show expired students"); got != sql {
		t.Fatalf("explicit 'expired' must not be filtered, got %q", got)
	}
	if got := InjectActiveFilter(sql, "everyone please"); got != sql {
		t.Fatalf("explicit 'everyone' must not be filtered, got %q", got)
	}
}

func TestInjectActiveFilter_ExpiringKeepsActiveFilter(t *testing.T) {
	// Members about to expire are still active members; "expiring" must not
	// read as an override of the default active policy.
	got := InjectActiveFilter("SELECT name, membership_till FROM students", "which members are expiring soon")
	if !strings.Contains(got, "students.membership_status = 'active'") {
		t.Fatalf("expiring question lost the active filter: %q", got)
	}
}

func TestWantsUnfiltered(t *testing.T) {
	overrides := []string{
		"list all students",
		"show expired members",
		"any former students left",
		"inactive seats",
	}
	for _, q := range overrides {
		if !WantsUnfiltered(q) {
			t.Errorf("WantsUnfiltered(%q) = false, want true", q)
		}
	}
	plain := []string{
		"members expiring soon",
		"payment history for march",
		"students including their fees",
		"how old is the oldest member",
	}
	for _, q := range plain {
		if WantsUnfiltered(q) {
			t.Errorf("WantsUnfiltered(%q) = true, want false", q)
		}
	}
}

func TestInjectActiveFilter_ExistingNonActiveFilter(t *testing.T) {
	sql := "SELECT * FROM students WHERE membership_status = 'expired'"
	if got := InjectActiveFilter(sql, "show them"); got != sql {
		t.Fatalf("statement already requesting expired rows was rewritten: %q", got)
	}
	in := "SELECT * FROM students WHERE membership_status IN ('expired', 'suspended')"
	if got := InjectActiveFilter(in, "show them"); got != in {
		t.Fatalf("IN-list non-active filter was rewritten: %q", got)
	}
}

func TestInjectActiveFilter_ExistingWhere(t *testing.T) {
	got := InjectActiveFilter("SELECT * FROM students WHERE seat_number > 10", "which students")
	if !strings.Contains(got, "WHERE students.membership_status = 'active' AND seat_number > 10") {
		t.Fatalf("predicate not conjoined after WHERE: %q", got)
	}
}

func TestInjectActiveFilter_BeforeTrailingClauses(t *testing.T) {
	cases := map[string]string{
		"order by": "SELECT * FROM students ORDER BY name",
		"group by": "SELECT membership_status, COUNT(*) FROM students GROUP BY membership_status",
		"limit":    "SELECT * FROM students LIMIT 5",
	}
	for name, sql := range cases {
		t.Run(name, func(t *testing.T) {
			got := InjectActiveFilter(sql, "students please")
			idxWhere := strings.Index(got, "WHERE students.membership_status = 'active'")
			if idxWhere < 0 {
				t.Fatalf("no injected WHERE: %q", got)
			}
			for _, tail := range []string{"ORDER BY", "GROUP BY", "LIMIT"} {
				if idxTail := strings.Index(got, tail); idxTail >= 0 && idxTail < idxWhere {
					t.Fatalf("injected WHERE after %s: %q", tail, got)
				}
			}
		})
	}
}

func TestInjectActiveFilter_AliasAware(t *testing.T) {
	got := InjectActiveFilter("SELECT s.name FROM students s WHERE s.seat_number > 3", "who is there")
	if !strings.Contains(got, "s.membership_status = 'active'") {
		t.Fatalf("alias not used in predicate: %q", got)
	}
}

func TestInjectActiveFilter_MultipleKnownTables(t *testing.T) {
	got := InjectActiveFilter("SELECT s.name, u.username FROM students s JOIN users u ON u.id = s.id", "who")
	if !strings.Contains(got, "s.membership_status = 'active'") {
		t.Errorf("students predicate missing: %q", got)
	}
	if !strings.Contains(got, "u.status = 'active'") {
		t.Errorf("users predicate missing: %q", got)
	}
}

func TestInjectActiveFilter_UnknownTableUntouched(t *testing.T) {
	sql := "SELECT * FROM payments"
	if got := InjectActiveFilter(sql, "payments please"); got != sql {
		t.Fatalf("table without a status column was rewritten: %q", got)
	}
}

func TestInjectActiveFilter_Idempotent(t *testing.T) {
	statements := []string{
		"SELECT * FROM students",
		"SELECT * FROM students WHERE seat_number > 10",
		"SELECT * FROM students ORDER BY name",
		"SELECT s.name FROM students s WHERE s.seat_number > 3",
		"SELECT s.name, u.username FROM students s JOIN users u ON u.id = s.id",
	}
	for _, sql := range statements {
		once := InjectActiveFilter(sql, "students")
		twice := InjectActiveFilter(once, "students")
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", sql, once, twice)
		}
	}
}

func TestInjectActiveFilter_AlreadyActiveFilterSkipped(t *testing.T) {
	sql := "SELECT * FROM students WHERE membership_status = 'active'"
	if got := InjectActiveFilter(sql, "students"); got != sql {
		t.Fatalf("existing active filter duplicated: %q", got)
	}
}
