package genai

import (
	"context"
	"fmt"
	"strings"
)

// Deterministic is the pattern-matching generator that terminates every
// fallback chain. It inspects the question embedded in the prompt and emits a
// canned SQLite SELECT for the recognizable membership questions (counts,
// revenue, expenses, occupancy, expiring members, contact lists), with a
// generic student listing as the catch-all. It requires no network and never
// returns an error.
type Deterministic struct{}

// Name implements Generator.
func (Deterministic) Name() string { return "deterministic" }

// Generate implements Generator. The prompt builder places the user question
// on a trailing "Question:" line; when absent, the whole prompt is matched.
func (Deterministic) Generate(_ context.Context, prompt string, _ Options) (string, error) {
	q := strings.ToLower(QuestionFromPrompt(prompt))

	switch {
	case strings.Contains(q, "seat") && mentionsAny(q, "free", "available", "vacant", "empty", "occupied", "occupancy", "how many"):
		return `SELECT COUNT(*) AS total_seats, SUM(CASE WHEN occupied THEN 1 ELSE 0 END) AS occupied_seats FROM seats`, nil
	case mentionsAny(q, "revenue", "collection", "collected", "payment", "income"):
		return `SELECT COALESCE(SUM(amount), 0) AS total_revenue FROM payments WHERE payment_date >= date('now', 'start of month')`, nil
	case mentionsAny(q, "expense", "expenditure", "cost", "spent", "spending"):
		return `SELECT COALESCE(SUM(cost), 0) AS total_expenses FROM expenses WHERE expense_date >= date('now', 'start of month')`, nil
	case mentionsAny(q, "expiring", "expire", "expires", "renew", "renewal", "due soon"):
		return `SELECT name, seat_number, contact_number, membership_till FROM students WHERE membership_status = 'active' AND membership_till <= date('now', '+7 day') ORDER BY membership_till`, nil
	case mentionsAny(q, "contact", "phone", "mobile", "sms"):
		return contactSQL(q), nil
	case isCountQuestion(q):
		return countSQL(q), nil
	default:
		return listSQL(q), nil
	}
}

// QuestionFromPrompt extracts the user question from a built prompt. The last
// line prefixed "Question:" wins; without one, the prompt itself is returned.
func QuestionFromPrompt(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		low := strings.ToLower(line)
		if strings.HasPrefix(low, "question:") {
			return strings.TrimSpace(line[len("question:"):])
		}
	}
	return strings.TrimSpace(prompt)
}

func isCountQuestion(q string) bool {
	return mentionsAny(q, "how many", "count", "number of", "total students")
}

func countSQL(q string) string {
	if status, ok := explicitStatus(q); ok {
		return fmt.Sprintf(`SELECT COUNT(*) AS total_%s_students FROM students WHERE membership_status = '%s'`, status, status)
	}
	if strings.Contains(q, "all") {
		return `SELECT COUNT(*) AS total_students FROM students`
	}
	return `SELECT COUNT(*) AS total_active_students FROM students WHERE membership_status = 'active'`
}

func contactSQL(q string) string {
	if status, ok := explicitStatus(q); ok {
		return fmt.Sprintf(`SELECT name, contact_number FROM students WHERE membership_status = '%s' ORDER BY name`, status)
	}
	return `SELECT name, contact_number FROM students ORDER BY name`
}

func listSQL(q string) string {
	if status, ok := explicitStatus(q); ok {
		return fmt.Sprintf(`SELECT name, father_name, contact_number, seat_number, membership_status, membership_till FROM students WHERE membership_status = '%s' ORDER BY name`, status)
	}
	return `SELECT name, father_name, contact_number, seat_number, membership_status, membership_till FROM students ORDER BY name`
}

// explicitStatus reports a non-active status named outright in the question.
// Active stays implicit so the default filter injector owns that policy.
func explicitStatus(q string) (string, bool) {
	switch {
	case strings.Contains(q, "expired"):
		return "expired", true
	case strings.Contains(q, "suspended"):
		return "suspended", true
	case strings.Contains(q, "inactive"):
		return "inactive", true
	}
	return "", false
}

func mentionsAny(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}
