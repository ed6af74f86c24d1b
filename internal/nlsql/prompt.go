package nlsql

import (
	"strings"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/schema"
)

// maxSummaryRunes bounds the remembered-result text embedded per turn.
const maxSummaryRunes = 160

// dialectRules are the fixed generation rules embedded in every prompt:
// clause ordering, preferred date functions, and quoting conventions for the
// SQLite dialect.
const dialectRules = `Rules:
- Produce exactly one SQLite SELECT statement. No other statement kinds.
- Clause order: SELECT, FROM, JOIN, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT.
- Dates: use date('now'), datetime('now') and date modifiers like date('now', '+7 day'); never NOW() or CURDATE().
- Quote string literals with single quotes; do not quote identifiers unless required.
- Prefer explicit column lists over SELECT * when the question names fields.
- Return only SQL. No markdown, no explanation.`

// filterPolicy describes the default-active policy so the generator and the
// injector's intent classification agree on what "students" means by default.
const filterPolicy = `Policy:
- Questions mean currently active records unless they explicitly ask for expired, suspended, inactive or all records.
- students.membership_status and users.status hold the lifecycle values 'active', 'expired', 'suspended', 'inactive'.`

// BuildPrompt assembles the generation prompt: rendered schema, dialect
// rules, the default-filter policy, up to the last ten remembered turns, and
// the question. Deterministic for identical inputs.
func BuildPrompt(snap *schema.Snapshot, history []Turn, question string) string {
	var b strings.Builder

	b.WriteString("You translate questions about a membership database into SQLite SELECT statements.\n\n")
	b.WriteString("Schema:\n")
	b.WriteString(snap.Render())
	b.WriteString("\n")
	b.WriteString(dialectRules)
	b.WriteString("\n\n")
	b.WriteString(filterPolicy)

	if len(history) > 0 {
		b.WriteString("\n\nRecent conversation:\n")
		for _, t := range history {
			b.WriteString("- Previous question: ")
			b.WriteString(t.Question)
			b.WriteString("\n")
			if t.SQL != "" {
				b.WriteString("  SQL: ")
				b.WriteString(t.SQL)
				b.WriteString("\n")
			}
			b.WriteString("  Result: ")
			b.WriteString(TruncateSummary(t.ResponseSummary))
			b.WriteString("\n")
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}

// TruncateSummary caps a remembered result to maxSummaryRunes, flattening
// newlines so one turn stays on one history line.
func TruncateSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxSummaryRunes {
		return s
	}
	return string(runes[:maxSummaryRunes]) + "…"
}
