package nlsql

import (
	"fmt"
	"regexp"
	"strings"
)

// statusColumns maps the tables carrying a lifecycle status to their status
// column. Questions about these tables implicitly mean "currently active"
// rows unless the user says otherwise.
var statusColumns = map[string]string{
	"students": "membership_status",
	"users":    "status",
}

var (
	// unfilteredRE spots questions that explicitly override the default
	// active policy: asking for inactive/expired/suspended rows, or for
	// everything. Words that merely describe a subset of active members
	// ("expiring soon") do not belong here.
	unfilteredRE = regexp.MustCompile(`(?i)\b(all|every|everyone|inactive|expired|suspended|deleted|former)\b`)

	// nonActiveFilterRE detects a statement that already pins a known status
	// column to a non-active value, meaning the generator produced an
	// explicit request for those rows.
	nonActiveFilterRE = regexp.MustCompile(`(?i)\b(membership_status|status)\s*(=|!=|<>|in)\s*\(?[^)]*'(expired|suspended|inactive)'`)

	// fromJoinRE captures table references with an optional alias.
	fromJoinRE = regexp.MustCompile(`(?i)\b(?:from|join)\s+([a-zA-Z_][a-zA-Z0-9_]*)(?:\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*))?`)

	whereRE    = regexp.MustCompile(`(?i)\bwhere\b`)
	tailRE     = regexp.MustCompile(`(?i)\b(order\s+by|group\s+by|having|limit)\b`)
	limitRE    = regexp.MustCompile(`(?i)\blimit\s+\d+`)
	reservedRE = regexp.MustCompile(`(?i)^(where|on|order|group|having|limit|join|inner|left|right|full|cross|outer|union|as|select)$`)
)

// WantsUnfiltered reports whether the question explicitly asks for records
// beyond the default active set.
func WantsUnfiltered(question string) bool {
	return unfilteredRE.MatchString(question)
}

// InjectActiveFilter rewrites a validated SELECT so that every referenced
// status-bearing table is restricted to active rows, unless the question's
// intent or the statement itself already overrides the policy. The rewrite is
// idempotent: applying it to its own output is a no-op, because the
// already-filtered check recognizes the predicate it injects.
func InjectActiveFilter(sql, question string) string {
	if WantsUnfiltered(question) {
		return sql
	}
	if nonActiveFilterRE.MatchString(sql) {
		return sql
	}

	var preds []string
	for _, ref := range tableRefs(sql) {
		col, known := statusColumns[strings.ToLower(ref.table)]
		if !known {
			continue
		}
		prefix := ref.table
		if ref.alias != "" {
			prefix = ref.alias
		}
		if hasActiveFilter(sql, prefix, ref.table, col) {
			continue
		}
		preds = append(preds, fmt.Sprintf("%s.%s = 'active'", prefix, col))
	}
	if len(preds) == 0 {
		return sql
	}
	return insertPredicate(sql, strings.Join(preds, " AND "))
}

type tableRef struct {
	table string
	alias string
}

// tableRefs extracts FROM/JOIN table references with aliases. Alias tokens
// that are really the next SQL keyword are discarded.
func tableRefs(sql string) []tableRef {
	var out []tableRef
	for _, m := range fromJoinRE.FindAllStringSubmatch(sql, -1) {
		ref := tableRef{table: m[1]}
		if len(m) > 2 && m[2] != "" && !reservedRE.MatchString(m[2]) {
			ref.alias = m[2]
		}
		out = append(out, ref)
	}
	return out
}

// hasActiveFilter reports whether sql already constrains col to 'active' for
// the given table (by alias, table name, or bare column).
func hasActiveFilter(sql, prefix, table, col string) bool {
	for _, p := range []string{
		regexp.QuoteMeta(prefix) + `\.` + regexp.QuoteMeta(col),
		regexp.QuoteMeta(table) + `\.` + regexp.QuoteMeta(col),
		`\b` + regexp.QuoteMeta(col),
	} {
		re := regexp.MustCompile(`(?i)` + p + `\s*=\s*'active'`)
		if re.MatchString(sql) {
			return true
		}
	}
	return false
}

// insertPredicate adds pred to sql: after an existing WHERE as a leading AND
// conjunct, as a new WHERE before the first trailing clause, or appended at
// the end.
func insertPredicate(sql, pred string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(sql), ";")

	if loc := whereRE.FindStringIndex(trimmed); loc != nil {
		return trimmed[:loc[1]] + " " + pred + " AND" + trimmed[loc[1]:]
	}
	if loc := tailRE.FindStringIndex(trimmed); loc != nil {
		return trimmed[:loc[0]] + "WHERE " + pred + " " + trimmed[loc[0]:]
	}
	return trimmed + " WHERE " + pred
}
