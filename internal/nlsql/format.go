package nlsql

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoResultsMessage is returned verbatim for empty result sets; formatting
// providers are never invoked for zero rows.
const NoResultsMessage = "No matching records were found."

// maxRenderedRows bounds the rows shown by the deterministic table renderer.
const maxRenderedRows = 20

var titleCaser = cases.Title(language.English)

// BuildFormatPrompt asks a provider to summarize rows for the user. Rows are
// embedded as compact JSON, truncated to the renderer's row bound.
func BuildFormatPrompt(question string, res *Result) string {
	rows := res.Rows
	if len(rows) > maxRenderedRows {
		rows = rows[:maxRenderedRows]
	}
	data, err := json.Marshal(rows)
	if err != nil {
		data = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("Summarize this query result for a membership back-office admin in one or two short sentences, or a short list when rows are listed.\n\n")
	fmt.Fprintf(&b, "Question: %s\n", strings.TrimSpace(question))
	fmt.Fprintf(&b, "Row count: %d\n", res.RowCount)
	fmt.Fprintf(&b, "Rows (JSON): %s\n", data)
	b.WriteString("\nPlain text only. Do not invent values that are not in the rows.")
	return b.String()
}

// DeterministicFormat renders rows without any provider. Recognizable shapes
// (single counts, money totals, occupancy pairs, expiring-member lists) get a
// tailored sentence; everything else becomes a plain text table.
func DeterministicFormat(res *Result) string {
	if res == nil || res.RowCount == 0 {
		return NoResultsMessage
	}

	if res.RowCount == 1 && len(res.Columns) == 1 {
		col := res.Columns[0]
		val := res.Rows[0][col]
		low := strings.ToLower(col)
		switch {
		case strings.Contains(low, "revenue") || strings.Contains(low, "amount"):
			return fmt.Sprintf("Total revenue: ₹%v.", val)
		case strings.Contains(low, "expense") || strings.Contains(low, "cost"):
			return fmt.Sprintf("Total expenses: ₹%v.", val)
		case strings.Contains(low, "count") || strings.Contains(low, "total"):
			return fmt.Sprintf("%s: %v.", humanizeColumn(col), val)
		default:
			return fmt.Sprintf("%s: %v.", humanizeColumn(col), val)
		}
	}

	if res.RowCount == 1 && hasColumns(res.Columns, "total_seats", "occupied_seats") {
		row := res.Rows[0]
		return fmt.Sprintf("%v of %v seats are occupied.", row["occupied_seats"], row["total_seats"])
	}

	if hasColumns(res.Columns, "name", "membership_till") {
		var b strings.Builder
		fmt.Fprintf(&b, "%d member(s):\n", res.RowCount)
		for i, row := range res.Rows {
			if i == maxRenderedRows {
				fmt.Fprintf(&b, "… and %d more", res.RowCount-maxRenderedRows)
				break
			}
			fmt.Fprintf(&b, "- %v (till %v)\n", row["name"], row["membership_till"])
		}
		return strings.TrimRight(b.String(), "\n")
	}

	return renderTable(res)
}

// renderTable prints a header line and up to maxRenderedRows pipe-separated
// rows.
func renderTable(res *Result) string {
	var b strings.Builder

	headers := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		headers[i] = humanizeColumn(c)
	}
	b.WriteString(strings.Join(headers, " | "))
	b.WriteString("\n")

	for i, row := range res.Rows {
		if i == maxRenderedRows {
			fmt.Fprintf(&b, "… and %d more", res.RowCount-maxRenderedRows)
			break
		}
		cells := make([]string, len(res.Columns))
		for j, c := range res.Columns {
			cells[j] = fmt.Sprintf("%v", row[c])
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ErrorPresentation maps an execution failure to a user-facing message with a
// likely-cause hint derived from the error text. Raw driver internals stay
// out of the message; the correlation id ties it back to logs.
func ErrorPresentation(errText, correlationID string) string {
	hint := "The question may be outside what the database can answer."
	low := strings.ToLower(errText)
	switch {
	case strings.Contains(low, "no such column"):
		hint = "The question may reference a field the database does not have."
	case strings.Contains(low, "no such table"):
		hint = "The question may reference data the database does not track."
	case strings.Contains(low, "no such function"):
		hint = "The question needed a calculation the database does not support."
	case strings.Contains(low, "syntax error"), strings.Contains(low, "incomplete input"):
		hint = "The generated query was malformed. Rephrasing the question usually helps."
	}
	return fmt.Sprintf("Sorry, I couldn't answer that. %s (ref: %s)", hint, correlationID)
}

func humanizeColumn(col string) string {
	return titleCaser.String(strings.ReplaceAll(col, "_", " "))
}

func hasColumns(cols []string, want ...string) bool {
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[strings.ToLower(c)] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}
