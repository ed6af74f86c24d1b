package nlsql

import (
	"regexp"
	"strings"
)

// correctableRE matches the error families worth retrying: syntax and clause
// ordering problems (SQLite reports both as syntax errors near a token) and
// unknown identifiers or functions. Anything else surfaces immediately.
var correctableRE = regexp.MustCompile(`(?i)(syntax error|near "|no such column|no such table|no such function|misuse of aggregate|incomplete input)`)

// IsCorrectable classifies an execution error as repairable.
func IsCorrectable(err error) bool {
	if err == nil {
		return false
	}
	return correctableRE.MatchString(err.Error())
}

// BuildCorrectionPrompt asks a provider to repair a failed statement. The
// schema block keeps unknown-identifier fixes grounded in real columns.
func BuildCorrectionPrompt(schemaText, sql, errText string) string {
	var b strings.Builder
	b.WriteString("The following SQLite SELECT statement failed.\n\n")
	b.WriteString("Schema:\n")
	b.WriteString(schemaText)
	b.WriteString("\n\nStatement:\n")
	b.WriteString(sql)
	b.WriteString("\n\nError:\n")
	b.WriteString(errText)
	b.WriteString("\n\nReturn only the corrected single SELECT statement. No explanation, no markdown.")
	return b.String()
}

var (
	smartQuoteReplacer = strings.NewReplacer(
		"‘", "'", "’", "'", // curly single quotes
		"“", `"`, "”", `"`, // curly double quotes
		"`", "'", // backtick
	)

	nowFnRE     = regexp.MustCompile(`(?i)\bNOW\s*\(\s*\)`)
	curdateRE   = regexp.MustCompile(`(?i)\b(CURDATE|GETDATE|CURRENT_DATE)\s*\(\s*\)`)
	yearFnRE    = regexp.MustCompile(`(?i)\bYEAR\s*\(\s*([^)]+)\)`)
	monthFnRE   = regexp.MustCompile(`(?i)\bMONTH\s*\(\s*([^)]+)\)`)
	misplacedRE = regexp.MustCompile(`(?i)\b(LIMIT\s+\d+)\s+(ORDER\s+BY\s+[^;]+?|GROUP\s+BY\s+[^;]+?)\s*$`)
)

// DeterministicRewrite applies the small set of rule-based repairs used when
// generation-based correction is unavailable or produced an unsafe
// statement: quote normalization, dialect fixes for nonstandard date
// functions, and moving a misplaced LIMIT behind its trailing clause. The
// boolean reports whether anything changed.
func DeterministicRewrite(sql string) (string, bool) {
	out := strings.TrimSpace(sql)

	out = smartQuoteReplacer.Replace(out)
	out = nowFnRE.ReplaceAllString(out, "datetime('now')")
	out = curdateRE.ReplaceAllString(out, "date('now')")
	out = yearFnRE.ReplaceAllString(out, "strftime('%Y', $1)")
	out = monthFnRE.ReplaceAllString(out, "strftime('%m', $1)")

	// LIMIT must come last: "… LIMIT 5 ORDER BY name" → "… ORDER BY name LIMIT 5".
	out = misplacedRE.ReplaceAllString(out, "$2 $1")

	return out, out != strings.TrimSpace(sql)
}
