package nlsql

import (
	"fmt"
	"regexp"
	"strings"
)

// forbiddenRE matches mutating/DDL verbs on word boundaries. Identifiers like
// "update_log" or "last_update" pass because '_' is a word character.
var forbiddenRE = regexp.MustCompile(`(?i)\b(drop|delete|insert|update|alter|truncate)\b`)

// createRE matches a standalone "create" token. Word-boundary matching keeps
// identifiers such as create_date or date_created out of its reach; the
// recognized current-date/time function names (current_date,
// current_timestamp, current_time) never contain a standalone token either,
// so a bare "create" always rejects.
var createRE = regexp.MustCompile(`(?i)\bcreate\b`)

var fromRE = regexp.MustCompile(`(?i)\bfrom\b`)

// ExtractSQL strips markdown code-fence markup from generated text and
// returns the candidate statement. With a fenced block present, its content
// wins; otherwise the trimmed text is returned as-is. Trailing semicolons are
// dropped so later rewrites (filter injection, the row cap) can append to the
// statement without producing what Validate reads as a second statement.
func ExtractSQL(text string) string {
	t := strings.TrimSpace(text)
	if i := strings.Index(t, "```"); i >= 0 {
		rest := t[i+3:]
		// Drop an optional language tag on the fence line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			tag := strings.ToLower(strings.TrimSpace(rest[:nl]))
			if tag == "sql" || tag == "sqlite" || tag == "" {
				rest = rest[nl+1:]
			}
		} else {
			rest = strings.TrimPrefix(rest, "sql")
		}
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		t = strings.TrimSpace(rest)
	}
	for strings.HasSuffix(t, ";") {
		t = strings.TrimSpace(strings.TrimSuffix(t, ";"))
	}
	return t
}

// Validate applies the two mandatory safety checks to an extracted statement:
// the shape check (single SELECT with a FROM clause) and the word-boundary
// keyword check. A semicolon followed by anything is rejected outright, so a
// smuggled second statement never reaches the keyword scan's mercy.
func Validate(sql string) error {
	stmt := strings.TrimSpace(sql)
	if stmt == "" {
		return fmt.Errorf("%w: empty statement", ErrUnsafeStatement)
	}

	low := strings.ToLower(stmt)
	if !strings.HasPrefix(low, "select") {
		return fmt.Errorf("%w: statement must start with SELECT", ErrUnsafeStatement)
	}
	if !fromRE.MatchString(stmt) {
		return fmt.Errorf("%w: statement has no FROM clause", ErrUnsafeStatement)
	}

	// The scan is byte-level, not lexer-level: a semicolon inside a string
	// literal ('a;b') trips it too. That over-rejects a legal statement, but
	// none of the membership queries need literal semicolons, and erring on
	// rejection keeps the check independent of quote parsing.
	if i := strings.IndexByte(stmt, ';'); i >= 0 {
		if strings.TrimSpace(stmt[i+1:]) != "" {
			return fmt.Errorf("%w: multiple statements", ErrUnsafeStatement)
		}
	}

	if m := forbiddenRE.FindString(stmt); m != "" {
		return fmt.Errorf("%w: forbidden keyword %q", ErrUnsafeStatement, strings.ToLower(m))
	}
	if createRE.MatchString(stmt) {
		return fmt.Errorf("%w: forbidden keyword %q", ErrUnsafeStatement, "create")
	}
	return nil
}
