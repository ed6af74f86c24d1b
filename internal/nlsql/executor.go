package nlsql

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// RowStore is the read-only execution surface the pipeline consumes. The
// store owns transaction semantics and must itself reject anything that is
// not a single SELECT.
type RowStore interface {
	SelectRows(ctx context.Context, sql string) (columns []string, rows []map[string]any, err error)
}

// Result is a successful statement execution.
type Result struct {
	Columns       []string
	Rows          []map[string]any
	RowCount      int
	ExecutionTime time.Duration
}

// bulkRE spots communication/export intent in a question or statement: those
// queries must return the complete set, so the default row cap is skipped.
var bulkRE = regexp.MustCompile(`(?i)\b(sms|whatsapp|message|notify|contact|contacts|phone|export|download|bulk|all|every|everyone|complete|entire)\b`)

// IsBulkOperation reports whether the question or the statement carries
// bulk/communication intent.
func IsBulkOperation(question, sql string) bool {
	return bulkRE.MatchString(question) || bulkRE.MatchString(sql)
}

// ApplyRowCap appends a default LIMIT to non-bulk statements that do not
// already carry one.
func ApplyRowCap(sql, question string, limit int) string {
	if limit <= 0 {
		return sql
	}
	if IsBulkOperation(question, sql) {
		return sql
	}
	if limitRE.MatchString(sql) {
		return sql
	}
	return sql + fmt.Sprintf(" LIMIT %d", limit)
}

// Execute re-validates and runs one statement. A failed execution comes back
// as *ExecutionError so the correction loop can classify it; Execute itself
// never panics and never leaks a raw driver error without the statement
// attached.
func Execute(ctx context.Context, store RowStore, sql string) (*Result, error) {
	if err := Validate(sql); err != nil {
		return nil, err
	}

	start := time.Now()
	cols, rows, err := store.SelectRows(ctx, sql)
	if err != nil {
		return nil, &ExecutionError{SQL: sql, Err: err}
	}
	return &Result{
		Columns:       cols,
		Rows:          rows,
		RowCount:      len(rows),
		ExecutionTime: time.Since(start),
	}, nil
}
