// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file is the read-only execution surface used by the
// assistant pipeline: it runs exactly one SELECT statement and returns rows
// as generic maps, refusing anything else at the driver boundary.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotReadOnly is returned when a statement is not a single SELECT.
var ErrNotReadOnly = errors.New("statement must be a single SELECT")

// SelectResult carries the outcome of a read-only execution.
type SelectResult struct {
	Columns []string
	Rows    []map[string]any
}

// SelectRows executes a single SELECT statement and scans every row into a
// map keyed by column name. The read-only shape check is repeated here even
// though callers validate upstream; nothing that is not a single SELECT
// reaches the driver through this function.
//
// Multi-statement input (a second statement after a semicolon) is rejected
// before touching the driver.
func SelectRows(ctx context.Context, db *gorm.DB, sql string) (*SelectResult, error) {
	stmt := strings.TrimSpace(sql)
	if !isSingleSelect(stmt) {
		return nil, ErrNotReadOnly
	}

	rows, err := db.WithContext(ctx).Raw(stmt).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := &SelectResult{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(cols))
		for i, c := range cols {
			v := vals[i]
			// The pure-Go driver returns []byte for TEXT in some paths.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[c] = v
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, rows.Err()
}

// isSingleSelect reports whether stmt is one SELECT statement. A trailing
// semicolon is tolerated; a semicolon followed by anything else is not.
func isSingleSelect(stmt string) bool {
	low := strings.ToLower(stmt)
	if !strings.HasPrefix(low, "select") {
		return false
	}
	if i := strings.Index(stmt, ";"); i >= 0 {
		if strings.TrimSpace(stmt[i+1:]) != "" {
			return false
		}
	}
	return true
}
