// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file implements schema introspection for SQLite via
// sqlite_master and table PRAGMAs, feeding the assistant's schema snapshot.
package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/schema"
)

// Introspector adapts a GORM handle to the schema.Introspector interface.
type Introspector struct {
	DB *gorm.DB
}

// Introspect reads table, column, and foreign-key metadata from SQLite.
// Internal sqlite_* tables are skipped.
func (in Introspector) Introspect(ctx context.Context) ([]schema.Table, error) {
	db := in.DB.WithContext(ctx)

	var names []string
	err := db.Raw(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
	).Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	tables := make([]schema.Table, 0, len(names))
	for _, name := range names {
		cols, err := introspectColumns(db, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, schema.Table{Name: name, Columns: cols})
	}
	return tables, nil
}

// columnInfo mirrors PRAGMA table_info output.
type columnInfo struct {
	CID     int    `gorm:"column:cid"`
	Name    string `gorm:"column:name"`
	Type    string `gorm:"column:type"`
	NotNull int    `gorm:"column:notnull"`
	PK      int    `gorm:"column:pk"`
}

// fkInfo mirrors PRAGMA foreign_key_list output.
type fkInfo struct {
	Table string `gorm:"column:table"`
	From  string `gorm:"column:from"`
	To    string `gorm:"column:to"`
}

func introspectColumns(db *gorm.DB, table string) ([]schema.Column, error) {
	ident := quoteIdent(table)

	var cols []columnInfo
	if err := db.Raw("PRAGMA table_info(" + ident + ")").Scan(&cols).Error; err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s reported no columns", table)
	}

	var fks []fkInfo
	if err := db.Raw("PRAGMA foreign_key_list(" + ident + ")").Scan(&fks).Error; err != nil {
		return nil, fmt.Errorf("foreign_key_list %s: %w", table, err)
	}
	refByCol := make(map[string]*schema.Ref, len(fks))
	for _, fk := range fks {
		to := fk.To
		if to == "" {
			// SQLite reports NULL when the FK references the primary key.
			to = "id"
		}
		refByCol[strings.ToLower(fk.From)] = &schema.Ref{Table: fk.Table, Column: to}
	}

	out := make([]schema.Column, 0, len(cols))
	for _, c := range cols {
		out = append(out, schema.Column{
			Name:     c.Name,
			Type:     strings.ToLower(c.Type),
			Nullable: c.NotNull == 0 && c.PK == 0,
			Ref:      refByCol[strings.ToLower(c.Name)],
		})
	}
	return out, nil
}

// quoteIdent double-quotes an identifier so PRAGMA calls survive reserved
// words or unusual table names.
func quoteIdent(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
