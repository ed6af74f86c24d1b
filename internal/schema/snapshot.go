// Package schema provides an introspected, cached view of the relational
// store consumed by the assistant pipeline. A Snapshot is immutable once
// built: refreshes replace it wholesale, never mutate it in place.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Ref points at the column a foreign key references.
type Ref struct {
	Table  string
	Column string
}

// Column describes one column of an introspected table.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Ref      *Ref // nil when the column is not a foreign key
}

// Table is an ordered list of columns under a table name. Column order is the
// declaration order reported by the store.
type Table struct {
	Name    string
	Columns []Column
}

// Snapshot is the full introspected schema. The Tables slice is sorted by
// table name so rendering is deterministic.
type Snapshot struct {
	Tables []Table
}

// Lookup returns the table with the given name (case-insensitive) and whether
// it exists.
func (s *Snapshot) Lookup(name string) (Table, bool) {
	for _, t := range s.Tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Table{}, false
}

// TableNames returns the sorted table names.
func (s *Snapshot) TableNames() []string {
	out := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		out = append(out, t.Name)
	}
	return out
}

// Render produces the schema description block embedded into generation
// prompts: one line per column with type, nullability, and FK references.
func (s *Snapshot) Render() string {
	var b strings.Builder
	for i, t := range s.Tables {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "TABLE %s\n", t.Name)
		for _, c := range t.Columns {
			null := "NOT NULL"
			if c.Nullable {
				null = "NULL"
			}
			fmt.Fprintf(&b, "  %s %s %s", c.Name, c.Type, null)
			if c.Ref != nil {
				fmt.Fprintf(&b, " REFERENCES %s(%s)", c.Ref.Table, c.Ref.Column)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// normalize sorts tables by name so that Render output and prompt content are
// stable across introspection runs.
func normalize(tables []Table) []Table {
	out := make([]Table, len(tables))
	copy(out, tables)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
