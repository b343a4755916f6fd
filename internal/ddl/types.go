package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes a single column in a table definition. Names are
// unquoted; quoting happens at render time.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
	Default  string // raw SQL expression
}

// TableDef holds the fully-qualified table name (dotted, e.g. "schema.table")
// and an ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Logical column types understood by every backend's MapType.
const (
	TypeText  = "text"
	TypeInt   = "int"
	TypeFloat = "float"
	TypeList  = "list"
)

// Field is a destination column described by its logical type.
type Field struct {
	Name     string
	Type     string
	Required bool // rendered NOT NULL
}

// MapTypeFunc maps a logical type to a backend SQL type.
type MapTypeFunc func(logical string) (string, error)

// FromFields builds a TableDef for fqn, mapping every field type through
// mapType. Field order is preserved.
func FromFields(fqn string, fields []Field, mapType MapTypeFunc) (TableDef, error) {
	td := TableDef{FQN: strings.TrimSpace(fqn)}
	for _, f := range fields {
		typ, err := mapType(f.Type)
		if err != nil {
			return TableDef{}, fmt.Errorf("ddl: column %s: %w", f.Name, err)
		}
		td.Columns = append(td.Columns, ColumnDef{
			Name:     f.Name,
			SQLType:  typ,
			Nullable: !f.Required,
		})
	}
	return td, nil
}
