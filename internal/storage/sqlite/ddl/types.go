// Package ddl maps logical column types to SQLite storage classes and renders
// CREATE TABLE statements for them.
package ddl

import (
	"fmt"

	gddl "moviesclean/internal/ddl"
)

// MapType maps a logical type to a SQLite type. Lists are stored as their
// bracketed literal text.
func MapType(logical string) (string, error) {
	switch logical {
	case gddl.TypeInt:
		return "INTEGER", nil
	case gddl.TypeFloat:
		return "REAL", nil
	case gddl.TypeText, gddl.TypeList:
		return "TEXT", nil
	}
	return "", fmt.Errorf("sqlite ddl: unsupported type %q", logical)
}
