// Package ddl maps logical column types to PostgreSQL types and renders
// CREATE TABLE statements for them.
package ddl

import (
	"fmt"

	gddl "moviesclean/internal/ddl"
)

// MapType maps a logical type to a Postgres type. Lists are stored as their
// literal text so every backend holds the same bytes.
func MapType(logical string) (string, error) {
	switch logical {
	case gddl.TypeInt:
		return "BIGINT", nil
	case gddl.TypeFloat:
		return "DOUBLE PRECISION", nil
	case gddl.TypeText, gddl.TypeList:
		return "TEXT", nil
	}
	return "", fmt.Errorf("postgres ddl: unsupported type %q", logical)
}
