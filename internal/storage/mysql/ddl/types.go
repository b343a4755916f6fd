// Package ddl maps logical column types to MySQL types and renders CREATE
// TABLE statements for them.
package ddl

import (
	"fmt"

	gddl "moviesclean/internal/ddl"
)

// MapType maps a logical type to a MySQL type. Text uses LONGTEXT since
// descriptions and list literals have no useful upper bound.
func MapType(logical string) (string, error) {
	switch logical {
	case gddl.TypeInt:
		return "BIGINT", nil
	case gddl.TypeFloat:
		return "DOUBLE", nil
	case gddl.TypeText, gddl.TypeList:
		return "LONGTEXT", nil
	}
	return "", fmt.Errorf("mysql ddl: unsupported type %q", logical)
}
