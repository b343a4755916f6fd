// Package ddl provides SQL Server helpers for generating CREATE TABLE
// statements from the generic ddl model.
package ddl

import (
	"fmt"

	gddl "moviesclean/internal/ddl"
)

// MapType maps a logical type to a SQL Server type. NVARCHAR keeps non-Latin
// titles and names intact.
func MapType(logical string) (string, error) {
	switch logical {
	case gddl.TypeInt:
		return "BIGINT", nil
	case gddl.TypeFloat:
		return "FLOAT(53)", nil
	case gddl.TypeText, gddl.TypeList:
		return "NVARCHAR(MAX)", nil
	}
	return "", fmt.Errorf("mssql ddl: unsupported type %q", logical)
}
