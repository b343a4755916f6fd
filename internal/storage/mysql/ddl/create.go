package ddl

import gddl "moviesclean/internal/ddl"

// Dialect quotes identifiers with backticks and uses IF NOT EXISTS.
var Dialect = gddl.Dialect{Name: "mysql ddl", Quote: gddl.QuoteBacktick, IfNotExists: true}

// BuildCreateTableSQL renders an idempotent utf8mb4 CREATE TABLE for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	stmt, err := gddl.BuildCreateTableSQL(t, Dialect)
	if err != nil {
		return "", err
	}
	return stmt[:len(stmt)-1] + " DEFAULT CHARSET=utf8mb4;", nil
}
