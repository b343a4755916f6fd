package ddl

import gddl "moviesclean/internal/ddl"

// Dialect quotes identifiers with double quotes and uses IF NOT EXISTS.
var Dialect = gddl.Dialect{Name: "postgres ddl", Quote: gddl.QuoteDouble, IfNotExists: true}

// BuildCreateTableSQL renders an idempotent CREATE TABLE for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, Dialect)
}
