// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE TABLE statements from that model.
//
// Backends supply a Dialect with their identifier quoting; the T-SQL backend
// wraps the rendered statement in its own existence guard.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect controls how BuildCreateTableSQL renders identifiers.
type Dialect struct {
	// Name prefixes error messages, e.g. "postgres ddl".
	Name string

	// Quote quotes a single identifier part.
	Quote func(string) string

	// IfNotExists adds IF NOT EXISTS after CREATE TABLE.
	IfNotExists bool
}

// QuoteDouble quotes an identifier ANSI style: "name", doubling embedded quotes.
func QuoteDouble(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// QuoteBacktick quotes a MySQL identifier: `name`.
func QuoteBacktick(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// QuoteBracket quotes a T-SQL identifier: [name].
func QuoteBracket(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// QuoteFQN quotes every dotted part of name with quote.
func QuoteFQN(name string, quote func(string) string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quote(strings.TrimSpace(p))
	}
	return strings.Join(parts, ".")
}

// QuoteAll quotes each identifier in ids.
func QuoteAll(ids []string, quote func(string) string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = quote(id)
	}
	return out
}

// BuildCreateTableSQL renders a CREATE TABLE statement for t:
//
//	CREATE TABLE [IF NOT EXISTS] <fqn> (
//	  <col> <type> [NOT NULL] [DEFAULT <expr>],
//	  ...
//	);
//
// The FQN and every column name and type must be non-empty. Without a Quote
// function identifiers are emitted verbatim.
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	name := d.Name
	if name == "" {
		name = "ddl"
	}
	quote := d.Quote
	if quote == nil {
		quote = func(s string) string { return s }
	}

	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s: table FQN must not be empty", name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s: at least one column is required", name)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		col := strings.TrimSpace(c.Name)
		if col == "" {
			return "", fmt.Errorf("%s: column with empty name in table %s", name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s: column %s missing SQLType", name, col)
		}

		var sb strings.Builder
		sb.WriteString(quote(col))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())
	}

	head := "CREATE TABLE "
	if d.IfNotExists {
		head += "IF NOT EXISTS "
	}
	return fmt.Sprintf("%s%s (\n  %s\n);", head, QuoteFQN(fqn, quote), strings.Join(cols, ",\n  ")), nil
}
