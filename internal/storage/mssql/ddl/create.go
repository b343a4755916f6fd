package ddl

import (
	"fmt"
	"strings"

	gddl "moviesclean/internal/ddl"
)

// Dialect quotes identifiers with brackets. T-SQL has no CREATE TABLE IF NOT
// EXISTS, so BuildCreateTableSQL adds an OBJECT_ID guard instead.
var Dialect = gddl.Dialect{Name: "mssql ddl", Quote: gddl.QuoteBracket}

// BuildCreateTableSQL returns a script of the form
//
//	IF OBJECT_ID(N'[dbo].[movies]', N'U') IS NULL
//	BEGIN
//	CREATE TABLE [dbo].[movies] (
//	  [title] NVARCHAR(MAX) NOT NULL,
//	  ...
//	);
//	END
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	create, err := gddl.BuildCreateTableSQL(t, Dialect)
	if err != nil {
		return "", err
	}
	fqn := gddl.QuoteFQN(strings.TrimSpace(t.FQN), gddl.QuoteBracket)
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND",
		strings.ReplaceAll(fqn, "'", "''"), create), nil
}
