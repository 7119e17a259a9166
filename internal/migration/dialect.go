package migration

import (
	"strconv"
	"strings"
)

// Dialect selects placeholder and DDL differences between the SQL backends.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// Dir is the directory holding this dialect's migrations inside the embedded FS.
func (d Dialect) Dir() string {
	return string(d)
}

// Rebind rewrites "?" placeholders to "$n" for PostgreSQL.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitStatements breaks a migration file into single statements. The MySQL
// driver refuses multi-statement Exec calls unless multiStatements is set.
func splitStatements(sqlText string) []string {
	var stmts []string
	for _, part := range strings.Split(sqlText, ";") {
		var lines []string
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
