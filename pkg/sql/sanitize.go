// Package sql provides SQL sanitization and safety validation for
// generator output before it reaches the target database.
package sql

import "strings"

// Sanitize strips SQL comments and trailing narrative text from generator
// output. Line comments (-- ...) and block comments (/* ... */) are removed
// outside string literals; text after the final semicolon that does not look
// like SQL is dropped. Idempotent and tolerant of already-clean input.
func Sanitize(sqlQuery string) string {
	cleaned := stripComments(sqlQuery)
	cleaned = stripTrailingNarrative(cleaned)
	return strings.TrimSpace(cleaned)
}

const (
	stateNormal = iota
	stateSingleQuote
	stateDoubleQuote
	stateLineComment
	stateBlockComment
)

// stripComments removes -- line comments and /* */ block comments while
// respecting single- and double-quoted literals (including the SQL standard
// doubled-quote escape).
func stripComments(sqlQuery string) string {
	var out strings.Builder
	out.Grow(len(sqlQuery))

	state := stateNormal
	runes := []rune(sqlQuery)

	for i := 0; i < len(runes); i++ {
		c := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case stateNormal:
			switch {
			case c == '-' && next == '-':
				state = stateLineComment
				i++
			case c == '/' && next == '*':
				state = stateBlockComment
				i++
			case c == '\'':
				state = stateSingleQuote
				out.WriteRune(c)
			case c == '"':
				state = stateDoubleQuote
				out.WriteRune(c)
			default:
				out.WriteRune(c)
			}
		case stateSingleQuote:
			out.WriteRune(c)
			if c == '\'' {
				// Doubled quote stays inside the literal
				if next == '\'' {
					out.WriteRune(next)
					i++
				} else {
					state = stateNormal
				}
			}
		case stateDoubleQuote:
			out.WriteRune(c)
			if c == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if c == '\n' {
				state = stateNormal
				out.WriteRune(c)
			}
		case stateBlockComment:
			if c == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return out.String()
}

// sqlLeadKeywords are statement openers; a trailing line that starts with
// none of them (and contains no SQL punctuation) is treated as narrative
// text appended by the generator.
var sqlLeadKeywords = []string{
	"SELECT", "WITH", "INSERT", "UPDATE", "DELETE", "DROP", "ALTER",
	"CREATE", "TRUNCATE", "EXPLAIN", "VALUES", "FROM", "WHERE", "GROUP",
	"ORDER", "HAVING", "LIMIT", "OFFSET", "JOIN", "LEFT", "RIGHT", "INNER",
	"OUTER", "UNION", "ON", "AND", "OR", "SET", "INTO", "AS", "CASE",
	"WHEN", "THEN", "ELSE", "END",
}

// stripTrailingNarrative drops trailing lines that follow the final
// semicolon and do not look like SQL. Generators occasionally append prose
// such as "This query counts all users." after the statement.
func stripTrailingNarrative(sqlQuery string) string {
	idx := lastSemicolonOutsideStrings(sqlQuery)
	if idx < 0 {
		return sqlQuery
	}

	trailing := sqlQuery[idx+1:]
	if strings.TrimSpace(trailing) == "" {
		return sqlQuery
	}
	if looksLikeSQL(trailing) {
		return sqlQuery
	}
	return sqlQuery[:idx+1]
}

// looksLikeSQL reports whether a fragment begins with a SQL keyword.
func looksLikeSQL(fragment string) bool {
	fields := strings.Fields(strings.ToUpper(fragment))
	if len(fields) == 0 {
		return false
	}
	first := strings.Trim(fields[0], "();,")
	for _, kw := range sqlLeadKeywords {
		if first == kw {
			return true
		}
	}
	return false
}

// lastSemicolonOutsideStrings returns the index of the last semicolon not
// inside a string literal, or -1.
func lastSemicolonOutsideStrings(sqlQuery string) int {
	state := stateNormal
	last := -1

	for i, c := range sqlQuery {
		switch state {
		case stateNormal:
			switch c {
			case ';':
				last = i
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			if c == '\'' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if c == '"' {
				state = stateNormal
			}
		}
	}

	return last
}
