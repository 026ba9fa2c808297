package sql

import "strings"

// reservedKeywords are the data-modifying keywords rejected unless the
// request explicitly allows modifications.
var reservedKeywords = []string{"DROP", "DELETE", "ALTER", "INSERT", "UPDATE"}

// Validate performs a conservative static safety check on generated SQL.
// The input is sanitized (comments and trailing narrative stripped), then
// tokenized with a string-literal-aware lexer; keyword matching happens per
// token, never on the raw string, so content inside literals cannot trigger
// a rejection. Returns false iff allowModifications is false and any token
// contains a reserved keyword (case-insensitive).
//
// This is a deny-list heuristic, not a grammar-based safety proof. It is a
// safety net against obviously destructive statements, not a guarantee of
// injection-proofness.
func Validate(sqlQuery string, allowModifications bool) bool {
	if allowModifications {
		return true
	}

	for _, token := range Tokenize(Sanitize(sqlQuery)) {
		upper := strings.ToUpper(token)
		for _, kw := range reservedKeywords {
			if strings.Contains(upper, kw) {
				return false
			}
		}
	}

	return true
}

// Tokenize splits SQL into word and literal tokens. String literals are kept
// as single tokens (quotes included) so keyword matching never fires on
// their contents.
func Tokenize(sqlQuery string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	state := stateNormal
	for _, c := range sqlQuery {
		switch state {
		case stateNormal:
			switch {
			case c == '\'':
				flush()
				current.WriteRune(c)
				state = stateSingleQuote
			case c == '"':
				flush()
				current.WriteRune(c)
				state = stateDoubleQuote
			case isTokenBoundary(c):
				flush()
			default:
				current.WriteRune(c)
			}
		case stateSingleQuote:
			current.WriteRune(c)
			if c == '\'' {
				state = stateNormal
				flush()
			}
		case stateDoubleQuote:
			current.WriteRune(c)
			if c == '"' {
				state = stateNormal
				flush()
			}
		}
	}
	flush()

	// Literal tokens are excluded from keyword matching entirely.
	filtered := tokens[:0]
	for _, t := range tokens {
		if strings.HasPrefix(t, "'") || strings.HasPrefix(t, "\"") {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

func isTokenBoundary(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', ',', ';', '=', '<', '>', '+', '*', '/':
		return true
	}
	return false
}

// IsSelect reports whether the statement is a read, by trimmed
// case-insensitive prefix check. Only SELECT results are cache-eligible.
func IsSelect(sqlQuery string) bool {
	trimmed := strings.TrimSpace(sqlQuery)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "SELECT")
}
