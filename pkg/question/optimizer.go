// Package question normalizes free-text questions before prompt assembly.
package question

import (
	"regexp"
	"strings"
)

// shorthand maps common abbreviations to their expansions. Replacement is
// word-boundary-aware so "avg" never matches inside an unrelated token.
var shorthand = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\bprdct\b`), "product"},
	{regexp.MustCompile(`\busr\b`), "user"},
	{regexp.MustCompile(`\bordr\b`), "order"},
	{regexp.MustCompile(`\bcnt\b`), "count"},
	{regexp.MustCompile(`\bavg\b`), "average"},
	{regexp.MustCompile(`\bamt\b`), "amount"},
}

// Optimize normalizes a user question: trims whitespace, expands the fixed
// shorthand table, and appends a trailing "?" when absent. The function is
// pure and idempotent; applying it twice never yields "??".
func Optimize(q string) string {
	q = strings.TrimSpace(q)

	for _, s := range shorthand {
		q = s.pattern.ReplaceAllString(q, s.replacement)
	}

	if len(q) == 0 || q[len(q)-1] != '?' {
		q += "?"
	}

	return q
}
