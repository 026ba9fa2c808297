package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_StripsLineComments(t *testing.T) {
	got := Sanitize("SELECT 1 -- trailing comment\nFROM t")
	assert.Equal(t, "SELECT 1 \nFROM t", got)
}

func TestSanitize_StripsBlockComments(t *testing.T) {
	got := Sanitize("SELECT /* inline */ 1 FROM t")
	assert.Equal(t, "SELECT  1 FROM t", got)
}

func TestSanitize_PreservesCommentMarkersInLiterals(t *testing.T) {
	got := Sanitize("SELECT '--not a comment' FROM t")
	assert.Equal(t, "SELECT '--not a comment' FROM t", got)

	got = Sanitize("SELECT 'a /* b */ c' FROM t")
	assert.Equal(t, "SELECT 'a /* b */ c' FROM t", got)
}

func TestSanitize_HandlesDoubledQuoteEscape(t *testing.T) {
	got := Sanitize("SELECT 'it''s -- fine' FROM t")
	assert.Equal(t, "SELECT 'it''s -- fine' FROM t", got)
}

func TestSanitize_DropsTrailingNarrative(t *testing.T) {
	input := "SELECT COUNT(*) FROM users;\nThis query counts all users."
	assert.Equal(t, "SELECT COUNT(*) FROM users;", Sanitize(input))
}

func TestSanitize_KeepsTrailingSQL(t *testing.T) {
	// A second statement after the semicolon is SQL, not narrative. The
	// validator decides its fate, not the sanitizer.
	input := "SELECT 1; SELECT 2"
	assert.Equal(t, "SELECT 1; SELECT 2", Sanitize(input))
}

func TestSanitize_SemicolonInsideLiteral(t *testing.T) {
	input := "SELECT 'a;b' FROM t"
	assert.Equal(t, "SELECT 'a;b' FROM t", Sanitize(input))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"SELECT 1 -- c\nFROM t;\nSome prose here.",
		"SELECT /* x */ name FROM users;",
		"  SELECT 1  ",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once))
	}
}

func TestSanitize_AlreadyClean(t *testing.T) {
	clean := "SELECT name, price FROM products WHERE price > 10"
	assert.Equal(t, clean, Sanitize(clean))
}
