package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckQuestionForInjection_NaturalLanguagePasses(t *testing.T) {
	questions := []string{
		"How many users signed up last month?",
		"What is the average order amount?",
		"Which products have no reviews?",
	}
	for _, q := range questions {
		assert.Nil(t, CheckQuestionForInjection(q), "question %q should pass", q)
	}
}

func TestCheckQuestionForInjection_MentioningOperationsPasses(t *testing.T) {
	// Talking about destructive operations is not the same as injecting
	// them; the deny-list validator handles generated SQL separately.
	assert.Nil(t, CheckQuestionForInjection("How many rows were deleted yesterday?"))
}

func TestCheckQuestionForInjection_DetectsPayloads(t *testing.T) {
	payloads := []string{
		"' OR 1=1 --",
		"1'; DROP TABLE users; --",
		"\" UNION SELECT password FROM users --",
	}
	for _, p := range payloads {
		result := CheckQuestionForInjection(p)
		if assert.NotNil(t, result, "payload %q should be detected", p) {
			assert.True(t, result.IsSQLi)
			assert.NotEmpty(t, result.Fingerprint)
		}
	}
}
