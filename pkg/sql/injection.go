package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a SQL injection pattern detected in a
// user-supplied question.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if a SQL injection pattern was detected
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckQuestionForInjection runs libinjection's SQLi detector over the raw
// question text. Questions that fingerprint as injection payloads (quote
// breaking, stacked statements, comment smuggling) are rejected before any
// completion-endpoint spend. Plain natural language, including questions
// that merely mention destructive operations, does not fingerprint.
//
// Returns nil when no injection is detected.
func CheckQuestionForInjection(questionText string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(questionText)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
	}
}
