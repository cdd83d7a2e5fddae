// Package redact removes credentials and personal data from strings before
// they are logged or returned in error responses. Background jobs log store
// and SMTP errors verbatim otherwise, and those errors routinely echo
// connection strings, recipient addresses and password hashes.
package redact

import (
	"regexp"
	"strings"
)

// Placeholders substituted for redacted fragments.
const (
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedHash       = "[REDACTED_HASH]"
	RedactedJWT        = "[REDACTED_JWT]"
	RedactedEmail      = "[REDACTED_EMAIL]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules run in order; DSN credentials go first so the e-mail rule does not
// half-match "user:pass@host".
var rules = []rule{
	{regexp.MustCompile(`(?i)(postgres|postgresql|smtp|smtps)://[^@\s]+@`), RedactedCredential},
	{regexp.MustCompile(`(?i)(password|passwd|pwd|secret)([=:\s]+['"]?)[^'"&\s]{3,}`), RedactedCredential},
	{regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`), RedactedHash},
	{regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`), RedactedJWT},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), RedactedEmail},
}

// String redacts sensitive information from input.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Email masks the local part of an address, keeping its first character and
// the domain ("j***@example.com"). Inputs without an "@" are fully masked.
func Email(address string) string {
	at := strings.LastIndex(address, "@")
	if at <= 0 {
		return RedactedEmail
	}
	return address[:1] + "***" + address[at:]
}
