// Package redact strips credentials, tokens, connection strings, file paths
// and SQL from text before it is logged or returned to a client.
package redact

import (
	"log/slog"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedHashPlaceholder       = "[REDACTED_HASH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
	RedactedStackPlaceholder      = "[STACK_TRACE_REDACTED]"
)

// rule pairs a pattern with the text that replaces each match.
type rule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order. Token and DSN rules come before the generic key and
// host rules so the more specific placeholder wins.
var rules = []rule{
	{
		name:        "stack_trace",
		pattern:     regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: RedactedStackPlaceholder,
	},
	{
		name:        "dsn_userinfo",
		pattern:     regexp.MustCompile(`(?i)\b(?:postgres(?:ql)?|mysql|sqlite3?|file|db|database)://[^@\s/]+@`),
		replacement: RedactedCredentialPlaceholder,
	},
	{
		name:        "bearer",
		pattern:     regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`),
		replacement: "Bearer " + RedactedTokenPlaceholder,
	},
	{
		name:        "jwt",
		pattern:     regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		replacement: RedactedTokenPlaceholder,
	},
	{
		name:        "bcrypt",
		pattern:     regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		replacement: RedactedHashPlaceholder,
	},
	{
		name:        "password",
		pattern:     regexp.MustCompile(`(?i)\b(?:password|passwd|pwd)(?:\s*[=:]\s*|\s+)['"]?[^'"&\s]+`),
		replacement: RedactedCredentialPlaceholder,
	},
	{
		name:        "secret",
		pattern:     regexp.MustCompile(`(?i)\b(?:api[_-]?key|jwt[_-]?secret|secret|token|access[_-]?key)(?:['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		replacement: RedactedKeyPlaceholder,
	},
	{
		name:        "sql",
		pattern:     regexp.MustCompile(`(?i)\b(?:SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\b[\s\w,*()$."]+\b(?:FROM|INTO|SET|TABLE)\b[^;\n]*`),
		replacement: RedactedSQLPlaceholder,
	},
	{
		name:        "unix_path",
		pattern:     regexp.MustCompile(`(?:/[\w.-]+){2,}`),
		replacement: RedactedPathPlaceholder,
	},
	{
		name:        "windows_path",
		pattern:     regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(?:\\[^\\\s]+)+`),
		replacement: RedactedPathPlaceholder,
	},
	{
		name:        "host",
		pattern:     regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`),
		replacement: RedactedHostPlaceholder,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllLiteralString(result, r.replacement)
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

// Attr returns err as a redacted "error" log attribute.
func Attr(err error) slog.Attr {
	return slog.String("error", Error(err))
}
