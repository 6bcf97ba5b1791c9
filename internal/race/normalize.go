// Package race implements the race engine: text normalization, the
// character diff, metric derivation, and the session state machine.
package race

import "strings"

// Normalize canonicalizes snippet text or user input for comparison. The
// literal two-character "\n" escape becomes a real line break, and CRLF or
// lone CR collapse to a single newline. Idempotent; both operands of a
// comparison must pass through it.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}
