package analysis

import (
	"regexp"
	"strings"
)

var (
	newlineRunRe    = regexp.MustCompile(`\n{3,}`)
	nonPrintableRe  = regexp.MustCompile("[^\x20-\x7e\t\n]")
	whitespaceRunRe = regexp.MustCompile(`[ \t\n]{2,}`)
)

// Normalize collapses whitespace and control noise from raw extracted text
// into a canonical plain-text form. It is pure, total and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
//
// Steps, in order: runs of 3+ newlines become exactly 2 (paragraph break
// preserved); every rune outside printable ASCII plus tab/newline becomes a
// single space; any other run of 2+ whitespace collapses to one space, with
// runs around a double newline keeping the paragraph break; leading and
// trailing whitespace is trimmed.
func Normalize(raw string) string {
	text := newlineRunRe.ReplaceAllString(raw, "\n\n")
	text = nonPrintableRe.ReplaceAllString(text, " ")
	text = whitespaceRunRe.ReplaceAllStringFunc(text, func(run string) string {
		if strings.Contains(run, "\n\n") {
			return "\n\n"
		}
		return " "
	})
	return strings.TrimSpace(text)
}
