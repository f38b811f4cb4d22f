package analysis

import (
	"strconv"
	"strings"
)

// span is a claimed half-open region of the scanned text.
type span struct{ start, end int }

func (s span) overlaps(o span) bool { return s.start < o.end && o.start < s.end }

// ExtractReadings scans normalized text against the lexicon and returns one
// classified reading per recognized test. For each test only its first
// unclaimed match in the text counts; a test with no match contributes
// nothing. When two tests' alias text overlaps on the same span, the test
// declared earlier in the lexicon wins and the later one moves on to its
// next match. Output order equals lexicon declaration order, not match
// position in the text.
func ExtractReadings(text string, lex *Lexicon) []TestReading {
	readings := make([]TestReading, 0, len(lex.entries))
	var claimed []span

	for i, entry := range lex.entries {
		for _, m := range lex.matchers[i].FindAllStringSubmatchIndex(text, -1) {
			matched := span{m[0], m[1]}
			if overlapsAny(matched, claimed) {
				continue
			}

			value, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
			if err != nil {
				continue
			}
			unit := entry.Unit
			if m[4] >= 0 {
				unit = text[m[4]:m[5]]
			}

			ref := ReferenceRange{Min: entry.Min, Max: entry.Max}
			readings = append(readings, TestReading{
				Name:           titleCase(entry.Canonical),
				Value:          value,
				Unit:           unit,
				ReferenceRange: ref,
				Status:         classifyStatus(value, ref),
			})
			claimed = append(claimed, matched)
			break
		}
	}
	return readings
}

func overlapsAny(s span, claimed []span) bool {
	for _, c := range claimed {
		if s.overlaps(c) {
			return true
		}
	}
	return false
}

// titleCase capitalizes the first letter of each space-separated word.
// Lexicon names are plain ASCII, so no locale handling is needed.
func titleCase(name string) string {
	words := strings.Split(name, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
