package analysis

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

const maxKeyTerms = 5

// medicalStemHints mark a stemmed token as clinically salient when any of
// them appears as a substring of the stem.
var medicalStemHints = []string{
	"diagnos", "prescript", "treatment", "test", "result",
	"condition", "patient", "mg", "dose", "symptom",
}

// KeyTerms picks up to five clinically salient terms from normalized report
// text, in order of first appearance. Tokens longer than five characters are
// stemmed and checked against the hint list; the surface form is recovered
// from the source text with a word-boundary lookup so the reported term
// keeps its original casing.
func KeyTerms(text string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, tok := range wordRe.FindAllString(text, -1) {
		if len(tok) <= 5 {
			continue
		}
		stem := english.Stem(strings.ToLower(tok), true)
		if !hasMedicalHint(stem) {
			continue
		}
		surface := surfaceForm(text, tok)
		key := strings.ToLower(surface)
		if seen[key] {
			continue
		}
		seen[key] = true
		terms = append(terms, surface)
		if len(terms) == maxKeyTerms {
			break
		}
	}
	return terms
}

func hasMedicalHint(stem string) bool {
	for _, hint := range medicalStemHints {
		if strings.Contains(stem, hint) {
			return true
		}
	}
	return false
}

func surfaceForm(text, token string) string {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
	if err != nil {
		return token
	}
	if m := re.FindString(text); m != "" {
		return m
	}
	return token
}
