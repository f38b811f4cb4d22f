package analysis

import "regexp"

// glossEntry pairs a complex clinical term with its lay-language phrase and
// a compiled whole-word matcher.
type glossEntry struct {
	term string
	lay  string
	re   *regexp.Regexp
}

func newGloss(term, lay string) glossEntry {
	return glossEntry{
		term: term,
		lay:  lay,
		re:   regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
	}
}

// glossary is the fixed simplification dictionary. The term set is
// non-overlapping and no lay phrase contains another glossary term, so
// application order does not affect the output.
var glossary = []glossEntry{
	newGloss("hypertension", "high blood pressure"),
	newGloss("hypotension", "low blood pressure"),
	newGloss("hyperglycemia", "high blood sugar"),
	newGloss("hypoglycemia", "low blood sugar"),
	newGloss("hyperlipidemia", "high cholesterol"),
	newGloss("tachycardia", "fast heart rate"),
	newGloss("bradycardia", "slow heart rate"),
	newGloss("anemia", "low red blood cell count"),
	newGloss("thrombocytopenia", "low platelet count"),
	newGloss("leukocytosis", "high white blood cell count"),
	newGloss("edema", "swelling"),
	newGloss("dyspnea", "shortness of breath"),
	newGloss("pruritus", "itching"),
	newGloss("myocardial infarction", "heart attack"),
	newGloss("cerebrovascular accident", "stroke"),
	newGloss("febrile", "feverish"),
}

// Simplify annotates complex clinical terms with lay-language glosses:
// every whole-word, case-insensitive occurrence of a glossary term becomes
// "<lay phrase> (<term>)". Pure and total.
func Simplify(text string) string {
	for _, g := range glossary {
		text = g.re.ReplaceAllString(text, g.lay+" ("+g.term+")")
	}
	return text
}
