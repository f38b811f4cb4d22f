package analysis

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// LexiconEntry declares one lab test: its canonical name, the aliases it
// appears under in report text, the reference range, and the unit reported
// when the text itself carries none.
type LexiconEntry struct {
	Canonical string   `yaml:"name"`
	Aliases   []string `yaml:"aliases"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Unit      string   `yaml:"unit"`
}

// Lexicon is the ordered, read-only set of recognizable lab tests with one
// compiled matcher per entry. Declaration order is significant: extraction
// output follows it, and when two entries' alias text overlaps the earlier
// entry wins for the ambiguous span. Construct once at startup and share
// freely across concurrent pipeline invocations.
type Lexicon struct {
	entries  []LexiconEntry
	matchers []*regexp.Regexp
}

// NewLexicon compiles matchers for the given entries, preserving order.
func NewLexicon(entries []LexiconEntry) (*Lexicon, error) {
	lex := &Lexicon{
		entries:  entries,
		matchers: make([]*regexp.Regexp, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Canonical == "" {
			return nil, fmt.Errorf("lexicon entry with empty name")
		}
		re, err := compileMatcher(e)
		if err != nil {
			return nil, fmt.Errorf("compile matcher for %q: %w", e.Canonical, err)
		}
		lex.matchers = append(lex.matchers, re)
	}
	return lex, nil
}

// LoadLexicon reads a YAML list of entries from path.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	var entries []LexiconEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("lexicon %s declares no tests", path)
	}
	return NewLexicon(entries)
}

// compileMatcher builds the case-insensitive pattern for one test: any of
// {canonical, aliases} as a whole word, an optional ":", "-" or "="
// separator, a decimal number, and an optional trailing unit token.
func compileMatcher(e LexiconEntry) (*regexp.Regexp, error) {
	names := make([]string, 0, 1+len(e.Aliases))
	names = append(names, regexp.QuoteMeta(e.Canonical))
	for _, a := range e.Aliases {
		names = append(names, regexp.QuoteMeta(a))
	}
	pattern := `(?i)\b(?:` + strings.Join(names, "|") + `)\b\s*[:=-]?\s*(\d+(?:\.\d+)?)\s*([A-Za-z%][A-Za-z0-9/%^]*)?`
	return regexp.Compile(pattern)
}

func ptr(f float64) *float64 { return &f }

// defaultEntries is the built-in test catalog. Ranges are general adult
// reference intervals; deployments with their own lab conventions override
// the whole table via LoadLexicon.
var defaultEntries = []LexiconEntry{
	{Canonical: "hemoglobin", Aliases: []string{"hb", "hgb"}, Min: ptr(12), Max: ptr(17), Unit: "g/dL"},
	{Canonical: "white blood cell count", Aliases: []string{"wbc", "white blood cells", "total leukocyte count"}, Min: ptr(4.5), Max: ptr(11), Unit: "10^3/uL"},
	{Canonical: "red blood cell count", Aliases: []string{"rbc", "red blood cells"}, Min: ptr(4.2), Max: ptr(5.9), Unit: "10^6/uL"},
	{Canonical: "platelet count", Aliases: []string{"platelets", "plt"}, Min: ptr(150), Max: ptr(450), Unit: "10^3/uL"},
	{Canonical: "hematocrit", Aliases: []string{"hct", "pcv"}, Min: ptr(36), Max: ptr(50), Unit: "%"},
	{Canonical: "glucose", Aliases: []string{"blood glucose", "blood sugar", "fasting glucose", "fbs"}, Min: ptr(70), Max: ptr(100), Unit: "mg/dL"},
	{Canonical: "total cholesterol", Aliases: []string{"cholesterol"}, Min: ptr(125), Max: ptr(200), Unit: "mg/dL"},
	{Canonical: "triglycerides", Aliases: []string{"tg"}, Min: ptr(50), Max: ptr(150), Unit: "mg/dL"},
	{Canonical: "hdl cholesterol", Aliases: []string{"hdl"}, Min: ptr(40), Max: ptr(60), Unit: "mg/dL"},
	{Canonical: "ldl cholesterol", Aliases: []string{"ldl"}, Min: ptr(50), Max: ptr(100), Unit: "mg/dL"},
	{Canonical: "creatinine", Aliases: []string{"serum creatinine"}, Min: ptr(0.6), Max: ptr(1.3), Unit: "mg/dL"},
	{Canonical: "blood urea nitrogen", Aliases: []string{"bun", "urea"}, Min: ptr(7), Max: ptr(20), Unit: "mg/dL"},
	{Canonical: "tsh", Aliases: []string{"thyroid stimulating hormone"}, Min: ptr(0.4), Max: ptr(4.0), Unit: "mIU/L"},
	{Canonical: "vitamin d", Aliases: []string{"25-oh vitamin d", "vitamin d3"}, Min: ptr(20), Max: ptr(50), Unit: "ng/mL"},
	{Canonical: "vitamin b12", Aliases: []string{"b12"}, Min: ptr(200), Max: ptr(900), Unit: "pg/mL"},
	{Canonical: "esr", Aliases: []string{"erythrocyte sedimentation rate"}, Min: ptr(0), Max: ptr(20), Unit: "mm/hr"},
}

var defaultLexicon = func() *Lexicon {
	lex, err := NewLexicon(defaultEntries)
	if err != nil {
		panic(err)
	}
	return lex
}()

// DefaultLexicon returns the built-in test catalog. The returned value is
// shared and must not be mutated.
func DefaultLexicon() *Lexicon { return defaultLexicon }

// Len returns the number of declared tests.
func (l *Lexicon) Len() int { return len(l.entries) }
