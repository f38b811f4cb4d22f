package analysis

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Fixed user-facing strings. Callers and tests key on these exact values.
const (
	shortDocPrefix   = "This document is quite short. Here's the content: "
	noSummaryMessage = "We could not generate a summary for this document."
	summaryErrorMsg  = "An error occurred while generating the summary."
)

const (
	shortDocThreshold   = 500
	minSentenceLen      = 20
	maxSentenceLen      = 300
	maxSummarySentences = 6
	augmentThreshold    = 100
)

var wordRe = regexp.MustCompile(`[A-Za-z0-9]+`)

// sentenceCandidate is a filtered sentence awaiting scoring. Transient:
// created during one Summarize call and discarded after selection.
type sentenceCandidate struct {
	text          string
	originalIndex int
	score         float64
}

// Summarize produces a bounded-length plain-language summary of text by
// ranking sentences with TF-IDF and keeping the best six in their original
// order. Short inputs are returned verbatim behind a fixed prefix. Any
// unexpected fault during scoring degrades to a fixed fallback message
// instead of propagating.
func Summarize(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = summaryErrorMsg
		}
	}()

	if len(text) < shortDocThreshold {
		return shortDocPrefix + text
	}

	sentences := splitSentences(text)
	candidates := make([]sentenceCandidate, 0, len(sentences))
	for i, s := range sentences {
		collapsed := collapseSpaces(s)
		if n := len(collapsed); n >= minSentenceLen && n < maxSentenceLen {
			candidates = append(candidates, sentenceCandidate{text: collapsed, originalIndex: i})
		}
	}
	if len(candidates) == 0 {
		return noSummaryMessage
	}

	scoreCandidates(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	top := candidates
	if len(top) > maxSummarySentences {
		top = top[:maxSummarySentences]
	}
	sort.Slice(top, func(i, j int) bool {
		return top[i].originalIndex < top[j].originalIndex
	})

	parts := make([]string, len(top))
	for i, c := range top {
		parts[i] = c.text
	}
	summary := strings.Join(parts, " ")

	if len(summary) < augmentThreshold {
		if terms := KeyTerms(text); len(terms) > 0 {
			summary += " Key terms: " + strings.Join(terms, ", ") + "."
		}
	}

	return Simplify(summary)
}

// splitSentences cuts text greedily on sentence-terminal punctuation.
// Abbreviations get no special handling: "Dr. Smith" splits after "Dr.".
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			// Swallow a run of terminal punctuation ("...", "?!").
			end := i + 1
			for end < len(text) && (text[end] == '.' || text[end] == '!' || text[end] == '?') {
				end++
			}
			if s := strings.TrimSpace(text[start:end]); s != "" {
				sentences = append(sentences, s)
			}
			start = end
			i = end - 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// scoreCandidates assigns each sentence a length-normalized TF-IDF score.
// The candidate list itself is the corpus: each sentence counts as one
// corpus document, so document frequency is measured within this single
// report rather than across independent documents. Changing that would
// change rankings. Declared as a variable so tests can inject a scoring
// fault against the recover path in Summarize.
var scoreCandidates = func(candidates []sentenceCandidate) {
	tokens := make([][]string, len(candidates))
	df := make(map[string]int)
	for i, c := range candidates {
		tokens[i] = stemTokens(c.text)
		seen := make(map[string]bool, len(tokens[i]))
		for _, tk := range tokens[i] {
			if !seen[tk] {
				seen[tk] = true
				df[tk]++
			}
		}
	}

	n := float64(len(candidates))
	idf := make(map[string]float64, len(df))
	for tk, d := range df {
		idf[tk] = math.Log(n/float64(1+d)) + 1
	}

	for i := range candidates {
		toks := tokens[i]
		if len(toks) == 0 {
			continue
		}
		tf := make(map[string]int, len(toks))
		for _, tk := range toks {
			tf[tk]++
		}
		var sum float64
		for _, tk := range toks {
			sum += float64(tf[tk]) * idf[tk]
		}
		candidates[i].score = sum / float64(len(toks))
	}
}

func stemTokens(s string) []string {
	words := wordRe.FindAllString(strings.ToLower(s), -1)
	stems := make([]string, len(words))
	for i, w := range words {
		stems[i] = english.Stem(w, true)
	}
	return stems
}
