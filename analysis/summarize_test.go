package analysis

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSummarize_ShortDocReturnedVerbatim(t *testing.T) {
	in := "Patient has hypertension. Follow up in two weeks."
	got := Summarize(in)
	want := shortDocPrefix + in
	if got != want {
		t.Errorf("Summarize(short) = %q, want %q", got, want)
	}
	// The verbatim path must not run the simplifier.
	if strings.Contains(got, "high blood pressure") {
		t.Errorf("short-doc path simplified the content: %q", got)
	}
}

func TestSummarize_NoQualifyingSentences(t *testing.T) {
	// Long enough to skip the short-doc path, but every sentence is under
	// the minimum candidate length.
	in := strings.Repeat("Ok. ", 150)
	if got := Summarize(in); got != noSummaryMessage {
		t.Errorf("Summarize = %q, want %q", got, noSummaryMessage)
	}
}

func TestSummarize_PicksSixSentencesInOriginalOrder(t *testing.T) {
	sentences := make([]string, 8)
	for i := range sentences {
		sentences[i] = fmt.Sprintf(
			"Sentence number %d reports finding alpha%d beta%d and gamma%d during the visit.",
			i, i, i, i)
	}
	in := strings.Join(sentences, " ")
	if len(in) < shortDocThreshold {
		t.Fatalf("fixture too short: %d bytes", len(in))
	}

	got := Summarize(in)

	var found []int
	prev := -1
	for i, s := range sentences {
		idx := strings.Index(got, strings.TrimSuffix(s, "."))
		if idx < 0 {
			continue
		}
		if idx < prev {
			t.Errorf("sentence %d appears out of original order in %q", i, got)
		}
		prev = idx
		found = append(found, i)
	}
	if len(found) != maxSummarySentences {
		t.Errorf("summary contains %d of the sentences (%v), want %d", len(found), found, maxSummarySentences)
	}
}

func TestSummarize_FewCandidatesKeptWhole(t *testing.T) {
	// Three qualifying sentences padded past the short-doc threshold with
	// filler that fails the length filter. All three must survive.
	sentences := []string{
		"The imaging study showed no acute findings in the chest today.",
		"Laboratory values remained stable compared with the prior visit.",
		"The care team recommended continuing the current medication plan.",
	}
	in := strings.Join(sentences, " ") + " " + strings.Repeat("Ok. ", 120)

	got := Summarize(in)
	for _, s := range sentences {
		if !strings.Contains(got, s) {
			t.Errorf("summary missing qualifying sentence %q: %q", s, got)
		}
	}
}

func TestSummarize_AugmentsShortSummaryWithKeyTerms(t *testing.T) {
	// A single qualifying sentence keeps the summary under the augmentation
	// threshold, so key terms get appended.
	in := "The patient needs treatment for ongoing symptoms. " + strings.Repeat("Ok. ", 130)

	got := Summarize(in)
	if !strings.Contains(got, "Key terms: ") {
		t.Fatalf("expected key-term augmentation, got %q", got)
	}
	for _, term := range []string{"patient", "treatment", "symptoms"} {
		if !strings.Contains(got, term) {
			t.Errorf("augmented summary missing term %q: %q", term, got)
		}
	}
}

func TestSummarize_ScoringFaultReturnsFallback(t *testing.T) {
	orig := scoreCandidates
	scoreCandidates = func([]sentenceCandidate) { panic("scoring fault") }
	defer func() { scoreCandidates = orig }()

	in := strings.Repeat("This qualifying sentence is long enough to pass the filter. ", 12)
	if got := Summarize(in); got != summaryErrorMsg {
		t.Errorf("Summarize = %q, want fixed fallback %q", got, summaryErrorMsg)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"basic", "First. Second! Third?", []string{"First.", "Second!", "Third?"}},
		{"punctuation run", "Wait... really?! Yes.", []string{"Wait...", "really?!", "Yes."}},
		{"trailing fragment", "Done. trailing bit", []string{"Done.", "trailing bit"}},
		{"no terminator", "just one fragment", []string{"just one fragment"}},
		{"empty", "", nil},
		{"only punctuation", "...", []string{"..."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitSentences(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitSentences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoreCandidates_RepeatedRareTermsScoreHigher(t *testing.T) {
	cands := []sentenceCandidate{
		{text: "the common word appears here"},
		{text: "the common word appears here too"},
		{text: "zoledronate infusion zoledronate schedule"},
	}
	scoreCandidates(cands)
	if cands[2].score <= cands[0].score {
		t.Errorf("rare-term sentence scored %v, not above common sentence %v",
			cands[2].score, cands[0].score)
	}
}
