package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubExtractor returns canned text or an error and records the maxPages it
// was asked for.
type stubExtractor struct {
	text     string
	err      error
	maxPages int
}

func (s *stubExtractor) ExtractText(_ string, maxPages int) (string, error) {
	s.maxPages = maxPages
	return s.text, s.err
}

func tempDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 stub"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertRemoved(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp file %s still exists after Process", path)
	}
}

func TestProcess_Success(t *testing.T) {
	path := tempDoc(t)
	pipe := New(Config{Extractor: &stubExtractor{
		text: "Routine visit notes. Hemoglobin: 10.5 g/dL measured today.",
	}})

	res := pipe.Process(context.Background(), path)

	if res.Outcome != OutcomeOK {
		t.Errorf("outcome = %q, want ok", res.Outcome)
	}
	if len(res.TestResults) != 1 || res.TestResults[0].Name != "Hemoglobin" {
		t.Errorf("test results = %+v, want one Hemoglobin reading", res.TestResults)
	}
	if !strings.HasPrefix(res.Summary, shortDocPrefix) {
		t.Errorf("summary = %q, want short-doc prefix", res.Summary)
	}
	assertRemoved(t, path)
}

func TestProcess_ExtractionError(t *testing.T) {
	path := tempDoc(t)
	pipe := New(Config{Extractor: &stubExtractor{err: errors.New("bad xref table")}})

	res := pipe.Process(context.Background(), path)

	if res.Outcome != OutcomeParseFailure {
		t.Errorf("outcome = %q, want parse_failure", res.Outcome)
	}
	if res.Summary != parseFailureMessage {
		t.Errorf("summary = %q, want fixed parse-failure message", res.Summary)
	}
	if res.TestResults == nil || len(res.TestResults) != 0 {
		t.Errorf("test results = %#v, want empty non-nil slice", res.TestResults)
	}
	assertRemoved(t, path)
}

func TestProcess_EmptyContent(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		path := tempDoc(t)
		pipe := New(Config{Extractor: &stubExtractor{text: text}})

		res := pipe.Process(context.Background(), path)

		if res.Outcome != OutcomeEmptyContent {
			t.Errorf("text %q: outcome = %q, want empty_content", text, res.Outcome)
		}
		if res.Summary != emptyContentMessage {
			t.Errorf("text %q: summary = %q, want fixed empty-content message", text, res.Summary)
		}
		assertRemoved(t, path)
	}
}

func TestProcess_SummaryFaultKeepsReadings(t *testing.T) {
	orig := scoreCandidates
	scoreCandidates = func([]sentenceCandidate) { panic("scoring fault") }
	defer func() { scoreCandidates = orig }()

	path := tempDoc(t)
	text := "Hemoglobin: 10.5 g/dL was measured during the admission. " +
		strings.Repeat("The remaining narrative repeats itself at considerable length here. ", 10)
	pipe := New(Config{Extractor: &stubExtractor{text: text}})

	res := pipe.Process(context.Background(), path)

	if res.Outcome != OutcomeSummaryFallback {
		t.Errorf("outcome = %q, want summary_fallback", res.Outcome)
	}
	if res.Summary != summaryErrorMsg {
		t.Errorf("summary = %q, want fixed fallback message", res.Summary)
	}
	if len(res.TestResults) != 1 || res.TestResults[0].Name != "Hemoglobin" {
		t.Errorf("test results = %+v, want the Hemoglobin reading to survive", res.TestResults)
	}
	assertRemoved(t, path)
}

func TestProcess_NoExtractorIsParseFailure(t *testing.T) {
	path := tempDoc(t)
	pipe := New(Config{})

	res := pipe.Process(context.Background(), path)

	if res.Outcome != OutcomeParseFailure {
		t.Errorf("outcome = %q, want parse_failure", res.Outcome)
	}
	assertRemoved(t, path)
}

func TestProcess_MissingTempFileTolerated(t *testing.T) {
	pipe := New(Config{Extractor: &stubExtractor{text: "Hemoglobin: 14 g/dL"}})

	// Path never existed; cleanup must not panic or alter the result.
	res := pipe.Process(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))
	if res.Outcome != OutcomeOK {
		t.Errorf("outcome = %q, want ok", res.Outcome)
	}
}

func TestProcess_DefaultMaxPages(t *testing.T) {
	ext := &stubExtractor{text: "some text content here"}
	pipe := New(Config{Extractor: ext})

	pipe.Process(context.Background(), tempDoc(t))
	if ext.maxPages != defaultMaxPages {
		t.Errorf("extractor got maxPages=%d, want default %d", ext.maxPages, defaultMaxPages)
	}
}

func TestProcess_ConfiguredMaxPages(t *testing.T) {
	ext := &stubExtractor{text: "some text content here"}
	pipe := New(Config{Extractor: ext, MaxPages: 3})

	pipe.Process(context.Background(), tempDoc(t))
	if ext.maxPages != 3 {
		t.Errorf("extractor got maxPages=%d, want 3", ext.maxPages)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		min   *float64
		max   *float64
		want  Status
	}{
		{"below min", 10, ptr(12), ptr(17), StatusLow},
		{"above max", 18, ptr(12), ptr(17), StatusHigh},
		{"inside", 14, ptr(12), ptr(17), StatusNormal},
		{"at min", 12, ptr(12), ptr(17), StatusNormal},
		{"at max", 17, ptr(12), ptr(17), StatusNormal},
		{"nil min", 14, nil, ptr(17), StatusUnknown},
		{"nil max", 14, ptr(12), nil, StatusUnknown},
		{"both nil", 14, nil, nil, StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyStatus(tt.value, ReferenceRange{Min: tt.min, Max: tt.max})
			if got != tt.want {
				t.Errorf("classifyStatus(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
