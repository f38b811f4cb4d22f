package analysis

// Status classifies a lab value against its reference range.
type Status string

const (
	StatusNormal  Status = "normal"
	StatusHigh    Status = "high"
	StatusLow     Status = "low"
	StatusUnknown Status = "unknown"
)

// ReferenceRange is the {min, max} band defining a normal value.
// A nil bound means the lexicon carries no limit on that side.
type ReferenceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// TestReading is a structured, classified lab value extracted from free text.
type TestReading struct {
	Name           string         `json:"name"`
	Value          float64        `json:"value"`
	Unit           string         `json:"unit"`
	ReferenceRange ReferenceRange `json:"referenceRange"`
	Status         Status         `json:"status"`
}

// classifyStatus derives Status purely from (value, range). Values sitting
// exactly on a bound are normal. Either bound missing means unknown.
func classifyStatus(value float64, ref ReferenceRange) Status {
	if ref.Min == nil || ref.Max == nil {
		return StatusUnknown
	}
	switch {
	case value < *ref.Min:
		return StatusLow
	case value > *ref.Max:
		return StatusHigh
	default:
		return StatusNormal
	}
}

// Outcome identifies which branch of the pipeline produced a Result.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeEmptyContent    Outcome = "empty_content"
	OutcomeParseFailure    Outcome = "parse_failure"
	OutcomeSummaryFallback Outcome = "summary_fallback"
)

// Result is the pipeline output. It is always well-formed: fallback
// branches carry a user-presentable summary and an empty reading list.
type Result struct {
	Summary     string        `json:"summary"`
	TestResults []TestReading `json:"testResults"`
	Outcome     Outcome       `json:"outcome"`
}
