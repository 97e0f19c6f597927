package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RangeBand is one labeled interval of a biomarker range spec. Bounds are
// half-open [Lower, Upper); a nil bound means -inf / +inf. The label is an
// opaque domain string ("deficiency", "optimal", ...) carrying no semantics
// beyond display.
type RangeBand struct {
	Label    string   `json:"label" mapstructure:"label"`
	Lower    *float64 `json:"lower" mapstructure:"lower"`
	Upper    *float64 `json:"upper" mapstructure:"upper"`
	Severity Severity `json:"severity" mapstructure:"severity"`
}

// Contains reports whether value falls inside the band's half-open interval.
// The final band of a spec has Upper == nil and therefore also accepts
// values equal to any earlier bound.
func (b RangeBand) Contains(value float64) bool {
	if b.Lower != nil && value < *b.Lower {
		return false
	}
	if b.Upper != nil && value >= *b.Upper {
		return false
	}
	return true
}

// AgeBracket is an inclusive age interval; nil bounds are open-ended.
type AgeBracket struct {
	Min *int `json:"min" mapstructure:"min"`
	Max *int `json:"max" mapstructure:"max"`
}

// Contains reports whether age falls inside the bracket. A nil age only
// matches fully open brackets, which serve as the fallback when
// demographics are missing.
func (a AgeBracket) Contains(age *int) bool {
	if age == nil {
		return a.Min == nil && a.Max == nil
	}
	if a.Min != nil && *age < *a.Min {
		return false
	}
	if a.Max != nil && *age > *a.Max {
		return false
	}
	return true
}

// Width returns the bracket span in years, +inf for open-ended brackets.
// Used to prefer the most specific bracket when several contain the age.
func (a AgeBracket) Width() float64 {
	if a.Min == nil || a.Max == nil {
		return math.Inf(1)
	}
	return float64(*a.Max - *a.Min)
}

// RangeSpec maps one (biomarker, sex, age bracket) to an ordered band list
// partitioning the real line. Loaded once at process start, immutable
// thereafter.
type RangeSpec struct {
	Biomarker string     `json:"biomarker" mapstructure:"biomarker"`
	Sex       Sex        `json:"sex" mapstructure:"sex"`
	Age       AgeBracket `json:"age" mapstructure:"age"`
	Unit      string     `json:"unit" mapstructure:"unit"`
	Bands     []RangeBand `json:"bands" mapstructure:"bands"`
}

// Validate checks the total-coverage invariant: bands partition the real
// line with no gaps or overlaps, the first band is open below, the final
// band open above, and each boundary is shared exactly (half-open on the
// left band, closed on the right band).
func (s *RangeSpec) Validate() error {
	if len(s.Bands) == 0 {
		return fmt.Errorf("range spec %q: no bands", s.Biomarker)
	}
	first, last := s.Bands[0], s.Bands[len(s.Bands)-1]
	if first.Lower != nil {
		return fmt.Errorf("range spec %q: first band must be open below, got lower=%v", s.Biomarker, *first.Lower)
	}
	if last.Upper != nil {
		return fmt.Errorf("range spec %q: final band must be open above, got upper=%v", s.Biomarker, *last.Upper)
	}
	for i, b := range s.Bands {
		if !b.Severity.IsValid() {
			return fmt.Errorf("range spec %q band %q: %w (%d)", s.Biomarker, b.Label, ErrInvalidSeverity, b.Severity)
		}
		if b.Lower != nil && b.Upper != nil && *b.Upper <= *b.Lower {
			return fmt.Errorf("range spec %q band %q: empty interval [%v, %v)", s.Biomarker, b.Label, *b.Lower, *b.Upper)
		}
		if i == 0 {
			continue
		}
		prev := s.Bands[i-1]
		if prev.Upper == nil || b.Lower == nil {
			return fmt.Errorf("range spec %q: interior bound missing between %q and %q", s.Biomarker, prev.Label, b.Label)
		}
		if *prev.Upper != *b.Lower {
			return fmt.Errorf("range spec %q: gap or overlap between %q and %q (%v != %v)",
				s.Biomarker, prev.Label, b.Label, *prev.Upper, *b.Lower)
		}
	}
	return nil
}

// Classify returns the first band containing value and its index. The total
// coverage invariant guarantees a match for any finite value.
func (s *RangeSpec) Classify(value float64) (RangeBand, int) {
	for i, b := range s.Bands {
		if b.Contains(value) {
			return b, i
		}
	}
	// Unreachable for validated specs; the final open band accepts anything
	// not caught earlier.
	return s.Bands[len(s.Bands)-1], len(s.Bands) - 1
}

// Direction derives the healthy/low/high bucket for the band at bandIdx by
// comparing its position against the spec's reference band (the first
// severity-0 band), never by inspecting labels.
func (s *RangeSpec) Direction(bandIdx int) Direction {
	refIdx := -1
	for i, b := range s.Bands {
		if b.Severity == SeverityIdeal {
			refIdx = i
			break
		}
	}
	if refIdx < 0 {
		// No ideal band defined: split at the midpoint of the interior
		// boundaries.
		mid := len(s.Bands) / 2
		switch {
		case bandIdx < mid:
			return DirectionLow
		case bandIdx > mid:
			return DirectionHigh
		default:
			return DirectionHealthy
		}
	}
	switch {
	case bandIdx < refIdx:
		return DirectionLow
	case bandIdx > refIdx:
		return DirectionHigh
	default:
		return DirectionHealthy
	}
}

// Demographics carries the patient attributes used for range selection.
// Missing values degrade gracefully: nil age falls back to open brackets,
// ANY sex restricts selection to sex-independent specs.
type Demographics struct {
	Age *int `json:"age"`
	Sex Sex  `json:"sex"`
}

// BiomarkerObservation is one measured lab value from a patient report.
// Value is nil when the inbound payload carried a non-numeric string; Raw
// preserves the original text for the numeric extractor and for error
// reporting.
type BiomarkerObservation struct {
	Name  string   `json:"name"`
	Value *float64 `json:"value"`
	Raw   string   `json:"raw,omitempty"`
	Unit  string   `json:"unit,omitempty"`
}

// BiomarkerResult is the classification outcome for one observation.
// Derived, never mutated after creation.
type BiomarkerResult struct {
	Name      string       `json:"name"`
	Value     *float64     `json:"value,omitempty"`
	Unit      string       `json:"unit,omitempty"`
	Status    ResultStatus `json:"status"`
	Category  string       `json:"category,omitempty"`
	Severity  Severity     `json:"severity"`
	Direction Direction    `json:"direction,omitempty"`
	Band      *RangeBand   `json:"band,omitempty"`
	Flagged   bool         `json:"flagged"`
	Error     string       `json:"error,omitempty"`
}

// CategoryCounts buckets evaluated biomarkers by direction.
type CategoryCounts struct {
	Healthy int `json:"healthy"`
	Low     int `json:"low"`
	High    int `json:"high"`
}

// EvaluationSummary aggregates counts across one biomarker evaluation.
type EvaluationSummary struct {
	TotalEvaluated    int            `json:"total_evaluated"`
	TotalFlagged      int            `json:"total_flagged"`
	HighPriorityCount int            `json:"high_priority_count"`
	NoDataCount       int            `json:"no_data_count"`
	ErrorCount        int            `json:"error_count"`
	CategoryCounts    CategoryCounts `json:"category_counts"`
}

// BiomarkerReport is the severity-categorized artifact consumed by the
// protocol-generation layer.
type BiomarkerReport struct {
	Results []BiomarkerResult `json:"biomarker_results"`
	Flagged []BiomarkerResult `json:"flagged_biomarkers"`
	Summary EvaluationSummary `json:"summary"`
}

// KeywordSpec is one canonical keyword with optional synonym surface forms.
// Synonyms are flattened into the ruleset's keyword list at load time so the
// matcher stays synonym-agnostic.
type KeywordSpec struct {
	Canonical string   `json:"canonical" mapstructure:"canonical"`
	Synonyms  []string `json:"synonyms,omitempty" mapstructure:"synonyms"`
}

// RulesetSpec binds one focus area to its matching configuration. Immutable,
// loaded at start.
type RulesetSpec struct {
	FocusArea string        `json:"focus_area" mapstructure:"focus_area"`
	Name      string        `json:"name" mapstructure:"name"`
	Keywords  []KeywordSpec `json:"keywords" mapstructure:"keywords"`
	Weight    float64       `json:"weight" mapstructure:"weight"`
	Cap       float64       `json:"cap" mapstructure:"cap"`
	Fields    []string      `json:"fields" mapstructure:"fields"`
}

// NormalizedText is the lemmatized form of one raw text field. Applied is
// false when full linguistic analysis was bypassed (short or uninflected
// input) or unavailable, in which case Tokens hold case-folded words.
type NormalizedText struct {
	Raw     string
	Tokens  []string
	Applied bool
}

// Canonical returns the token sequence as a single space-joined string, the
// form fuzzy similarity is computed against.
func (n NormalizedText) Canonical() string {
	return strings.Join(n.Tokens, " ")
}

// MatchOutcome records how one ruleset matched one text field. Similarity is
// 100 for exact lemma matches and the partial-ratio score for fuzzy ones.
type MatchOutcome struct {
	Matched    bool        `json:"matched"`
	Field      string      `json:"field,omitempty"`
	Keyword    string      `json:"keyword,omitempty"`
	Method     MatchMethod `json:"method,omitempty"`
	Similarity int         `json:"similarity,omitempty"`
}

// FocusAreaScore is the accumulated, capped weight for one focus area plus
// the contributing matches kept for traceability.
type FocusAreaScore struct {
	Weight  float64        `json:"weight"`
	Matches []MatchOutcome `json:"contributing_matches"`
	Error   string         `json:"error,omitempty"`
}

// FocusAreaReport is the weighted focus-area artifact consumed by the
// protocol-generation layer.
type FocusAreaReport struct {
	Scores map[string]FocusAreaScore `json:"focus_area_scores"`
	// NormalizationDegraded is set when the shared language model could not
	// be constructed and matching fell back to case folding (spec'd
	// "normalization unavailable" signal).
	NormalizationDegraded bool `json:"normalization_degraded,omitempty"`
}

// PatientRecord is the inbound shape from the preprocessing layer.
type PatientRecord struct {
	Demographics Demographics           `json:"demographics"`
	Biomarkers   []BiomarkerObservation `json:"biomarkers"`
	TextFields   map[string]string      `json:"text_fields"`
}

// InsightReport bundles both independent artifacts from one evaluation run.
type InsightReport struct {
	EvaluationID string           `json:"evaluation_id"`
	GeneratedAt  time.Time        `json:"generated_at"`
	Biomarkers   *BiomarkerReport `json:"biomarkers"`
	FocusAreas   *FocusAreaReport `json:"focus_areas"`
}
