// Package domain contains core business entities and types for patient
// insight generation: biomarker range evaluation against functional reference
// ranges, and focus-area scoring of free-text intake responses.
package domain

import (
	"errors"
	"strings"
)

// Sex represents the patient sex used for reference range selection.
// ANY marks a range spec that applies regardless of sex.
type Sex string

const (
	MALE   Sex = "MALE"
	FEMALE Sex = "FEMALE"
	ANY    Sex = "ANY"
)

// Severity indicates clinical concern for a classified biomarker value,
// from 0 (ideal) to 4 (critical).
type Severity int

const (
	SeverityIdeal      Severity = 0
	SeverityBorderline Severity = 1
	SeverityFlag       Severity = 2
	SeverityHigh       Severity = 3
	SeverityCritical   Severity = 4
)

// Severity thresholds for reporting buckets.
const (
	// FlagThreshold is the minimum severity at which a result enters the
	// flagged list.
	FlagThreshold Severity = 2
	// HighPriorityThreshold is the minimum severity counted in the
	// high-priority reporting sub-bucket.
	HighPriorityThreshold Severity = 3
)

// ResultStatus describes the outcome of evaluating one biomarker observation.
type ResultStatus string

const (
	StatusEvaluated ResultStatus = "evaluated"
	// StatusNoData marks biomarkers with no applicable range spec. Never an
	// error: evaluation proceeds for the rest of the batch.
	StatusNoData ResultStatus = "no_data"
	// StatusError marks per-item malformed input, e.g. a non-numeric value.
	StatusError ResultStatus = "error"
)

// Direction is the category bucket of a classified value relative to the
// spec's reference band. It is derived from band positions, never parsed
// from band labels, which are opaque domain strings.
type Direction string

const (
	DirectionHealthy Direction = "healthy"
	DirectionLow     Direction = "low"
	DirectionHigh    Direction = "high"
)

// MatchMethod identifies how a keyword matched a normalized text.
type MatchMethod string

const (
	MatchExactLemma MatchMethod = "exact_lemma"
	MatchFuzzy      MatchMethod = "fuzzy"
)

var (
	ErrInvalidSex      = errors.New("invalid sex")
	ErrInvalidSeverity = errors.New("invalid severity")
)

// ParseSex maps inbound demographic strings ("male"/"female", any casing)
// onto the Sex enum. Empty input resolves to ANY so that sex-independent
// range specs still apply.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return MALE, nil
	case "female", "f":
		return FEMALE, nil
	case "":
		return ANY, nil
	default:
		return ANY, ErrInvalidSex
	}
}

// IsValid reports whether the severity is inside the 0-4 scale.
func (s Severity) IsValid() bool {
	return s >= SeverityIdeal && s <= SeverityCritical
}

// Flagged reports whether the severity crosses the flagging threshold.
func (s Severity) Flagged() bool {
	return s >= FlagThreshold
}

// HighPriority reports whether the severity crosses the high-priority
// reporting threshold.
func (s Severity) HighPriority() bool {
	return s >= HighPriorityThreshold
}

func (s Sex) String() string          { return string(s) }
func (r ResultStatus) String() string { return string(r) }
func (d Direction) String() string    { return string(d) }
func (m MatchMethod) String() string  { return string(m) }

// Matches reports whether a range spec declared for sex s applies to a
// patient of sex p. ANY specs apply to everyone; a patient with unknown sex
// only matches ANY specs.
func (s Sex) Matches(p Sex) bool {
	return s == ANY || s == p
}
