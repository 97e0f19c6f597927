// Package service implements the evaluation and scoring engines: biomarker
// range classification and focus-area ruleset scoring.
package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/patient-insight-engine/internal/domain"
	"github.com/patient-insight-engine/internal/reference"
)

// numericPattern extracts the leading numeric value from report strings like
// "190.98 mg/dL".
var numericPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ExtractNumeric pulls a float out of a raw biomarker value string.
func ExtractNumeric(raw string) (float64, error) {
	match := numericPattern.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("cannot extract numeric value from %q", raw)
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot extract numeric value from %q: %w", raw, err)
	}
	return value, nil
}

// BiomarkerEvaluator classifies biomarker observations against the range
// table. Stateless beyond the immutable table; safe for concurrent use.
type BiomarkerEvaluator struct {
	logger *logrus.Logger
	table  *reference.Table
}

// NewBiomarkerEvaluator creates a new evaluator over the given range table.
func NewBiomarkerEvaluator(logger *logrus.Logger, table *reference.Table) *BiomarkerEvaluator {
	return &BiomarkerEvaluator{
		logger: logger,
		table:  table,
	}
}

// Evaluate classifies every observation and assembles the severity report.
// Partial-failure semantics throughout: unknown biomarkers become no_data,
// malformed values become per-item errors, and neither stops the batch.
func (e *BiomarkerEvaluator) Evaluate(ctx context.Context, demo domain.Demographics, observations []domain.BiomarkerObservation) *domain.BiomarkerReport {
	// Stable result order regardless of inbound map iteration upstream.
	sorted := make([]domain.BiomarkerObservation, len(observations))
	copy(sorted, observations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	report := &domain.BiomarkerReport{
		Results: make([]domain.BiomarkerResult, 0, len(sorted)),
		Flagged: make([]domain.BiomarkerResult, 0),
	}

	for _, obs := range sorted {
		result := e.evaluateOne(demo, obs)
		report.Results = append(report.Results, result)

		switch result.Status {
		case domain.StatusNoData:
			report.Summary.NoDataCount++
		case domain.StatusError:
			report.Summary.ErrorCount++
		case domain.StatusEvaluated:
			report.Summary.TotalEvaluated++
			switch result.Direction {
			case domain.DirectionLow:
				report.Summary.CategoryCounts.Low++
			case domain.DirectionHigh:
				report.Summary.CategoryCounts.High++
			default:
				report.Summary.CategoryCounts.Healthy++
			}
			if result.Flagged {
				report.Flagged = append(report.Flagged, result)
				report.Summary.TotalFlagged++
			}
			if result.Severity.HighPriority() {
				report.Summary.HighPriorityCount++
			}
		}
	}

	e.logger.WithFields(logrus.Fields{
		"observations":  len(sorted),
		"evaluated":     report.Summary.TotalEvaluated,
		"flagged":       report.Summary.TotalFlagged,
		"high_priority": report.Summary.HighPriorityCount,
		"no_data":       report.Summary.NoDataCount,
		"errors":        report.Summary.ErrorCount,
	}).Info("Completed biomarker evaluation")

	return report
}

// evaluateOne classifies a single observation.
func (e *BiomarkerEvaluator) evaluateOne(demo domain.Demographics, obs domain.BiomarkerObservation) domain.BiomarkerResult {
	result := domain.BiomarkerResult{
		Name:  obs.Name,
		Value: obs.Value,
		Unit:  obs.Unit,
	}

	if obs.Value == nil {
		value, err := ExtractNumeric(obs.Raw)
		if err != nil {
			// Malformed value: localized error, batch continues.
			result.Status = domain.StatusError
			result.Error = err.Error()
			e.logger.WithFields(logrus.Fields{
				"biomarker": obs.Name,
				"raw":       obs.Raw,
			}).Warn("Could not parse biomarker value")
			return result
		}
		result.Value = &value
	}

	spec := e.table.Resolve(obs.Name, demo)
	if spec == nil {
		// Unknown biomarker or no spec for these demographics: a data gap,
		// never an error, and excluded from flagging.
		result.Status = domain.StatusNoData
		return result
	}
	if result.Unit == "" {
		result.Unit = spec.Unit
	}

	band, idx := spec.Classify(*result.Value)
	result.Status = domain.StatusEvaluated
	result.Category = band.Label
	result.Severity = band.Severity
	result.Direction = spec.Direction(idx)
	result.Band = &band
	result.Flagged = band.Severity.Flagged()

	return result
}
