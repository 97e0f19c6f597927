package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/patient-insight-engine/internal/domain"
)

// InsightService produces both downstream artifacts — the severity
// categorized biomarker report and the focus-area weight mapping — from one
// patient record. The two evaluations are independent and run concurrently.
type InsightService struct {
	logger    *logrus.Logger
	evaluator *BiomarkerEvaluator
	scoring   *ScoringEngine
}

// NewInsightService creates the combined orchestrator.
func NewInsightService(logger *logrus.Logger, evaluator *BiomarkerEvaluator, scoring *ScoringEngine) *InsightService {
	return &InsightService{
		logger:    logger,
		evaluator: evaluator,
		scoring:   scoring,
	}
}

// Evaluator exposes the biomarker evaluator for callers that only need the
// biomarker artifact.
func (s *InsightService) Evaluator() *BiomarkerEvaluator { return s.evaluator }

// Scoring exposes the scoring engine for callers that only need the
// focus-area artifact.
func (s *InsightService) Scoring() *ScoringEngine { return s.scoring }

// GenerateInsights runs both engines over the patient record. The engines
// share no mutable state beyond the read-only model and reference tables, so
// they execute in parallel without locking.
func (s *InsightService) GenerateInsights(ctx context.Context, patient domain.PatientRecord) (*domain.InsightReport, error) {
	start := time.Now()
	evaluationID := uuid.New().String()

	s.logger.WithFields(logrus.Fields{
		"evaluation_id": evaluationID,
		"biomarkers":    len(patient.Biomarkers),
		"text_fields":   len(patient.TextFields),
	}).Info("Starting insight generation")

	var (
		biomarkers *domain.BiomarkerReport
		focusAreas *domain.FocusAreaReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		biomarkers = s.evaluator.Evaluate(gctx, patient.Demographics, patient.Biomarkers)
		return nil
	})
	g.Go(func() error {
		focusAreas = s.scoring.ScoreAll(gctx, patient.TextFields)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &domain.InsightReport{
		EvaluationID: evaluationID,
		GeneratedAt:  time.Now().UTC(),
		Biomarkers:   biomarkers,
		FocusAreas:   focusAreas,
	}

	s.logger.WithFields(logrus.Fields{
		"evaluation_id": evaluationID,
		"flagged":       biomarkers.Summary.TotalFlagged,
		"focus_areas":   len(focusAreas.Scores),
		"elapsed":       time.Since(start),
	}).Info("Insight generation completed")

	return report, nil
}
