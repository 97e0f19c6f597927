package service

import (
	"context"
	"runtime"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/patient-insight-engine/internal/domain"
	"github.com/patient-insight-engine/internal/nlp"
	"github.com/patient-insight-engine/internal/reference"
)

// ScoringEngine orchestrates the normalizer and all rulesets over a
// patient's text fields. Normalization cost is paid once per field per
// evaluation regardless of ruleset count; matching cost scales linearly with
// rulesets and is spread across cores.
type ScoringEngine struct {
	logger      *logrus.Logger
	normalizer  *nlp.Normalizer
	matcher     *nlp.Matcher
	rulesets    []*Ruleset
	maxParallel int
}

// NewScoringEngine validates the ruleset configuration and preprocesses
// every ruleset's keywords against the shared normalizer.
func NewScoringEngine(
	logger *logrus.Logger,
	normalizer *nlp.Normalizer,
	matcher *nlp.Matcher,
	specs []domain.RulesetSpec,
	cfg *domain.EngineConfig,
) (*ScoringEngine, error) {
	if err := reference.ValidateRulesets(specs); err != nil {
		return nil, err
	}

	rulesets := make([]*Ruleset, 0, len(specs))
	for _, spec := range specs {
		rulesets = append(rulesets, NewRuleset(spec, normalizer))
	}

	maxParallel := runtime.GOMAXPROCS(0)
	if cfg != nil && cfg.MaxParallelRulesets > 0 {
		maxParallel = cfg.MaxParallelRulesets
	}

	logger.WithFields(logrus.Fields{
		"rulesets":     len(rulesets),
		"max_parallel": maxParallel,
	}).Debug("Scoring engine initialized")

	return &ScoringEngine{
		logger:      logger,
		normalizer:  normalizer,
		matcher:     matcher,
		rulesets:    rulesets,
		maxParallel: maxParallel,
	}, nil
}

// RulesetCount returns the number of configured rulesets.
func (e *ScoringEngine) RulesetCount() int { return len(e.rulesets) }

// ScoreAll evaluates every ruleset against the patient's text fields and
// returns the focus-area weight mapping. The union of all eligible fields is
// normalized once up front as a single batch; rulesets then read the shared
// cache concurrently. Rulesets share no mutable state, so evaluation order
// cannot affect the result.
func (e *ScoringEngine) ScoreAll(ctx context.Context, fields map[string]string) *domain.FocusAreaReport {
	start := time.Now()

	batch := e.normalizer.NewBatch()
	batch.NormalizeAll(e.relevantTexts(fields))

	scores := make([]domain.FocusAreaScore, len(e.rulesets))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.maxParallel)
	for i, rs := range e.rulesets {
		i, rs := i, rs
		g.Go(func() error {
			scores[i] = rs.Score(batch, fields, e.matcher)
			return nil
		})
	}
	// Ruleset scoring never returns errors; malformed rulesets surface as
	// data on their own score.
	_ = g.Wait()

	report := &domain.FocusAreaReport{
		Scores:                make(map[string]domain.FocusAreaScore, len(e.rulesets)),
		NormalizationDegraded: batch.Degraded(),
	}
	for i, rs := range e.rulesets {
		report.Scores[rs.FocusArea()] = scores[i]
	}

	e.logger.WithFields(logrus.Fields{
		"rulesets":   len(e.rulesets),
		"fields":     len(fields),
		"normalized": batch.Misses(),
		"cache_hits": batch.Hits(),
		"degraded":   batch.Degraded(),
		"elapsed":    time.Since(start),
	}).Info("Completed focus-area scoring")

	return report
}

// relevantTexts collects the deduplicated union of field values referenced
// by any ruleset, in sorted field order for deterministic processing.
func (e *ScoringEngine) relevantTexts(fields map[string]string) []string {
	wanted := make(map[string]bool)
	for _, rs := range e.rulesets {
		for _, f := range rs.Fields() {
			wanted[f] = true
		}
	}

	names := make([]string, 0, len(wanted))
	for f := range wanted {
		if _, ok := fields[f]; ok {
			names = append(names, f)
		}
	}
	sort.Strings(names)

	texts := make([]string, 0, len(names))
	for _, f := range names {
		texts = append(texts, fields[f])
	}
	return texts
}
