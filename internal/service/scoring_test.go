package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aaaton/golem/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patient-insight-engine/internal/domain"
	"github.com/patient-insight-engine/internal/nlp"
)

func testRulesetSpecs() []domain.RulesetSpec {
	return []domain.RulesetSpec{
		{
			FocusArea: "CM",
			Weight:    0.30,
			Cap:       0.60,
			Fields:    []string{"top_health_goals", "patient_reasoning"},
			Keywords:  []domain.KeywordSpec{kwSpec("lose weight", "weight loss"), kwSpec("muscle gain")},
		},
		{
			FocusArea: "STR",
			Weight:    0.30,
			Cap:       0.50,
			Fields:    []string{"mood", "stress_sources"},
			Keywords:  []domain.KeywordSpec{kwSpec("stress"), kwSpec("anxiety", "anxious")},
		},
		{
			FocusArea: "MITO",
			Weight:    0.30,
			Cap:       0.60,
			Fields:    []string{"top_health_goals", "symptom_description"},
			Keywords:  []domain.KeywordSpec{kwSpec("fatigue"), kwSpec("low energy")},
		},
	}
}

func newTestEngine(t *testing.T, specs []domain.RulesetSpec) *ScoringEngine {
	t.Helper()
	normalizer := nlp.NewNormalizer(testLogger(), nil)
	engine, err := NewScoringEngine(testLogger(), normalizer, nlp.NewMatcher(nil), specs, nil)
	require.NoError(t, err)
	return engine
}

func TestScoreAllHealthGoalScenario(t *testing.T) {
	engine := newTestEngine(t, testRulesetSpecs())

	report := engine.ScoreAll(context.Background(), map[string]string{
		"top_health_goals": "I want to lose weight and build muscle",
	})

	require.Len(t, report.Scores, 3, "every configured focus area appears in the report")
	assert.False(t, report.NormalizationDegraded)

	cm := report.Scores["CM"]
	require.Len(t, cm.Matches, 1)
	assert.Equal(t, "lose weight", cm.Matches[0].Keyword)
	assert.Equal(t, domain.MatchExactLemma, cm.Matches[0].Method)
	assert.Equal(t, "top_health_goals", cm.Matches[0].Field)
	assert.InDelta(t, 0.30, cm.Weight, 1e-9)

	assert.Zero(t, report.Scores["STR"].Weight, "unmatched focus areas report zero, not absence")
}

func TestScoreAllMultipleFieldsAccumulate(t *testing.T) {
	engine := newTestEngine(t, testRulesetSpecs())

	report := engine.ScoreAll(context.Background(), map[string]string{
		"top_health_goals":  "lose weight this year",
		"patient_reasoning": "weight loss has been impossible",
	})

	cm := report.Scores["CM"]
	require.Len(t, cm.Matches, 2)
	assert.InDelta(t, 0.60, cm.Weight, 1e-9)
}

func TestScoreAllDeterministicAcrossRulesetOrder(t *testing.T) {
	fields := map[string]string{
		"top_health_goals": "lose weight, fix my fatigue",
		"mood":             "constant stress",
	}

	forward := newTestEngine(t, testRulesetSpecs())

	reversed := testRulesetSpecs()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	backward := newTestEngine(t, reversed)

	a := forward.ScoreAll(context.Background(), fields)
	b := backward.ScoreAll(context.Background(), fields)

	assert.Equal(t, a.Scores, b.Scores, "ruleset registration order must not change results")
}

func TestScoreAllRepeatedRuns(t *testing.T) {
	engine := newTestEngine(t, testRulesetSpecs())
	fields := map[string]string{
		"top_health_goals": "lose weight and fight fatigue",
		"stress_sources":   "deadlines, stress at work",
	}

	first := engine.ScoreAll(context.Background(), fields)
	for i := 0; i < 5; i++ {
		again := engine.ScoreAll(context.Background(), fields)
		assert.Equal(t, first.Scores, again.Scores, "run %d diverged", i)
	}
}

func TestScoreAllEmptyFields(t *testing.T) {
	engine := newTestEngine(t, testRulesetSpecs())

	report := engine.ScoreAll(context.Background(), nil)

	require.Len(t, report.Scores, 3)
	for area, score := range report.Scores {
		assert.Zero(t, score.Weight, "focus area %q", area)
		assert.Empty(t, score.Matches, "focus area %q", area)
	}
}

func TestScoreAllEmptyKeywordRulesetIsLocalized(t *testing.T) {
	specs := append(testRulesetSpecs(), domain.RulesetSpec{
		FocusArea: "SKN",
		Weight:    0.30,
		Cap:       0.30,
		Fields:    []string{"top_health_goals"},
	})
	engine := newTestEngine(t, specs)

	report := engine.ScoreAll(context.Background(), map[string]string{
		"top_health_goals": "lose weight",
	})

	assert.Equal(t, domain.ErrEmptyKeywordSet.Error(), report.Scores["SKN"].Error)
	assert.InDelta(t, 0.30, report.Scores["CM"].Weight, 1e-9, "other rulesets are unaffected")
}

func TestScoreAllDegradedNormalizationStillScores(t *testing.T) {
	cfg := &domain.EngineConfig{MinNormalizeLength: 10}
	normalizer := nlp.NewNormalizerWithLoader(testLogger(), cfg, func() (*golem.Lemmatizer, error) {
		return nil, errors.New("dictionary missing")
	})

	specs := []domain.RulesetSpec{
		{
			FocusArea: "MITO",
			Weight:    0.30,
			Cap:       0.60,
			Fields:    []string{"symptom_description"},
			Keywords:  []domain.KeywordSpec{kwSpec("exhausted"), kwSpec("fatigue")},
		},
	}
	engine, err := NewScoringEngine(testLogger(), normalizer, nlp.NewMatcher(nil), specs, cfg)
	require.NoError(t, err)

	// Long and inflected, so the normalizer wants the model and cannot get
	// it. Matching carries on over case-folded tokens.
	report := engine.ScoreAll(context.Background(), map[string]string{
		"symptom_description": "feeling exhausted and losing focus these days",
	})

	assert.True(t, report.NormalizationDegraded, "model failure is reported as data, not an error")

	mito := report.Scores["MITO"]
	require.Len(t, mito.Matches, 1)
	assert.Equal(t, "exhausted", mito.Matches[0].Keyword)
	assert.Equal(t, domain.MatchExactLemma, mito.Matches[0].Method)
	assert.InDelta(t, 0.30, mito.Weight, 1e-9)
}

func TestNewScoringEngineRejectsInvalidConfig(t *testing.T) {
	normalizer := nlp.NewNormalizer(testLogger(), nil)

	_, err := NewScoringEngine(testLogger(), normalizer, nlp.NewMatcher(nil), []domain.RulesetSpec{
		{FocusArea: "CM", Weight: 0.3, Cap: 0.6},
		{FocusArea: "CM", Weight: 0.3, Cap: 0.6},
	}, nil)

	assert.Error(t, err)
}
