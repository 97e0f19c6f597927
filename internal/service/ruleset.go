package service

import (
	"strings"

	"github.com/patient-insight-engine/internal/domain"
	"github.com/patient-insight-engine/internal/nlp"
	"github.com/patient-insight-engine/internal/reference"
)

// Ruleset binds one focus area to its preprocessed keyword set. Keywords are
// flattened (synonyms resolved) and lemmatized once at construction, so
// scoring does no keyword work per request. Immutable after construction.
type Ruleset struct {
	spec     domain.RulesetSpec
	keywords []nlp.Keyword
}

// NewRuleset preprocesses one ruleset spec against the shared normalizer.
func NewRuleset(spec domain.RulesetSpec, normalizer *nlp.Normalizer) *Ruleset {
	flat := reference.FlattenKeywords(spec.Keywords)
	return &Ruleset{
		spec:     spec,
		keywords: normalizer.PrepareKeywords(flat),
	}
}

// FocusArea returns the focus area this ruleset scores.
func (r *Ruleset) FocusArea() string { return r.spec.FocusArea }

// Fields returns the text fields this ruleset is eligible to read.
func (r *Ruleset) Fields() []string { return r.spec.Fields }

// Score matches the ruleset against its eligible fields and returns the
// bounded weight contribution. Each matched field contributes the per-match
// weight, scaled by similarity/100 for fuzzy matches; contributions sum and
// the total clamps to [0, cap]. No eligible fields or no matches yields 0,
// not an error; an empty keyword set is a localized per-ruleset error.
func (r *Ruleset) Score(batch *nlp.Batch, fields map[string]string, matcher *nlp.Matcher) domain.FocusAreaScore {
	if len(r.keywords) == 0 {
		return domain.FocusAreaScore{Error: domain.ErrEmptyKeywordSet.Error()}
	}

	score := domain.FocusAreaScore{Matches: make([]domain.MatchOutcome, 0, len(r.spec.Fields))}

	total := 0.0
	for _, field := range r.spec.Fields {
		raw, ok := fields[field]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}

		// The engine pre-normalizes the field union; Resolve serves that
		// cache and computes misses without writing, so concurrent rulesets
		// never mutate the shared batch.
		text := batch.Resolve(raw)

		outcome := matcher.Match(r.keywords, text)
		if !outcome.Matched {
			continue
		}
		outcome.Field = field

		contribution := r.spec.Weight
		if outcome.Method == domain.MatchFuzzy {
			// Linear scaling above the acceptance threshold.
			contribution *= float64(outcome.Similarity) / 100
		}
		total += contribution
		score.Matches = append(score.Matches, outcome)
	}

	if total < 0 {
		total = 0
	}
	if total > r.spec.Cap {
		total = r.spec.Cap
	}
	score.Weight = total
	return score
}
