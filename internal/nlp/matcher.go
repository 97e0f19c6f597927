package nlp

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/patient-insight-engine/internal/domain"
)

const defaultFuzzyThreshold = 70

// Keyword is one matchable keyword, preprocessed at ruleset-load time:
// Tokens hold the lemma form used by the exact pass, Lemma the joined form
// scored by the fuzzy pass. Declaration order is significant — it breaks
// fuzzy similarity ties.
type Keyword struct {
	Canonical string
	Tokens    []string
	Lemma     string
}

// PrepareKeywords lemmatizes a flattened keyword list once, so matching
// never re-lemmatizes static configuration. When the language model is
// unavailable the keywords stay case-folded, which keeps them consistent
// with degraded field text.
func (n *Normalizer) PrepareKeywords(keywords []string) []Keyword {
	out := make([]Keyword, 0, len(keywords))
	for _, raw := range keywords {
		tokens := Tokenize(raw)
		if lemmas, err := n.LemmatizeTokens(tokens); err == nil {
			tokens = lemmas
		}
		kw := Keyword{Canonical: raw, Tokens: tokens}
		kw.Lemma = domain.NormalizedText{Tokens: tokens}.Canonical()
		out = append(out, kw)
	}
	return out
}

// Matcher decides whether and how strongly a keyword set matches one
// normalized text. Stateless and safe for concurrent use.
type Matcher struct {
	threshold int
}

// NewMatcher creates a matcher with the configured fuzzy acceptance
// threshold (0-100).
func NewMatcher(cfg *domain.EngineConfig) *Matcher {
	threshold := defaultFuzzyThreshold
	if cfg != nil && cfg.FuzzyThreshold > 0 {
		threshold = cfg.FuzzyThreshold
	}
	return &Matcher{threshold: threshold}
}

// Match returns the best outcome across all keywords: an exact lemma pass
// first (longest matching keyword wins, avoiding partial-word false
// positives), then a partial-ratio fuzzy fallback accepted at or above the
// threshold. Ties on fuzzy similarity keep the first-declared keyword, so
// results are deterministic.
func (m *Matcher) Match(keywords []Keyword, text domain.NormalizedText) domain.MatchOutcome {
	if len(keywords) == 0 || len(text.Tokens) == 0 {
		return domain.MatchOutcome{}
	}

	// Exact pass: keyword token sequence contained in the text tokens.
	best := -1
	for i, kw := range keywords {
		if len(kw.Tokens) == 0 || !containsTokens(text.Tokens, kw.Tokens) {
			continue
		}
		if best < 0 || longerKeyword(kw, keywords[best]) {
			best = i
		}
	}
	if best >= 0 {
		return domain.MatchOutcome{
			Matched:    true,
			Keyword:    keywords[best].Canonical,
			Method:     domain.MatchExactLemma,
			Similarity: 100,
		}
	}

	// Fuzzy pass: best partial-ratio similarity, strict improvement only so
	// declaration order wins ties.
	canonical := text.Canonical()
	bestScore := 0
	best = -1
	for i, kw := range keywords {
		if kw.Lemma == "" {
			continue
		}
		score := fuzzy.PartialRatio(kw.Lemma, canonical)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best >= 0 && bestScore >= m.threshold {
		return domain.MatchOutcome{
			Matched:    true,
			Keyword:    keywords[best].Canonical,
			Method:     domain.MatchFuzzy,
			Similarity: bestScore,
		}
	}

	return domain.MatchOutcome{}
}

// containsTokens reports whether needle occurs as a contiguous subsequence
// of haystack. Whole-token comparison keeps "lose" from matching inside
// "loser".
func containsTokens(haystack, needle []string) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		matched := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// longerKeyword orders exact-match candidates: more tokens first, then more
// characters. Strict comparison keeps the first-declared keyword on full
// ties.
func longerKeyword(a, b Keyword) bool {
	if len(a.Tokens) != len(b.Tokens) {
		return len(a.Tokens) > len(b.Tokens)
	}
	return len(a.Canonical) > len(b.Canonical)
}
