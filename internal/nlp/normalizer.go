// Package nlp implements the text normalization and keyword matching stages
// of the focus-area scoring pipeline: lemmatization behind a lazily
// constructed shared language model, per-evaluation normalization caching,
// and exact-lemma-then-fuzzy keyword matching.
package nlp

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/patient-insight-engine/internal/domain"
)

const (
	defaultMinNormalizeLength = 50
	defaultLemmaCacheSize     = 4096
)

// ModelLoader constructs the shared language model. The default loads the
// embedded English dictionary; tests substitute failing loaders to exercise
// the degraded path.
type ModelLoader func() (*golem.Lemmatizer, error)

// Normalizer owns the process-wide language model and produces
// NormalizedText from raw intake fields. The model is expensive to construct
// and cheap to reuse, so it is built at most once per process, on first use,
// behind a sync.Once gate; after that the Normalizer is safe for concurrent
// use by simultaneous evaluations.
type Normalizer struct {
	logger    *logrus.Logger
	minLength int
	loader    ModelLoader

	once    sync.Once
	model   *golem.Lemmatizer
	initErr error

	// lemmaCache memoizes word->lemma lookups across requests. The mapping
	// is pure, so sharing it across patients carries no stale-data risk,
	// unlike normalized-text results which stay scoped to one Batch.
	lemmaCache *lru.Cache[string, string]

	warnOnce sync.Once
}

// NewNormalizer creates a normalizer with the engine's tunables. The
// language model is NOT constructed here; first use pays that cost.
func NewNormalizer(logger *logrus.Logger, cfg *domain.EngineConfig) *Normalizer {
	return NewNormalizerWithLoader(logger, cfg, func() (*golem.Lemmatizer, error) {
		return golem.New(en.New())
	})
}

// NewNormalizerWithLoader creates a normalizer with an explicit model
// loader.
func NewNormalizerWithLoader(logger *logrus.Logger, cfg *domain.EngineConfig, loader ModelLoader) *Normalizer {
	minLength := defaultMinNormalizeLength
	cacheSize := defaultLemmaCacheSize
	if cfg != nil {
		if cfg.MinNormalizeLength > 0 {
			minLength = cfg.MinNormalizeLength
		}
		if cfg.LemmaCacheSize > 0 {
			cacheSize = cfg.LemmaCacheSize
		}
	}

	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		// Only possible with a non-positive size, which the guards above
		// exclude.
		panic(err)
	}

	return &Normalizer{
		logger:     logger,
		minLength:  minLength,
		loader:     loader,
		lemmaCache: cache,
	}
}

// ensureModel constructs the shared lemmatizer exactly once. Concurrent
// first callers block until the single construction finishes.
func (n *Normalizer) ensureModel() error {
	n.once.Do(func() {
		start := time.Now()
		model, err := n.loader()
		if err != nil {
			n.initErr = fmt.Errorf("%w: %v", domain.ErrNormalizationUnavailable, err)
			return
		}
		n.model = model
		n.logger.WithField("elapsed", time.Since(start)).Info("Language model initialized")
	})
	return n.initErr
}

// Tokenize lowercases raw text and splits it into word tokens. Punctuation
// separates tokens; hyphens and apostrophes stay inside words.
func Tokenize(raw string) []string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '\'' {
			return unicode.ToLower(r)
		}
		return ' '
	}, raw)
	return strings.Fields(mapped)
}

// hasInflectedForms reports whether any token carries an inflection suffix
// worth lemmatizing. Texts without any are case-folded only: full analysis
// would change nothing.
func hasInflectedForms(tokens []string) bool {
	for _, tok := range tokens {
		if len(tok) < 4 {
			continue
		}
		if strings.HasSuffix(tok, "ing") || strings.HasSuffix(tok, "ed") ||
			strings.HasSuffix(tok, "es") || strings.HasSuffix(tok, "s") {
			return true
		}
	}
	return false
}

// lemma resolves one word through the LRU memo and the shared model. The
// caller must have ensured the model.
func (n *Normalizer) lemma(word string) string {
	if cached, ok := n.lemmaCache.Get(word); ok {
		return cached
	}
	out := n.model.Lemma(word)
	n.lemmaCache.Add(word, out)
	return out
}

// LemmatizeTokens lemmatizes a token sequence, falling back to the input
// when the model is unavailable. Keyword preprocessing uses this directly so
// keyword and field text share one canonical form.
func (n *Normalizer) LemmatizeTokens(tokens []string) ([]string, error) {
	if err := n.ensureModel(); err != nil {
		return tokens, err
	}
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = n.lemma(tok)
	}
	return out, nil
}

// Batch is the per-evaluation normalization cache: repeated raw-text values
// are normalized once and reused, and the cache dies with the evaluation so
// no state leaks across patients. Not safe for concurrent writers; the
// scoring engine fills it up front and rulesets only read from it.
type Batch struct {
	normalizer *Normalizer
	entries    map[string]domain.NormalizedText
	degraded   bool
	hits       int
	misses     int
}

// NewBatch starts an empty per-evaluation cache.
func (n *Normalizer) NewBatch() *Batch {
	return &Batch{
		normalizer: n,
		entries:    make(map[string]domain.NormalizedText),
	}
}

// NormalizeAll normalizes every text in one pass. Eligible texts share a
// single model resolution rather than paying the lazy-init check per field;
// texts below the length threshold or without inflected forms bypass the
// model entirely.
func (b *Batch) NormalizeAll(raws []string) {
	for _, raw := range raws {
		b.Normalize(raw)
	}
}

// normalizeText computes the NormalizedText for raw without touching any
// batch state. The second return reports whether full analysis was wanted
// but the model was unavailable.
func (n *Normalizer) normalizeText(raw string) (domain.NormalizedText, bool) {
	tokens := Tokenize(raw)

	entry := domain.NormalizedText{Raw: raw, Tokens: tokens}
	if len(raw) < n.minLength || !hasInflectedForms(tokens) {
		return entry, false
	}

	lemmas, err := n.LemmatizeTokens(tokens)
	if err != nil {
		// Degrade to case folding; the caller carries the signal so the
		// report can tell.
		n.warnOnce.Do(func() {
			n.logger.WithError(err).Warn("Normalization degraded to case folding")
		})
		return entry, true
	}

	entry.Tokens = lemmas
	entry.Applied = true
	return entry, false
}

// Normalize returns the NormalizedText for raw, computing it on first sight
// and serving the per-evaluation cache afterwards.
func (b *Batch) Normalize(raw string) domain.NormalizedText {
	if cached, ok := b.entries[raw]; ok {
		b.hits++
		return cached
	}
	b.misses++

	entry, degraded := b.normalizer.normalizeText(raw)
	if degraded {
		b.degraded = true
	}

	b.entries[raw] = entry
	return entry
}

// Get returns the cached entry for raw without computing or recording
// anything.
func (b *Batch) Get(raw string) (domain.NormalizedText, bool) {
	entry, ok := b.entries[raw]
	return entry, ok
}

// Resolve returns the cached entry for raw, computing one WITHOUT storing it
// when absent. Concurrent readers over a pre-filled batch stay race-free
// even when a text slipped past the pre-fill.
func (b *Batch) Resolve(raw string) domain.NormalizedText {
	if entry, ok := b.entries[raw]; ok {
		return entry
	}
	entry, _ := b.normalizer.normalizeText(raw)
	return entry
}

// Degraded reports whether any text in this batch fell back to case folding
// because the language model was unavailable.
func (b *Batch) Degraded() bool { return b.degraded }

// Hits returns the number of cache hits served by this batch.
func (b *Batch) Hits() int { return b.hits }

// Misses returns the number of texts this batch had to compute.
func (b *Batch) Misses() int { return b.misses }
