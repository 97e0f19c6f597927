// Package reference holds the static reference data the engine consumes
// read-only: the biomarker range table and the focus-area ruleset
// configuration. Both are loaded once at process start and are immutable
// thereafter.
package reference

import (
	"fmt"

	"github.com/patient-insight-engine/internal/domain"
)

// Table is the immutable biomarker range table. Specs for one biomarker are
// kept in declaration order; declaration order is the final tie-break during
// resolution, which keeps lookups deterministic.
type Table struct {
	specs   map[string][]domain.RangeSpec
	aliases map[string]string
}

// NewTable builds a validated table from specs and an optional name-alias
// map (lab report names vary across kits; aliases fold them onto the
// canonical panel names).
func NewTable(specs []domain.RangeSpec, aliases map[string]string) (*Table, error) {
	t := &Table{
		specs:   make(map[string][]domain.RangeSpec),
		aliases: aliases,
	}
	for i := range specs {
		spec := specs[i]
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid range table: %w", err)
		}
		t.specs[spec.Biomarker] = append(t.specs[spec.Biomarker], spec)
	}
	return t, nil
}

// CanonicalName resolves report-specific biomarker names onto the panel's
// canonical names. Unknown names pass through unchanged; they will resolve
// to no_data downstream.
func (t *Table) CanonicalName(name string) string {
	if canonical, ok := t.aliases[name]; ok {
		return canonical
	}
	return name
}

// Len returns the number of biomarkers with at least one spec.
func (t *Table) Len() int {
	return len(t.specs)
}

// Has reports whether the named biomarker has any spec at all, regardless
// of demographics.
func (t *Table) Has(name string) bool {
	_, ok := t.specs[t.CanonicalName(name)]
	return ok
}

// Resolve selects the narrowest applicable spec for the biomarker and
// demographics: sex-specific specs override ANY, and among age brackets
// containing the age the smallest width wins, then declaration order.
// Returns nil when no spec applies (the no_data case).
func (t *Table) Resolve(name string, demo domain.Demographics) *domain.RangeSpec {
	candidates := t.specs[t.CanonicalName(name)]
	if len(candidates) == 0 {
		return nil
	}

	var best *domain.RangeSpec
	for i := range candidates {
		spec := &candidates[i]
		if !spec.Sex.Matches(demo.Sex) {
			continue
		}
		if !spec.Age.Contains(demo.Age) {
			// Missing age falls back to fully open brackets only, handled
			// inside Contains.
			continue
		}
		if best == nil || moreSpecific(spec, best) {
			best = spec
		}
	}
	return best
}

// moreSpecific reports whether a should be preferred over the current best b.
// Strict preference only: equal specificity keeps the earlier declaration.
func moreSpecific(a, b *domain.RangeSpec) bool {
	aSexed, bSexed := a.Sex != domain.ANY, b.Sex != domain.ANY
	if aSexed != bSexed {
		return aSexed
	}
	return a.Age.Width() < b.Age.Width()
}

// Validate re-runs the partition invariant across every spec. NewTable
// already enforces it; this exists for tables deserialized elsewhere.
func (t *Table) Validate() error {
	for name, specs := range t.specs {
		for i := range specs {
			if err := specs[i].Validate(); err != nil {
				return fmt.Errorf("biomarker %q: %w", name, err)
			}
		}
	}
	return nil
}
