package reference

import (
	"fmt"

	"github.com/patient-insight-engine/internal/domain"
)

// Canonical free-text field names from the intake form. Rulesets reference
// these; the API passes whatever subset the patient answered.
const (
	FieldTopHealthGoals        = "top_health_goals"
	FieldPatientReasoning      = "patient_reasoning"
	FieldSymptomDescription    = "symptom_description"
	FieldSymptomAggravators    = "symptom_aggravators"
	FieldTriggerEvent          = "trigger_event"
	FieldLastFeltWell          = "last_felt_well"
	FieldMood                  = "mood"
	FieldStressSources         = "stress_sources"
	FieldFoodCravings          = "food_cravings"
	FieldFoodAvoidance         = "food_avoidance"
	FieldSleepDescription      = "sleep_description"
	FieldEnvironmentalExposure = "environmental_exposures"
)

// ValidateRulesets checks structural invariants on a ruleset configuration.
// An empty keyword set is deliberately NOT rejected here: it is a localized
// per-ruleset scoring error at evaluation time, not a load failure.
func ValidateRulesets(specs []domain.RulesetSpec) error {
	seen := make(map[string]bool, len(specs))
	for _, rs := range specs {
		if rs.FocusArea == "" {
			return fmt.Errorf("ruleset %q: missing focus area", rs.Name)
		}
		if seen[rs.FocusArea] {
			return fmt.Errorf("duplicate ruleset for focus area %q", rs.FocusArea)
		}
		seen[rs.FocusArea] = true
		if rs.Weight < 0 {
			return fmt.Errorf("ruleset %q: negative weight %v", rs.FocusArea, rs.Weight)
		}
		if rs.Cap < 0 {
			return fmt.Errorf("ruleset %q: negative cap %v", rs.FocusArea, rs.Cap)
		}
	}
	return nil
}

// FlattenKeywords resolves synonym expansions into a flat, ordered keyword
// list. Canonical forms come first, then synonyms in declaration order, so
// the matcher's first-declared tie-break stays stable and synonym-agnostic.
func FlattenKeywords(keywords []domain.KeywordSpec) []string {
	flat := make([]string, 0, len(keywords))
	for _, k := range keywords {
		flat = append(flat, k.Canonical)
		flat = append(flat, k.Synonyms...)
	}
	return flat
}
