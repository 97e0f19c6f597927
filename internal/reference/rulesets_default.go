package reference

import "github.com/patient-insight-engine/internal/domain"

func kw(canonical string, synonyms ...string) domain.KeywordSpec {
	return domain.KeywordSpec{Canonical: canonical, Synonyms: synonyms}
}

// DefaultRulesets is the built-in focus-area configuration: nine focus
// areas, each bound to its keyword lexicon, a per-match weight, a score cap,
// and the intake fields it may read. Caps mirror the intake protocol's
// priority ceilings.
func DefaultRulesets() []domain.RulesetSpec {
	return []domain.RulesetSpec{
		{
			FocusArea: "CM",
			Name:      "Cardiometabolic Health",
			Weight:    0.30,
			Cap:       0.60,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldSymptomDescription},
			Keywords: []domain.KeywordSpec{
				kw("lose weight", "weight loss", "losing weight"),
				kw("metabolic health", "metabolic"),
				kw("reverse prediabetes", "prediabetes"),
				kw("lower blood sugar", "lower a1c", "blood sugar"),
				kw("improve cholesterol", "cholesterol"),
				kw("heart health", "cardiovascular"),
				kw("blood pressure", "hypertension"),
			},
		},
		{
			FocusArea: "COG",
			Name:      "Cognitive Health",
			Weight:    0.30,
			Cap:       0.60,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldSymptomDescription, FieldSleepDescription},
			Keywords: []domain.KeywordSpec{
				kw("brain fog"),
				kw("focus", "concentrate", "concentration"),
				kw("memory"),
				kw("mental clarity", "mental sharpness"),
				kw("productivity"),
				kw("cognitive"),
			},
		},
		{
			FocusArea: "MITO",
			Name:      "Energy & Mitochondrial Health",
			Weight:    0.30,
			Cap:       0.60,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldSymptomDescription, FieldLastFeltWell},
			Keywords: []domain.KeywordSpec{
				kw("fatigue", "exhaustion", "exhausted"),
				kw("low energy", "energy levels", "increase energy", "improve energy", "energy"),
				kw("stamina", "vitality"),
				kw("burnout"),
			},
		},
		{
			FocusArea: "GA",
			Name:      "Gut & Digestive Health",
			Weight:    0.30,
			Cap:       0.60,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldSymptomDescription, FieldFoodAvoidance, FieldFoodCravings},
			Keywords: []domain.KeywordSpec{
				kw("bloating", "bloat", "gas"),
				kw("reflux", "heartburn", "gerd", "indigestion"),
				kw("constipation"),
				kw("diarrhea", "diarrhoea", "loose stools"),
				kw("ibs", "sibo"),
				kw("leaky gut"),
				kw("abdominal pain", "cramps", "nausea"),
				kw("stool issues", "fodmap"),
			},
		},
		{
			FocusArea: "STR",
			Name:      "Stress & Resilience",
			Weight:    0.30,
			Cap:       0.50,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldMood, FieldStressSources, FieldSleepDescription},
			Keywords: []domain.KeywordSpec{
				kw("reduce stress", "stress management", "stressed", "stress"),
				kw("anxiety", "anxious"),
				kw("calm", "resilience"),
				kw("burnout"),
				kw("improve sleep", "sleep better", "better sleep", "sleep quality"),
				kw("insomnia", "circadian rhythm"),
			},
		},
		{
			FocusArea: "IMM",
			Name:      "Immune & Inflammation",
			Weight:    0.30,
			Cap:       0.40,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldSymptomDescription, FieldSymptomAggravators},
			Keywords: []domain.KeywordSpec{
				kw("lower inflammation", "inflammation", "reduce inflammation", "inflammatory"),
				kw("autoimmune remission", "autoimmune"),
				kw("allergies", "seasonal allergies"),
				kw("histamine intolerance", "histamine"),
				kw("reduce flares", "flare ups"),
				kw("immune"),
			},
		},
		{
			FocusArea: "DTX",
			Name:      "Detoxification",
			Weight:    0.30,
			Cap:       0.35,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldEnvironmentalExposure, FieldTriggerEvent},
			Keywords: []domain.KeywordSpec{
				kw("detox", "detoxification", "cleanse"),
				kw("reduce toxins", "reduce exposure"),
				kw("mold detox", "mold exposure", "mold"),
				kw("chemical sensitivity", "chemicals"),
				kw("heavy metals"),
			},
		},
		{
			FocusArea: "HRM",
			Name:      "Hormone Balance",
			Weight:    0.30,
			Cap:       0.35,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldSymptomDescription},
			Keywords: []domain.KeywordSpec{
				kw("balance hormones", "hormones", "hormonal"),
				kw("thyroid"),
				kw("pcos", "pcos symptoms"),
				kw("menopause", "perimenopause", "hot flashes"),
				kw("pms", "cycles"),
				kw("low testosterone", "libido"),
			},
		},
		{
			FocusArea: "SKN",
			Name:      "Skin Health",
			Weight:    0.30,
			Cap:       0.30,
			Fields:    []string{FieldTopHealthGoals, FieldPatientReasoning, FieldSymptomDescription, FieldSymptomAggravators},
			Keywords: []domain.KeywordSpec{
				kw("clear skin", "clear my skin", "skin issues", "skin"),
				kw("acne"),
				kw("eczema", "dermatitis"),
				kw("psoriasis"),
				kw("rashes", "rash"),
			},
		},
	}
}
