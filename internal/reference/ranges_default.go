package reference

import "github.com/patient-insight-engine/internal/domain"

// Builders for the compiled-in table. Bounds are half-open [lower, upper);
// nil means open-ended.

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func band(label string, lower, upper *float64, sev domain.Severity) domain.RangeBand {
	return domain.RangeBand{Label: label, Lower: lower, Upper: upper, Severity: sev}
}

func spec(biomarker string, sex domain.Sex, age domain.AgeBracket, unit string, bands ...domain.RangeBand) domain.RangeSpec {
	return domain.RangeSpec{Biomarker: biomarker, Sex: sex, Age: age, Unit: unit, Bands: bands}
}

var openAge = domain.AgeBracket{}

// DefaultRangeSpecs is the built-in functional range panel. Labels are
// display strings only; classification and bucketing run off bounds and
// severities.
func DefaultRangeSpecs() []domain.RangeSpec {
	return []domain.RangeSpec{
		// Vitamins & minerals
		spec("25-(OH) Vitamin D", domain.ANY, openAge, "ng/mL",
			band("deficiency", nil, fp(20), 3),
			band("insufficiency", fp(20), fp(30), 2),
			band("sufficient", fp(30), fp(100), 0),
			band("toxicity", fp(100), nil, 3),
		),
		spec("Vitamin B12", domain.ANY, openAge, "pg/mL",
			band("low", nil, fp(400), 2),
			band("optimal", fp(400), fp(1000), 0),
			band("high", fp(1000), nil, 1),
		),
		spec("Folate", domain.ANY, openAge, "ng/mL",
			band("low", nil, fp(10), 2),
			band("optimal", fp(10), fp(20), 0),
			band("high", fp(20), nil, 1),
		),
		spec("Magnesium RBC", domain.ANY, openAge, "mg/dL",
			band("low", nil, fp(5.5), 2),
			band("optimal", fp(5.5), fp(6.6), 0),
			band("high", fp(6.6), nil, 1),
		),

		// Glucose control
		spec("HbA1c", domain.ANY, openAge, "%",
			band("low", nil, fp(4), 1),
			band("optimal", fp(4), fp(5.7), 0),
			band("elevated", fp(5.7), fp(6.5), 2),
			band("high", fp(6.5), nil, 3),
		),
		spec("Fasting Glucose", domain.ANY, openAge, "mg/dL",
			band("low", nil, fp(65), 2),
			band("optimal", fp(65), fp(100), 0),
			band("elevated", fp(100), fp(126), 2),
			band("high", fp(126), nil, 3),
		),
		spec("Fasting Insulin", domain.ANY, openAge, "uIU/mL",
			band("low", nil, fp(1.9), 1),
			band("optimal", fp(1.9), fp(8), 0),
			band("high", fp(8), nil, 2),
		),

		// Lipids
		spec("HDL Cholesterol", domain.MALE, openAge, "mg/dL",
			band("low", nil, fp(40), 2),
			band("optimal", fp(40), fp(80), 0),
			band("high", fp(80), nil, 1),
		),
		spec("HDL Cholesterol", domain.FEMALE, openAge, "mg/dL",
			band("low", nil, fp(50), 2),
			band("optimal", fp(50), fp(80), 0),
			band("high", fp(80), nil, 1),
		),
		spec("LDL Cholesterol", domain.ANY, openAge, "mg/dL",
			band("optimal", nil, fp(100), 0),
			band("borderline", fp(100), fp(160), 2),
			band("high", fp(160), nil, 3),
		),
		spec("Triglycerides", domain.ANY, openAge, "mg/dL",
			band("low", nil, fp(70), 1),
			band("optimal", fp(70), fp(100), 0),
			band("borderline", fp(100), fp(150), 2),
			band("high", fp(150), nil, 3),
		),
		spec("Calculated Total Cholesterol", domain.ANY, openAge, "mg/dL",
			band("low", nil, fp(160), 1),
			band("optimal", fp(160), fp(200), 0),
			band("high", fp(200), nil, 2),
		),

		// Inflammation & cardiovascular risk
		spec("High-Sensitivity CRP", domain.ANY, openAge, "mg/L",
			band("optimal", nil, fp(1), 0),
			band("moderate", fp(1), fp(3), 2),
			band("high", fp(3), nil, 3),
		),
		spec("Homocysteine", domain.ANY, openAge, "umol/L",
			band("low", nil, fp(4), 1),
			band("optimal", fp(4), fp(9), 0),
			band("high", fp(9), nil, 2),
		),

		// Iron & storage
		spec("Ferritin", domain.MALE, openAge, "ng/mL",
			band("low", nil, fp(30), 2),
			band("optimal", fp(30), fp(300), 0),
			band("high", fp(300), nil, 2),
		),
		spec("Ferritin", domain.FEMALE, openAge, "ng/mL",
			band("low", nil, fp(30), 2),
			band("optimal", fp(30), fp(150), 0),
			band("high", fp(150), nil, 2),
		),
		spec("Iron", domain.MALE, openAge, "mcg/dL",
			band("low", nil, fp(60), 2),
			band("optimal", fp(60), fp(120), 0),
			band("high", fp(120), nil, 2),
		),
		spec("Iron", domain.FEMALE, openAge, "mcg/dL",
			band("low", nil, fp(45), 2),
			band("optimal", fp(45), fp(80), 0),
			band("high", fp(80), nil, 2),
		),

		// Adrenal & reproductive hormones
		spec("Cortisol", domain.ANY, openAge, "mcg/dL",
			band("low", nil, fp(10), 2),
			band("optimal", fp(10), fp(17), 0),
			band("high", fp(17), nil, 2),
		),
		spec("Dehydroepiandrosterone Sulfate (DHEA-S)", domain.MALE, openAge, "mcg/dL",
			band("low", nil, fp(150), 1),
			band("optimal", fp(150), fp(250), 0),
			band("high", fp(250), nil, 1),
		),
		spec("Dehydroepiandrosterone Sulfate (DHEA-S)", domain.FEMALE, openAge, "mcg/dL",
			band("low", nil, fp(100), 1),
			band("optimal", fp(100), fp(200), 0),
			band("high", fp(200), nil, 1),
		),
		spec("Estradiol", domain.MALE, openAge, "pg/mL",
			band("low", nil, fp(24), 1),
			band("optimal", fp(24), fp(40), 0),
			band("high", fp(40), nil, 2),
		),
		spec("Estradiol", domain.FEMALE, openAge, "pg/mL",
			band("low", nil, fp(10), 2),
			band("optimal", fp(10), fp(400), 0),
			band("high", fp(400), nil, 2),
		),
		// Total testosterone uses age-bracketed optimal ranges; the bracket
		// containing the age with the smallest width wins.
		spec("Testosterone, Total (Males)", domain.MALE, domain.AgeBracket{Min: nil, Max: ip(49)}, "ng/dL",
			band("low", nil, fp(300), 2),
			band("optimal", fp(300), fp(1080), 0),
			band("high", fp(1080), nil, 1),
		),
		spec("Testosterone, Total (Males)", domain.MALE, domain.AgeBracket{Min: ip(50), Max: ip(59)}, "ng/dL",
			band("low", nil, fp(300), 2),
			band("optimal", fp(300), fp(890), 0),
			band("high", fp(890), nil, 1),
		),
		spec("Testosterone, Total (Males)", domain.MALE, domain.AgeBracket{Min: ip(60), Max: nil}, "ng/dL",
			band("low", nil, fp(300), 2),
			band("optimal", fp(300), fp(720), 0),
			band("high", fp(720), nil, 1),
		),
		spec("Testosterone, Total (Females)", domain.FEMALE, openAge, "ng/dL",
			band("low", nil, fp(35), 1),
			band("optimal", fp(35), fp(45), 0),
			band("high", fp(45), nil, 2),
		),

		// Thyroid
		spec("TSH", domain.ANY, openAge, "uIU/mL",
			band("low", nil, fp(1), 1),
			band("optimal", fp(1), fp(2.5), 0),
			band("high", fp(2.5), nil, 2),
		),

		// Kidney & metabolic panel
		spec("Creatinine", domain.MALE, openAge, "mg/dL",
			band("low", nil, fp(0.7), 1),
			band("optimal", fp(0.7), fp(1.3), 0),
			band("high", fp(1.3), nil, 2),
		),
		spec("Creatinine", domain.FEMALE, openAge, "mg/dL",
			band("low", nil, fp(0.5), 1),
			band("optimal", fp(0.5), fp(1.1), 0),
			band("high", fp(1.1), nil, 2),
		),
		spec("eGFR", domain.ANY, openAge, "mL/min/1.73m²",
			band("low", nil, fp(60), 3),
			band("optimal", fp(60), fp(120), 0),
			band("high", fp(120), nil, 1),
		),
		spec("Albumin", domain.ANY, openAge, "g/dL",
			band("low", nil, fp(3.9), 2),
			band("optimal", fp(3.9), fp(5), 0),
			band("high", fp(5), nil, 1),
		),
		spec("Sodium", domain.ANY, openAge, "mmol/L",
			band("low", nil, fp(135), 2),
			band("optimal", fp(135), fp(146), 0),
			band("high", fp(146), nil, 2),
		),
		spec("Potassium", domain.ANY, openAge, "mmol/L",
			band("low", nil, fp(3.5), 2),
			band("optimal", fp(3.5), fp(5.1), 0),
			band("high", fp(5.1), nil, 3),
		),

		// Complete blood count
		spec("Hemoglobin", domain.MALE, openAge, "g/dL",
			band("low", nil, fp(13.5), 2),
			band("optimal", fp(13.5), fp(17), 0),
			band("high", fp(17), nil, 1),
		),
		spec("Hemoglobin", domain.FEMALE, openAge, "g/dL",
			band("low", nil, fp(12), 2),
			band("optimal", fp(12), fp(15.5), 0),
			band("high", fp(15.5), nil, 1),
		),
		spec("WBC", domain.ANY, openAge, "K/uL",
			band("low", nil, fp(4), 2),
			band("optimal", fp(4), fp(10.5), 0),
			band("high", fp(10.5), nil, 2),
		),
		spec("Platelets", domain.ANY, openAge, "K/uL",
			band("low", nil, fp(150), 2),
			band("optimal", fp(150), fp(400), 0),
			band("high", fp(400), nil, 2),
		),
	}
}

// DefaultAliases folds lab-report naming variants onto the panel's canonical
// biomarker names before range lookup.
func DefaultAliases() map[string]string {
	return map[string]string{
		"% Hemoglobin A1C":                  "HbA1c",
		"Thyroid Stimulating Hormone (TSH)": "TSH",
		"Total Cholesterol":                 "Calculated Total Cholesterol",
		"Calculated Cholesterol, Total":     "Calculated Total Cholesterol",
		"Vitamin D":                         "25-(OH) Vitamin D",
		"Vitamin D, 25-Hydroxy":             "25-(OH) Vitamin D",
		"Glucose":                           "Fasting Glucose",
		"Insulin":                           "Fasting Insulin",
		"hs-CRP":                            "High-Sensitivity CRP",
		"C-Reactive Protein, Cardiac":       "High-Sensitivity CRP",
		"Testosterone, Total":               "Testosterone, Total (Males)",
	}
}

// DefaultTable builds the compiled-in range table. Panics on invariant
// violations, which would be a programming error in the data above.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRangeSpecs(), DefaultAliases())
	if err != nil {
		panic(err)
	}
	return t
}
