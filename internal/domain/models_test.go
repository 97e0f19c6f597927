package domain

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func vitaminDSpec() RangeSpec {
	return RangeSpec{
		Biomarker: "25-(OH) Vitamin D",
		Sex:       ANY,
		Unit:      "ng/mL",
		Bands: []RangeBand{
			{Label: "deficiency", Upper: fp(20), Severity: SeverityHigh},
			{Label: "insufficiency", Lower: fp(20), Upper: fp(30), Severity: SeverityFlag},
			{Label: "sufficient", Lower: fp(30), Upper: fp(100), Severity: SeverityIdeal},
			{Label: "toxicity", Lower: fp(100), Severity: SeverityHigh},
		},
	}
}

func TestRangeBandContains(t *testing.T) {
	band := RangeBand{Lower: fp(20), Upper: fp(30)}

	tests := []struct {
		name     string
		value    float64
		expected bool
	}{
		{"Below lower", 19.99, false},
		{"Exactly lower bound is inside", 20, true},
		{"Interior", 25, true},
		{"Exactly upper bound is outside", 30, false},
		{"Above upper", 30.01, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := band.Contains(tt.value); got != tt.expected {
				t.Errorf("Contains(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestRangeBandOpenBounds(t *testing.T) {
	open := RangeBand{}
	if !open.Contains(-1e9) || !open.Contains(1e9) {
		t.Error("fully open band should contain any finite value")
	}

	lowTail := RangeBand{Upper: fp(0)}
	if !lowTail.Contains(-100) {
		t.Error("open-below band should contain arbitrarily small values")
	}
	if lowTail.Contains(0) {
		t.Error("upper bound is exclusive")
	}
}

func TestRangeSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    RangeSpec
		wantErr bool
	}{
		{
			name:    "Valid partition",
			spec:    vitaminDSpec(),
			wantErr: false,
		},
		{
			name:    "No bands",
			spec:    RangeSpec{Biomarker: "X"},
			wantErr: true,
		},
		{
			name: "First band not open below",
			spec: RangeSpec{
				Biomarker: "X",
				Bands: []RangeBand{
					{Lower: fp(0), Upper: fp(10)},
					{Lower: fp(10)},
				},
			},
			wantErr: true,
		},
		{
			name: "Final band not open above",
			spec: RangeSpec{
				Biomarker: "X",
				Bands: []RangeBand{
					{Upper: fp(10)},
					{Lower: fp(10), Upper: fp(20)},
				},
			},
			wantErr: true,
		},
		{
			name: "Gap between bands",
			spec: RangeSpec{
				Biomarker: "X",
				Bands: []RangeBand{
					{Upper: fp(10)},
					{Lower: fp(15)},
				},
			},
			wantErr: true,
		},
		{
			name: "Overlap between bands",
			spec: RangeSpec{
				Biomarker: "X",
				Bands: []RangeBand{
					{Upper: fp(10)},
					{Lower: fp(5)},
				},
			},
			wantErr: true,
		},
		{
			name: "Empty interval",
			spec: RangeSpec{
				Biomarker: "X",
				Bands: []RangeBand{
					{Upper: fp(10)},
					{Lower: fp(10), Upper: fp(10)},
					{Lower: fp(10)},
				},
			},
			wantErr: true,
		},
		{
			name: "Severity out of scale",
			spec: RangeSpec{
				Biomarker: "X",
				Bands: []RangeBand{
					{Upper: fp(10), Severity: Severity(7)},
					{Lower: fp(10)},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRangeSpecClassify(t *testing.T) {
	spec := vitaminDSpec()

	tests := []struct {
		name      string
		value     float64
		wantLabel string
		wantIdx   int
	}{
		{"Deficient", 15, "deficiency", 0},
		{"Boundary goes to upper band", 20, "insufficiency", 1},
		{"Insufficient", 29.9, "insufficiency", 1},
		{"Boundary into sufficient", 30, "sufficient", 2},
		{"Sufficient", 55, "sufficient", 2},
		{"Boundary into toxicity", 100, "toxicity", 3},
		{"Far above", 250, "toxicity", 3},
		{"Negative value lands in the open tail", -5, "deficiency", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			band, idx := spec.Classify(tt.value)
			if band.Label != tt.wantLabel || idx != tt.wantIdx {
				t.Errorf("Classify(%v) = (%q, %d), want (%q, %d)", tt.value, band.Label, idx, tt.wantLabel, tt.wantIdx)
			}
		})
	}
}

func TestRangeSpecDirection(t *testing.T) {
	spec := vitaminDSpec()

	tests := []struct {
		name     string
		bandIdx  int
		expected Direction
	}{
		{"Below reference band", 0, DirectionLow},
		{"Still below reference band", 1, DirectionLow},
		{"Reference band itself", 2, DirectionHealthy},
		{"Above reference band", 3, DirectionHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spec.Direction(tt.bandIdx); got != tt.expected {
				t.Errorf("Direction(%d) = %v, want %v", tt.bandIdx, got, tt.expected)
			}
		})
	}
}

func TestRangeSpecDirectionWithoutIdealBand(t *testing.T) {
	// All bands non-ideal: direction splits at the band list midpoint.
	spec := RangeSpec{
		Biomarker: "X",
		Bands: []RangeBand{
			{Upper: fp(10), Severity: SeverityFlag},
			{Lower: fp(10), Upper: fp(20), Severity: SeverityBorderline},
			{Lower: fp(20), Severity: SeverityFlag},
		},
	}
	if got := spec.Direction(0); got != DirectionLow {
		t.Errorf("Direction(0) = %v, want %v", got, DirectionLow)
	}
	if got := spec.Direction(1); got != DirectionHealthy {
		t.Errorf("Direction(1) = %v, want %v", got, DirectionHealthy)
	}
	if got := spec.Direction(2); got != DirectionHigh {
		t.Errorf("Direction(2) = %v, want %v", got, DirectionHigh)
	}
}

func TestAgeBracketContains(t *testing.T) {
	open := AgeBracket{}
	mid := AgeBracket{Min: ip(50), Max: ip(59)}
	upper := AgeBracket{Min: ip(60)}

	tests := []struct {
		name     string
		bracket  AgeBracket
		age      *int
		expected bool
	}{
		{"Open bracket matches nil age", open, nil, true},
		{"Bounded bracket rejects nil age", mid, nil, false},
		{"Half-open bracket rejects nil age", upper, nil, false},
		{"Inclusive lower bound", mid, ip(50), true},
		{"Inclusive upper bound", mid, ip(59), true},
		{"Below bracket", mid, ip(49), false},
		{"Above bracket", mid, ip(60), false},
		{"Open max", upper, ip(95), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bracket.Contains(tt.age); got != tt.expected {
				t.Errorf("Contains() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAgeBracketWidth(t *testing.T) {
	if w := (AgeBracket{Min: ip(50), Max: ip(59)}).Width(); w != 9 {
		t.Errorf("Width() = %v, want 9", w)
	}
	if w := (AgeBracket{Min: ip(60)}).Width(); !math.IsInf(w, 1) {
		t.Errorf("half-open bracket Width() = %v, want +Inf", w)
	}
	if w := (AgeBracket{}).Width(); !math.IsInf(w, 1) {
		t.Errorf("open bracket Width() = %v, want +Inf", w)
	}
}

func TestNormalizedTextCanonical(t *testing.T) {
	text := NormalizedText{Tokens: []string{"lose", "weight"}}
	if got := text.Canonical(); got != "lose weight" {
		t.Errorf("Canonical() = %q, want %q", got, "lose weight")
	}
	if got := (NormalizedText{}).Canonical(); got != "" {
		t.Errorf("empty Canonical() = %q, want empty", got)
	}
}
