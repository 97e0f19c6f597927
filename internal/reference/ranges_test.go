package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patient-insight-engine/internal/domain"
)

func TestDefaultTableValid(t *testing.T) {
	table := DefaultTable()
	require.NoError(t, table.Validate())
	assert.Greater(t, table.Len(), 20, "built-in panel should cover the core biomarkers")
}

func TestDefaultSpecsPartitionRealLine(t *testing.T) {
	// Every compiled-in spec must pass the total-coverage invariant on its
	// own; NewTable enforces it, but failures should name the spec here.
	for _, spec := range DefaultRangeSpecs() {
		if err := spec.Validate(); err != nil {
			t.Errorf("spec %q (%s): %v", spec.Biomarker, spec.Sex, err)
		}
	}
}

func TestTableResolveSexSpecificity(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name          string
		biomarker     string
		demo          domain.Demographics
		wantNil       bool
		wantSpecSex   domain.Sex
		wantFirstEdge float64
	}{
		{
			name:          "Female HDL picks the female spec",
			biomarker:     "HDL Cholesterol",
			demo:          domain.Demographics{Sex: domain.FEMALE},
			wantSpecSex:   domain.FEMALE,
			wantFirstEdge: 50,
		},
		{
			name:          "Male HDL picks the male spec",
			biomarker:     "HDL Cholesterol",
			demo:          domain.Demographics{Sex: domain.MALE},
			wantSpecSex:   domain.MALE,
			wantFirstEdge: 40,
		},
		{
			name:      "Unspecified sex cannot use sex-specific specs",
			biomarker: "HDL Cholesterol",
			demo:      domain.Demographics{Sex: domain.ANY},
			wantNil:   true,
		},
		{
			name:          "Sex-independent spec applies to anyone",
			biomarker:     "HbA1c",
			demo:          domain.Demographics{Sex: domain.FEMALE},
			wantSpecSex:   domain.ANY,
			wantFirstEdge: 4,
		},
		{
			name:      "Unknown biomarker",
			biomarker: "Unobtainium",
			demo:      domain.Demographics{Sex: domain.MALE},
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := table.Resolve(tt.biomarker, tt.demo)
			if tt.wantNil {
				assert.Nil(t, spec)
				return
			}
			require.NotNil(t, spec)
			assert.Equal(t, tt.wantSpecSex, spec.Sex)
			require.NotNil(t, spec.Bands[0].Upper)
			assert.Equal(t, tt.wantFirstEdge, *spec.Bands[0].Upper)
		})
	}
}

func TestTableResolveAgeBrackets(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name        string
		age         *int
		wantNil     bool
		wantOptimal float64 // upper bound of the optimal band
	}{
		{"Young bracket", ip(35), false, 1080},
		{"Bracket lower edge inclusive", ip(50), false, 890},
		{"Bracket upper edge inclusive", ip(59), false, 890},
		{"Open-ended senior bracket", ip(72), false, 720},
		{"Missing age matches no bounded bracket", nil, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := table.Resolve("Testosterone, Total (Males)", domain.Demographics{Age: tt.age, Sex: domain.MALE})
			if tt.wantNil {
				assert.Nil(t, spec)
				return
			}
			require.NotNil(t, spec)
			require.Len(t, spec.Bands, 3)
			assert.Equal(t, tt.wantOptimal, *spec.Bands[1].Upper)
		})
	}
}

func TestTableResolvePrefersNarrowestBracket(t *testing.T) {
	specs := []domain.RangeSpec{
		{
			Biomarker: "Marker",
			Sex:       domain.ANY,
			Bands: []domain.RangeBand{
				{Label: "wide-low", Upper: fp(10)},
				{Label: "wide-high", Lower: fp(10)},
			},
		},
		{
			Biomarker: "Marker",
			Sex:       domain.ANY,
			Age:       domain.AgeBracket{Min: ip(40), Max: ip(49)},
			Bands: []domain.RangeBand{
				{Label: "narrow-low", Upper: fp(12)},
				{Label: "narrow-high", Lower: fp(12)},
			},
		},
	}
	table, err := NewTable(specs, nil)
	require.NoError(t, err)

	got := table.Resolve("Marker", domain.Demographics{Age: ip(45), Sex: domain.MALE})
	require.NotNil(t, got)
	assert.Equal(t, "narrow-low", got.Bands[0].Label, "bounded bracket beats the open fallback")

	got = table.Resolve("Marker", domain.Demographics{Age: ip(30), Sex: domain.MALE})
	require.NotNil(t, got)
	assert.Equal(t, "wide-low", got.Bands[0].Label, "ages outside the bracket fall back to the open spec")
}

func TestTableResolveKeepsDeclarationOrderOnTies(t *testing.T) {
	specs := []domain.RangeSpec{
		{
			Biomarker: "Marker",
			Sex:       domain.ANY,
			Bands:     []domain.RangeBand{{Label: "first", Upper: fp(1)}, {Lower: fp(1)}},
		},
		{
			Biomarker: "Marker",
			Sex:       domain.ANY,
			Bands:     []domain.RangeBand{{Label: "second", Upper: fp(1)}, {Lower: fp(1)}},
		},
	}
	table, err := NewTable(specs, nil)
	require.NoError(t, err)

	got := table.Resolve("Marker", domain.Demographics{Sex: domain.FEMALE})
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Bands[0].Label)
}

func TestTableAliases(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, "25-(OH) Vitamin D", table.CanonicalName("Vitamin D"))
	assert.Equal(t, "HbA1c", table.CanonicalName("% Hemoglobin A1C"))
	assert.Equal(t, "Unknown Thing", table.CanonicalName("Unknown Thing"), "unknown names pass through")

	spec := table.Resolve("Vitamin D, 25-Hydroxy", domain.Demographics{Sex: domain.FEMALE})
	require.NotNil(t, spec)
	assert.Equal(t, "25-(OH) Vitamin D", spec.Biomarker)
}

func TestNewTableRejectsInvalidSpecs(t *testing.T) {
	bad := []domain.RangeSpec{
		{
			Biomarker: "Broken",
			Bands: []domain.RangeBand{
				{Upper: fp(10)},
				{Lower: fp(20)}, // gap
			},
		},
	}
	_, err := NewTable(bad, nil)
	assert.Error(t, err)
}
