package formula

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

func TestDivisionFormulas(t *testing.T) {
	tests := []struct {
		name     string
		fn       func(a, b float64) (float64, error)
		a, b     float64
		expected float64
	}{
		{"CPL", CPL, 500, 50, 10},
		{"ROI positive", ROI, 1250, 1000, 25},
		{"ROI loss", ROI, 500, 1000, -50},
		{"CTR", CTR, 50, 1000, 5},
		{"CAC", CAC, 3000, 12, 250},
		{"Churn", Churn, 10, 200, 5},
		{"Conversion rate", ConversionRate, 30, 1200, 2.5},
		{"Growth rate", GrowthRate, 150, 120, 25},
		{"Growth rate decline", GrowthRate, 90, 120, -25},
		{"Payback period", PaybackPeriod, 10000, 2500, 4},
		{"Purchase frequency", PurchaseFrequency, 450, 150, 3},
		{"Average ticket", AverageTicket, 9000, 150, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, delta)
		})
	}
}

func TestDivisionFormulasRejectZeroDivisor(t *testing.T) {
	fns := map[string]func(a, b float64) (float64, error){
		"CPL":                CPL,
		"ROI":                ROI,
		"CTR":                CTR,
		"CAC":                CAC,
		"Churn":              Churn,
		"Conversion rate":    ConversionRate,
		"Growth rate":        GrowthRate,
		"Payback period":     PaybackPeriod,
		"Purchase frequency": PurchaseFrequency,
		"Average ticket":     AverageTicket,
	}

	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			_, err := fn(10, 0)
			assert.ErrorIs(t, err, ErrDivisionByZero)
		})
	}
}

func TestCPLMatchesQuotient(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		cost := r.Float64() * 10000
		leads := r.Float64()*500 + 0.01
		got, err := CPL(cost, leads)
		require.NoError(t, err)
		assert.Equal(t, cost/leads, got)
	}
}

func TestROIMatchesDefinition(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		revenue := r.Float64() * 10000
		cost := r.Float64()*5000 + 0.01
		got, err := ROI(revenue, cost)
		require.NoError(t, err)
		assert.Equal(t, (revenue-cost)/cost*100, got)
	}
}

func TestLTV(t *testing.T) {
	assert.InDelta(t, 900.0, LTV(100, 12, 0.75), delta)
	assert.Equal(t, 0.0, LTV(100, 0, 0.75))
}

func TestNPS(t *testing.T) {
	assert.Equal(t, 40.0, NPS(60, 20))
	assert.Equal(t, -10.0, NPS(20, 30))
}
