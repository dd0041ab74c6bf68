package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, query := range []string{"cpl", "CPL", " Cpl ", "conversion-rate", "Conversion Rate", "mean", "Arithmetic Mean"} {
		_, ok := Default.Lookup(query)
		assert.True(t, ok, "lookup %q", query)
	}
	_, ok := Default.Lookup("ebitda")
	assert.False(t, ok)
}

func TestCatalogCoversEveryIndicator(t *testing.T) {
	names := make([]string, 0)
	for _, def := range Default.All() {
		names = append(names, def.Name)
		assert.NotEmpty(t, def.Fields, def.Name)
		assert.NotNil(t, def.compute, def.Name)
	}
	assert.Equal(t, []string{
		"CPL", "ROI", "LTV", "CTR", "CAC", "NPS", "Churn", "Conversion Rate", "Growth Rate",
		"Payback Period", "Purchase Frequency", "Average Ticket",
		"Arithmetic Mean", "Weighted Mean", "Median", "Mode",
	}, names)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		key      string
		inputs   Inputs
		expected registry.Value
	}{
		{"ctr", Inputs{Scalars: map[string]float64{"clicks": 50, "impressions": 1000}}, registry.Scalar(5)},
		{"churn", Inputs{Scalars: map[string]float64{"lost_customers": 10, "initial_customers": 200}}, registry.Scalar(5)},
		{"ltv", Inputs{Scalars: map[string]float64{"avg_revenue": 100, "retention_time": 12, "margin": 0.5}}, registry.Scalar(600)},
		{"nps", Inputs{Scalars: map[string]float64{"promoters": 70, "detractors": 10}}, registry.Scalar(60)},
		{"mean", Inputs{Lists: map[string][]float64{"values": {1, 2, 3, 4, 5}}}, registry.Scalar(3)},
		{"median", Inputs{Lists: map[string][]float64{"values": {1, 2, 3, 4}}}, registry.Scalar(2.5)},
		{"mode", Inputs{Lists: map[string][]float64{"values": {1, 2, 2, 3, 4}}}, registry.List([]float64{2})},
		{"weighted-mean", Inputs{Lists: map[string][]float64{"values": {10, 20}, "weights": {1, 3}}}, registry.Scalar(17.5)},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			def, ok := Default.Lookup(tt.key)
			require.True(t, ok)
			got, err := def.Evaluate(tt.inputs)
			require.NoError(t, err)
			require.Equal(t, tt.expected.IsList(), got.IsList())
			if got.IsList() {
				assert.Equal(t, tt.expected.Floats(), got.Floats())
			} else {
				assert.InDelta(t, tt.expected.Float(), got.Float(), 1e-9)
			}
		})
	}
}

func TestValidateCorrectiveMessages(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		inputs  Inputs
		field   string
		message string
	}{
		{
			name:    "zero divisor",
			key:     "cpl",
			inputs:  Inputs{Scalars: map[string]float64{"cost": 100, "leads": 0}},
			field:   "leads",
			message: "Leads generated must be greater than zero",
		},
		{
			name:    "missing field",
			key:     "roi",
			inputs:  Inputs{Scalars: map[string]float64{"revenue": 100}},
			field:   "cost",
			message: "Total investment cost is required",
		},
		{
			name:    "negative input",
			key:     "nps",
			inputs:  Inputs{Scalars: map[string]float64{"promoters": -1, "detractors": 2}},
			field:   "promoters",
			message: "Promoter score cannot be negative",
		},
		{
			name:    "not finite",
			key:     "ltv",
			inputs:  Inputs{Scalars: map[string]float64{"avg_revenue": math.Inf(1), "retention_time": 1, "margin": 1}},
			field:   "avg_revenue",
			message: "Average revenue per customer must be a finite number",
		},
		{
			name:    "empty list",
			key:     "median",
			inputs:  Inputs{Lists: map[string][]float64{"values": {}}},
			field:   "values",
			message: "enter at least one value for Values",
		},
		{
			name:    "length mismatch",
			key:     "weighted-mean",
			inputs:  Inputs{Lists: map[string][]float64{"values": {1, 2}, "weights": {1}}},
			field:   "weights",
			message: "values and weights must have the same number of elements",
		},
		{
			name:    "zero weight sum",
			key:     "weighted-mean",
			inputs:  Inputs{Lists: map[string][]float64{"values": {1, 2}, "weights": {0, 0}}},
			field:   "weights",
			message: "weights must not sum to zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := Default.Lookup(tt.key)
			require.True(t, ok)

			_, err := def.Evaluate(tt.inputs)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, tt.message, vErr.Message)
		})
	}
}

func TestEvaluateRejectsOverflow(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		inputs Inputs
	}{
		{
			name:   "infinite ratio",
			key:    "cpl",
			inputs: Inputs{Scalars: map[string]float64{"cost": 1e308, "leads": 1e-10}},
		},
		{
			name:   "weighted sum overflows both ways",
			key:    "weighted-mean",
			inputs: Inputs{Lists: map[string][]float64{"values": {1e308, -1e308}, "weights": {10, 10}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := Default.Lookup(tt.key)
			require.True(t, ok)

			_, err := def.Evaluate(tt.inputs)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected validation error, got %v", err)
			assert.Equal(t, "result", vErr.Field)
			assert.Equal(t, "result is out of range", vErr.Message)
		})
	}
}

func TestEvaluateTagsIndicator(t *testing.T) {
	def, ok := Default.Lookup("CTR")
	require.True(t, ok)
	got, err := def.Evaluate(Inputs{Scalars: map[string]float64{"clicks": 5, "impressions": 100}})
	require.NoError(t, err)
	assert.Equal(t, "ctr", got.Indicator())
	assert.True(t, got.Equal(registry.Scalar(5)))
}

func TestEvaluateWrapsFormulaErrors(t *testing.T) {
	def := Definition{
		Name:    "Broken",
		compute: func(Inputs) (registry.Value, error) { return registry.Value{}, formula.ErrDivisionByZero },
	}
	_, err := def.Evaluate(Inputs{})
	assert.ErrorIs(t, err, formula.ErrDivisionByZero)
	assert.False(t, IsValidationError(err))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		key      string
		value    registry.Value
		expected string
	}{
		{"cpl", registry.Scalar(12.5), "CPL: R$12.50"},
		{"roi", registry.Scalar(25), "ROI: 25.00%"},
		{"nps", registry.Scalar(40), "NPS: 40.00"},
		{"average-ticket", registry.Scalar(1234.5), "Average Ticket: R$1,234.50"},
		{"mode", registry.List([]float64{2, 3.5}), "Mode: 2, 3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			def, ok := Default.Lookup(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.expected, def.Describe(tt.value, "R$"))
		})
	}
}

func TestDescribeEntryUnknownName(t *testing.T) {
	assert.Equal(t, "custom: 1,000.00", Default.DescribeEntry("custom", registry.Scalar(1000), "$"))
	assert.Equal(t, "ROI: 10.00%", Default.DescribeEntry("ROI", registry.Scalar(10), "$"))
}

func TestDisplayEntryCustomName(t *testing.T) {
	cpl, ok := Default.Lookup("cpl")
	require.True(t, ok)
	value, err := cpl.Evaluate(Inputs{Scalars: map[string]float64{"cost": 1200, "leads": 48}})
	require.NoError(t, err)
	assert.Equal(t, "R$25.00", Default.DisplayEntry("Campaign CPL", value, "R$"))

	ctr, ok := Default.Lookup("ctr")
	require.True(t, ok)
	value, err = ctr.Evaluate(Inputs{Scalars: map[string]float64{"clicks": 5, "impressions": 100}})
	require.NoError(t, err)
	assert.Equal(t, "Campaign CTR: 5.00%", Default.DescribeEntry("Campaign CTR", value, "R$"))

	// the tag wins over a name that matches another indicator
	assert.Equal(t, "5.00%", Default.DisplayEntry("CPL", value, "R$"))
}
