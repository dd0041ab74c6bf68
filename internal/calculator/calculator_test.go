package calculator

import (
	"path/filepath"
	"testing"

	"github.com/iwvelando/metrics-calculator/internal/config"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunExampleConfig(t *testing.T) {
	conf, err := config.LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	require.NoError(t, err)

	reg := registry.New()
	outcomes, err := Run(zap.NewNop(), *conf, reg)
	require.NoError(t, err)
	require.Len(t, outcomes, 16)
	assert.Equal(t, 16, reg.Len())

	testutil.RequireScalar(t, reg, "CTR", 5)
	testutil.RequireScalar(t, reg, "Churn", 5)
	testutil.RequireScalar(t, reg, "Arithmetic Mean", 3)
	testutil.RequireScalar(t, reg, "Median", 2.5)

	mode, err := reg.Get("Mode")
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, mode.Floats())

	assert.Equal(t, "CPL: R$12.50", outcomes[0].Message)
	assert.Equal(t, "ROI: 25.00%", outcomes[1].Message)
}

func TestRunSkipsInvalidCalculations(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	conf := config.Configuration{Calculations: []config.Calculation{
		{Indicator: "cpl", Inputs: map[string]float64{"cost": 100, "leads": 0}},
		{Indicator: "ebitda"},
		{Indicator: "churn", Inputs: map[string]float64{"lost_customers": 10, "initial_customers": 200}},
	}}

	reg := registry.New()
	outcomes, err := Run(logger, conf, reg)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].Skipped)
	assert.Contains(t, outcomes[0].Message, "must be greater than zero")
	assert.True(t, outcomes[1].Skipped)
	assert.False(t, outcomes[2].Skipped)
	assert.Equal(t, "Churn: 5.00%", outcomes[2].Message)

	assert.Equal(t, []string{"Churn"}, reg.Names())
	assert.Equal(t, 2, logs.FilterMessage("skipping calculation").Len())
}

func TestRunLastWriteWins(t *testing.T) {
	conf := config.Configuration{Calculations: []config.Calculation{
		{Indicator: "roi", Inputs: map[string]float64{"revenue": 200, "cost": 100}},
		{Indicator: "nps", Inputs: map[string]float64{"promoters": 50, "detractors": 10}},
		{Indicator: "roi", Inputs: map[string]float64{"revenue": 300, "cost": 100}},
	}}

	reg := registry.New()
	_, err := Run(nil, conf, reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"ROI", "NPS"}, reg.Names())
	testutil.RequireScalar(t, reg, "ROI", 200)
}
