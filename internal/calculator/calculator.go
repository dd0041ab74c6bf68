// Package calculator evaluates configured calculations into a results registry.
package calculator

import (
	"fmt"

	"github.com/iwvelando/metrics-calculator/internal/config"
	"github.com/iwvelando/metrics-calculator/internal/indicator"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/constants"
	"go.uber.org/zap"
)

// Outcome records what happened to one configured calculation. Message is the
// live result line on success and the corrective message otherwise.
type Outcome struct {
	Name    string
	Value   registry.Value
	Message string
	Skipped bool
}

// Run evaluates every calculation in order and stores successful results in
// reg. Unknown indicators and inputs rejected by validation are skipped with a
// warning; any other failure aborts the run.
func Run(logger *zap.Logger, conf config.Configuration, reg *registry.Registry) ([]Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	symbol := conf.Output.CurrencySymbol
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	outcomes := make([]Outcome, 0, len(conf.Calculations))
	for i, calc := range conf.Calculations {
		def, ok := indicator.Default.Lookup(calc.Indicator)
		if !ok {
			msg := fmt.Sprintf("unknown indicator %q", calc.Indicator)
			logger.Warn("skipping calculation",
				zap.String("op", "calculator.Run"),
				zap.Int("calculation", i+1),
				zap.String("reason", msg),
			)
			outcomes = append(outcomes, Outcome{Name: calc.Indicator, Message: msg, Skipped: true})
			continue
		}

		name := calc.ResultName(def)
		value, err := def.Evaluate(calc.ToInputs())
		if err != nil {
			if indicator.IsValidationError(err) {
				logger.Warn("skipping calculation",
					zap.String("op", "calculator.Run"),
					zap.Int("calculation", i+1),
					zap.String("indicator", def.Name),
					zap.String("reason", err.Error()),
				)
				outcomes = append(outcomes, Outcome{Name: name, Message: err.Error(), Skipped: true})
				continue
			}
			return outcomes, fmt.Errorf("calculation %d (%s): %w", i+1, name, err)
		}

		reg.Put(name, value)
		outcomes = append(outcomes, Outcome{
			Name:    name,
			Value:   value,
			Message: name + ": " + def.Display(value, symbol),
		})
		logger.Debug("calculation stored",
			zap.String("op", "calculator.Run"),
			zap.String("name", name),
			zap.Stringer("value", value),
		)
	}

	return outcomes, nil
}
