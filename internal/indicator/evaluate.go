package indicator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/format"
	"github.com/iwvelando/metrics-calculator/pkg/numlist"
)

// ValidationError is a corrective message for the user about one input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err carries a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// Validate applies the form guards: every field present, scalars finite and
// non-negative, divisors strictly positive, lists non-empty and paired lists of
// equal length.
func (d Definition) Validate(in Inputs) error {
	listLen := -1
	for _, field := range d.Fields {
		switch field.Kind {
		case KindScalar:
			v, ok := in.Scalars[field.Key]
			if !ok {
				return &ValidationError{Field: field.Key, Message: fmt.Sprintf("%s is required", field.Label)}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &ValidationError{Field: field.Key, Message: fmt.Sprintf("%s must be a finite number", field.Label)}
			}
			if v < 0 {
				return &ValidationError{Field: field.Key, Message: fmt.Sprintf("%s cannot be negative", field.Label)}
			}
			if field.Divisor && v == 0 {
				return &ValidationError{Field: field.Key, Message: fmt.Sprintf("%s must be greater than zero", field.Label)}
			}
		case KindList:
			values := in.Lists[field.Key]
			if len(values) == 0 {
				return &ValidationError{Field: field.Key, Message: fmt.Sprintf("enter at least one value for %s", field.Label)}
			}
			for _, v := range values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return &ValidationError{Field: field.Key, Message: fmt.Sprintf("%s must contain only finite numbers", field.Label)}
				}
			}
			if listLen >= 0 && len(values) != listLen {
				return &ValidationError{Field: field.Key, Message: "values and weights must have the same number of elements"}
			}
			listLen = len(values)
		}
	}

	if d.Key == "weighted-mean" {
		total := 0.0
		for _, w := range in.Lists["weights"] {
			total += w
		}
		if total == 0 {
			return &ValidationError{Field: "weights", Message: "weights must not sum to zero"}
		}
	}
	return nil
}

// Evaluate validates the inputs and computes the indicator. The result is
// tagged with the indicator key so it keeps its unit under any result name.
func (d Definition) Evaluate(in Inputs) (registry.Value, error) {
	if err := d.Validate(in); err != nil {
		return registry.Value{}, err
	}
	value, err := d.compute(in)
	if err != nil {
		return registry.Value{}, fmt.Errorf("failed to compute %s: %w", d.Name, err)
	}
	if !finite(value) {
		return registry.Value{}, &ValidationError{Field: "result", Message: "result is out of range"}
	}
	return value.WithIndicator(d.Key), nil
}

// finite reports whether every element of value is a finite number. Inputs
// near the float64 limits can overflow even after validation.
func finite(value registry.Value) bool {
	for _, v := range value.Floats() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Display renders a value in the indicator's unit, e.g. "R$12.50" or "25.00%".
func (d Definition) Display(value registry.Value, currencySymbol string) string {
	if value.IsList() {
		parts := make([]string, 0, len(value.Floats()))
		for _, v := range value.Floats() {
			parts = append(parts, numlist.Join([]float64{v}))
		}
		return strings.Join(parts, ", ")
	}
	v := value.Float()
	switch d.Unit {
	case UnitCurrency:
		return format.Currency(currencySymbol, v)
	case UnitPercent:
		return format.Percent(v)
	default:
		return format.Number(v)
	}
}

// Describe renders the live result line shown after a calculation, e.g.
// "CPL: R$12.50".
func (d Definition) Describe(value registry.Value, currencySymbol string) string {
	return d.Name + ": " + d.Display(value, currencySymbol)
}

// DisplayEntry renders a stored entry in its indicator's unit. The unit comes
// from the value's indicator tag, then from the entry name, and falls back to
// plain formatting when neither matches an indicator.
func (c *Catalog) DisplayEntry(name string, value registry.Value, currencySymbol string) string {
	if def, ok := c.Lookup(value.Indicator()); ok {
		return def.Display(value, currencySymbol)
	}
	if def, ok := c.Lookup(name); ok {
		return def.Display(value, currencySymbol)
	}
	return Definition{Unit: UnitNumber}.Display(value, currencySymbol)
}

// DescribeEntry is DisplayEntry prefixed with the entry name.
func (c *Catalog) DescribeEntry(name string, value registry.Value, currencySymbol string) string {
	return name + ": " + c.DisplayEntry(name, value, currencySymbol)
}
