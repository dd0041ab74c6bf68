// Package numlist parses and renders comma-separated lists of numbers.
package numlist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/metrics-calculator/pkg/constants"
)

// Parse converts free text such as "1, 2.5,3" into a slice of floats. An input
// that is blank yields an empty slice; a blank element between separators is
// an error.
func Parse(text string) ([]float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []float64{}, nil
	}

	parts := strings.Split(trimmed, constants.ListSeparator)
	values := make([]float64, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("element %d is empty", i+1)
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("element %d: invalid number %q", i+1, part)
		}
		values = append(values, v)
	}
	return values, nil
}

// Join renders values with the shortest representation that round-trips,
// separated by commas.
func Join(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, constants.ListSeparator)
}
