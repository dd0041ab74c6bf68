package formula

import (
	"fmt"
	"slices"
)

// ArithmeticMean returns the sum of values divided by their count.
func ArithmeticMean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("arithmetic mean: %w", ErrEmptyInput)
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// WeightedMean pairs values and weights by position and returns
// sum(value*weight) / sum(weight).
func WeightedMean(values, weights []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("weighted mean: %w", ErrEmptyInput)
	}
	if len(values) != len(weights) {
		return 0, fmt.Errorf("weighted mean: %w: %d values, %d weights",
			ErrLengthMismatch, len(values), len(weights))
	}

	var weighted, total float64
	for i, v := range values {
		weighted += v * weights[i]
		total += weights[i]
	}
	return divide("weighted mean", weighted, total)
}

// Median returns the middle of the sorted values, or the mean of the two middle
// elements when the count is even. The input slice is left untouched.
func Median(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, fmt.Errorf("median: %w", ErrEmptyInput)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := n / 2
	if n%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// Mode returns every value that occurs the maximum number of times, ordered by
// first occurrence in the input.
func Mode(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("mode: %w", ErrEmptyInput)
	}

	counts := make(map[float64]int, len(values))
	order := make([]float64, 0, len(values))
	highest := 0
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
		highest = max(highest, counts[v])
	}

	modes := make([]float64, 0, 1)
	for _, v := range order {
		if counts[v] == highest {
			modes = append(modes, v)
		}
	}
	return modes, nil
}
