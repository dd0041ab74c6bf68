package registry

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/iwvelando/metrics-calculator/pkg/format"
	"github.com/iwvelando/metrics-calculator/pkg/numlist"
)

// Value is the result of one indicator: either a single number or an ordered
// list of numbers.
type Value struct {
	scalar    float64
	list      []float64
	isList    bool
	indicator string
}

// Scalar wraps a single number.
func Scalar(v float64) Value {
	return Value{scalar: v}
}

// List wraps an ordered sequence of numbers. The slice is copied.
func List(vs []float64) Value {
	return Value{list: slices.Clone(vs), isList: true}
}

// WithIndicator returns a copy of v tagged with the key of the indicator that
// produced it, so the entry keeps its unit when stored under a custom name.
func (v Value) WithIndicator(key string) Value {
	v.indicator = key
	return v
}

// Indicator returns the producing indicator's key, or "" for raw values.
func (v Value) Indicator() string {
	return v.indicator
}

// IsList reports whether the value holds a sequence.
func (v Value) IsList() bool {
	return v.isList
}

// Float returns the scalar. It is zero for list values.
func (v Value) Float() float64 {
	return v.scalar
}

// Floats returns a copy of the sequence, or a one-element slice holding the
// scalar.
func (v Value) Floats() []float64 {
	if v.isList {
		return slices.Clone(v.list)
	}
	return []float64{v.scalar}
}

// Equal reports whether both values have the same shape and elements. The
// indicator tag is not compared.
func (v Value) Equal(other Value) bool {
	if v.isList != other.isList {
		return false
	}
	if v.isList {
		return slices.Equal(v.list, other.list)
	}
	return v.scalar == other.scalar
}

// String renders the value the way it is exported: two decimals for scalars,
// comma-joined elements for lists.
func (v Value) String() string {
	if v.isList {
		return numlist.Join(v.list)
	}
	return format.Fixed(v.scalar)
}

// MarshalJSON encodes scalars as numbers and lists as arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON accepts either a number or an array of numbers.
func (v *Value) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*v = Scalar(scalar)
		return nil
	}
	var list []float64
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("value must be a number or a list of numbers: %w", err)
	}
	*v = List(list)
	return nil
}
