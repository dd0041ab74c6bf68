package testutil

import (
	"reflect"
	"testing"

	"github.com/iwvelando/metrics-calculator/internal/registry"
)

func TestRequireScalar(t *testing.T) {
	reg := registry.New()
	reg.Put("CTR", registry.Scalar(5.0000000000001))

	RequireScalar(t, reg, "CTR", 5)
}

func TestNames(t *testing.T) {
	reg := registry.New()
	if got := Names(reg); got != nil {
		t.Errorf("Names(empty) = %v, expected nil", got)
	}

	reg.Put("B", registry.Scalar(1))
	reg.Put("A", registry.Scalar(2))
	if got := Names(reg); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("Names() = %v, expected insertion order", got)
	}
}
