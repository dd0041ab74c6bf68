// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/constants"
	"github.com/iwvelando/metrics-calculator/pkg/mathutil"
)

// RequireScalar fails the test unless reg holds a scalar under name that is
// within constants.Tolerance of expected.
func RequireScalar(t testing.TB, reg *registry.Registry, name string, expected float64) {
	t.Helper()

	value, err := reg.Get(name)
	if err != nil {
		t.Fatalf("expected %s in registry: %v", name, err)
	}
	if value.IsList() {
		t.Fatalf("expected %s to be a scalar, got list %v", name, value.Floats())
	}
	if !mathutil.WithinTolerance(value.Float(), expected, constants.Tolerance) {
		t.Fatalf("%s = %v, expected %v", name, value.Float(), expected)
	}
}

// Names collects the names yielded by reg.List.
func Names(reg *registry.Registry) []string {
	var names []string
	for name := range reg.List() {
		names = append(names, name)
	}
	return names
}
