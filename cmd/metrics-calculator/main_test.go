package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/metrics-calculator/internal/registry"
)

func TestWriteExport(t *testing.T) {
	reg := registry.New()
	reg.Put("CPL", registry.Scalar(12.5))
	reg.Put("Mode", registry.List([]float64{2, 3}))

	path := filepath.Join(t.TempDir(), "out", "indicators.csv")
	if err := writeExport(reg, path); err != nil {
		t.Fatalf("writeExport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	expected := "Indicator,Value\nCPL,12.50\nMode,\"2,3\"\n"
	if string(data) != expected {
		t.Fatalf("expected %q, got %q", expected, string(data))
	}
}

func TestWriteExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indicators.csv")
	if err := writeExport(registry.New(), path); err == nil {
		t.Fatal("expected error for empty registry")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be written, stat error = %v", err)
	}
}
