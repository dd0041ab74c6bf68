// Package output provides utilities for formatting and displaying calculated indicators.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/metrics-calculator/internal/indicator"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, reg *registry.Registry, currencySymbol string) error {
	p := message.NewPrinter(language.English)

	if reg.Len() == 0 {
		_, err := fmt.Fprintln(w, "No indicators calculated.")
		return err
	}

	width := len("Indicator")
	for name := range reg.List() {
		width = max(width, len(name))
	}

	if _, err := p.Fprintf(w, "--- Results (%d indicators) ---\n", reg.Len()); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%s | %s\n", pad("Indicator", width), "Value"); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%s | %s\n", pad("_________", width), "_____"); err != nil {
		return err
	}
	for name, value := range reg.List() {
		display := indicator.Default.DisplayEntry(name, value, currencySymbol)
		if _, err := p.Fprintf(w, "%s | %s\n", pad(name, width), display); err != nil {
			return err
		}
	}
	return nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// CsvFormat writes the registry export. Nothing is written for an empty
// registry.
func CsvFormat(w io.Writer, reg *registry.Registry) error {
	data, err := reg.Export()
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	_, err = w.Write(data)
	return err
}
