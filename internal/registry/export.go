package registry

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/iwvelando/metrics-calculator/pkg/constants"
)

// Export renders the registry as CSV: an "Indicator,Value" header followed by
// one row per entry in List order. An empty registry yields a nil artifact and
// no error.
func (r *Registry) Export() ([]byte, error) {
	if r.Len() == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes the export to w, including the header even when the registry
// is empty.
func (r *Registry) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{constants.ExportHeaderName, constants.ExportHeaderValue}); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for name, value := range r.List() {
		if err := writer.Write([]string{name, value.String()}); err != nil {
			return fmt.Errorf("failed to write export row %s: %w", name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}
