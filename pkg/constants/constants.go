// Package constants provides shared constants for the metrics-calculator application.
package constants

// Numeric constants
const (
	// DecimalPrecision is the precision for display rounding (2 decimal places)
	DecimalPrecision = 100

	// DisplayDecimals is the number of decimal places used for scalar values in
	// results and exports
	DisplayDecimals = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// Tolerance is the tolerance used when comparing computed indicators
	Tolerance = 1e-9
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Export constants
const (
	// ExportHeaderName is the header of the indicator name column
	ExportHeaderName = "Indicator"

	// ExportHeaderValue is the header of the value column
	ExportHeaderValue = "Value"

	// ExportFileName is the suggested file name for downloaded exports
	ExportFileName = "indicators.csv"

	// ListSeparator separates the elements of list inputs and list values
	ListSeparator = ","
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultCurrencySymbol prefixes currency-valued indicators
	DefaultCurrencySymbol = "$"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultSessionTTL is how long an idle session keeps its results
	DefaultSessionTTL = "30m"

	// SessionCookieName is the cookie carrying the session identifier
	SessionCookieName = "metrics_session"
)
