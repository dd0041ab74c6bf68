package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/metrics-calculator/internal/calculator"
	"github.com/iwvelando/metrics-calculator/internal/config"
	"github.com/iwvelando/metrics-calculator/internal/logging"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/iwvelando/metrics-calculator/pkg/constants"
	"github.com/iwvelando/metrics-calculator/pkg/output"
	"github.com/iwvelando/metrics-calculator/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	exportFlag := flag.String("export", "", "write the results as CSV to this file")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	currencySymbol := conf.Output.CurrencySymbol
	if currencySymbol == "" {
		currencySymbol = constants.DefaultCurrencySymbol
	}
	if err := validation.ValidateCurrencySymbol(currencySymbol); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	conf.Output.CurrencySymbol = currencySymbol

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	reg := registry.New()
	if _, err := calculator.Run(logger, *conf, reg); err != nil {
		logger.Fatal("failed to compute indicators",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		err = output.PrettyFormat(os.Stdout, reg, currencySymbol)
	case constants.OutputFormatCSV:
		err = output.CsvFormat(os.Stdout, reg)
	}
	if err != nil {
		logger.Fatal("failed to write results",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	exportFile := conf.Output.ExportFile
	if *exportFlag != "" {
		exportFile = *exportFlag
	}
	if exportFile != "" {
		if err := writeExport(reg, exportFile); err != nil {
			logger.Fatal("failed to export results",
				zap.String("op", "main"),
				zap.String("file", exportFile),
				zap.Error(err),
			)
		}
		logger.Info("results exported",
			zap.String("op", "main"),
			zap.String("file", exportFile),
			zap.Int("indicators", reg.Len()),
		)
	}
}

// writeExport saves the CSV export. An empty registry produces no file.
func writeExport(reg *registry.Registry, path string) error {
	data, err := reg.Export()
	if err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("no indicators calculated")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
