// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iwvelando/metrics-calculator/internal/indicator"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for a batch of calculations.
type Configuration struct {
	Calculations []Calculation `yaml:"calculations"`
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"` // pretty, csv
	CurrencySymbol string `yaml:"currencySymbol,omitempty"`
	ExportFile     string `yaml:"exportFile,omitempty"`
}

// Calculation requests one indicator. Name overrides the registry key, which
// otherwise is the indicator's display name.
type Calculation struct {
	Indicator string               `yaml:"indicator"`
	Name      string               `yaml:"name,omitempty"`
	Inputs    map[string]float64   `yaml:"inputs,omitempty"`
	Lists     map[string][]float64 `yaml:"lists,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration, viper.DecodeHook(decodeHooks())); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ResultName returns the registry key the calculation is stored under.
func (c Calculation) ResultName(def indicator.Definition) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	return def.Name
}

// ToInputs converts the calculation into catalog inputs.
func (c Calculation) ToInputs() indicator.Inputs {
	in := indicator.Inputs{
		Scalars: make(map[string]float64, len(c.Inputs)),
		Lists:   make(map[string][]float64, len(c.Lists)),
	}
	for k, v := range c.Inputs {
		in.Scalars[k] = v
	}
	for k, v := range c.Lists {
		in.Lists[k] = v
	}
	return in
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	if len(c.Calculations) == 0 {
		warnings = append(warnings, "no calculations configured")
	}

	seen := make(map[string]int)
	for i, calc := range c.Calculations {
		def, ok := indicator.Default.Lookup(calc.Indicator)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("calculation %d: unknown indicator %q", i+1, calc.Indicator))
			continue
		}

		name := calc.ResultName(def)
		if prev, dup := seen[name]; dup {
			warnings = append(warnings, fmt.Sprintf("calculation %d: result %q overrides calculation %d", i+1, name, prev))
		}
		seen[name] = i + 1

		known := make(map[string]bool, len(def.Fields))
		for _, field := range def.Fields {
			known[field.Key] = true
		}
		for _, key := range unknownKeys(calc, known) {
			warnings = append(warnings, fmt.Sprintf("calculation %d: input %q is not used by %s", i+1, key, def.Name))
		}
	}
	return warnings
}

func unknownKeys(calc Calculation, known map[string]bool) []string {
	var keys []string
	for k := range calc.Inputs {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	for k := range calc.Lists {
		if !known[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
