package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Verbosity levels for the interactive report
const (
	VerbosityQuiet   = "quiet"
	VerbosityVerbose = "verbose"
)

// Config represents the suitekit configuration
type Config struct {
	Verbosity        string        `yaml:"verbosity,omitempty"`
	NoColor          *bool         `yaml:"noColor,omitempty"`
	Report           ReportConfig  `yaml:"report,omitempty"`
	ListingFile      string        `yaml:"listingFile,omitempty"`
	MetricsFile      string        `yaml:"metricsFile,omitempty"`
	HistoryDB        string        `yaml:"historyDB,omitempty"`
	CaseTimeout      time.Duration `yaml:"caseTimeout,omitempty"`
	RunTimeout       time.Duration `yaml:"runTimeout,omitempty"`
	AllowEmptySuites *bool         `yaml:"allowEmptySuites,omitempty"`
	NameFilter       string        `yaml:"nameFilter,omitempty"`
	SummaryTable     *bool         `yaml:"summaryTable,omitempty"`
	LogLevel         string        `yaml:"logLevel,omitempty"`
	LogFormat        string        `yaml:"logFormat,omitempty"`
}

// ReportConfig configures the structured report artifact
type ReportConfig struct {
	Path   string `yaml:"path,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetAllowEmptySuites returns whether empty suites may be registered, defaulting to true
func (c *Config) GetAllowEmptySuites() bool {
	return getBool(c.AllowEmptySuites, true)
}

// GetSummaryTable returns whether the per-suite table is shown, defaulting to false
func (c *Config) GetSummaryTable() bool {
	return getBool(c.SummaryTable, false)
}

// Validate checks enumerated fields
func (c *Config) Validate() error {
	switch c.Verbosity {
	case "", VerbosityQuiet, VerbosityVerbose:
	default:
		return fmt.Errorf("invalid verbosity %q (use %s or %s)", c.Verbosity, VerbosityQuiet, VerbosityVerbose)
	}
	switch c.Report.Format {
	case "", "json", "jsonl", "junit", "tap", "html":
	default:
		return fmt.Errorf("invalid report format %q (use json, jsonl, junit, tap or html)", c.Report.Format)
	}
	if c.CaseTimeout < 0 || c.RunTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".suitekit.yaml",
	".suitekit.yml",
	"suitekit.yaml",
	"suitekit.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Verbosity != "" {
		result.Verbosity = other.Verbosity
	}
	if other.Report.Path != "" {
		result.Report.Path = other.Report.Path
	}
	if other.Report.Format != "" {
		result.Report.Format = other.Report.Format
	}
	if other.ListingFile != "" {
		result.ListingFile = other.ListingFile
	}
	if other.MetricsFile != "" {
		result.MetricsFile = other.MetricsFile
	}
	if other.HistoryDB != "" {
		result.HistoryDB = other.HistoryDB
	}
	if other.CaseTimeout > 0 {
		result.CaseTimeout = other.CaseTimeout
	}
	if other.RunTimeout > 0 {
		result.RunTimeout = other.RunTimeout
	}
	if other.NameFilter != "" {
		result.NameFilter = other.NameFilter
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}

	// Boolean flags - only override if explicitly set in other config
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.AllowEmptySuites != nil {
		result.AllowEmptySuites = other.AllowEmptySuites
	}
	if other.SummaryTable != nil {
		result.SummaryTable = other.SummaryTable
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
