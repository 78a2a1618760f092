package config

// DefaultReportPath is the fixed location of the structured report
const DefaultReportPath = "suitekit-results.json"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Verbosity: VerbosityVerbose,
		Report: ReportConfig{
			Path:   DefaultReportPath,
			Format: "json",
		},
		AllowEmptySuites: BoolPtr(true),
		LogLevel:         "warn",
		LogFormat:        "text",
	}
}
