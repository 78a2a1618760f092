// Package config handles configuration loading and management for suitekit.
//
// It provides functionality for:
//   - Loading configuration from .suitekit.yaml or suitekit.yaml files
//   - Default configuration values
//   - Merging file settings with command-line overrides
package config
