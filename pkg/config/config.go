package config

import (
	"fmt"

	"github.com/sdejongh/filecompare/pkg/models"
)

// ValidationError reports a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Config is the top-level, YAML-serializable configuration: the
// comparison engine's settings plus the ambient logging/output/
// performance sections carried regardless of which comparison features
// are in scope for a given run.
type Config struct {
	Compare     models.CompareConfig `yaml:"compare"`
	Performance PerformanceConfig    `yaml:"performance"`
	Output      OutputConfig         `yaml:"output"`
	Logging     LoggingConfig        `yaml:"logging"`
}

// PerformanceConfig holds concurrency and resource-budget settings.
type PerformanceConfig struct {
	FingerprintWorkers int   `yaml:"fingerprint_workers"`
	MatchWorkers       int   `yaml:"match_workers"`
	CompareWorkers     int   `yaml:"compare_workers"`
	MaxFingerprintSize int64 `yaml:"max_fingerprint_size"` // 0 means dynamic default
}

// OutputConfig holds progress and report format settings.
type OutputConfig struct {
	Format     string `yaml:"format"`      // "human" or "json"
	Progress   bool   `yaml:"progress"`    // Show progress bars
	Quiet      bool   `yaml:"quiet"`       // Suppress non-error output
	ResultsDir string `yaml:"results_dir"` // empty means no persisted run directory
}

// LoggingConfig holds logging-related settings.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json", "text", or "xml"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = logging disabled)
}

// Default returns the documented defaults.
func Default() *Config {
	return &Config{
		Compare: *models.DefaultCompareConfig(),
		Performance: PerformanceConfig{
			FingerprintWorkers: 8,
			MatchWorkers:       8,
			CompareWorkers:     8,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "json",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks the configuration for internally-inconsistent or
// out-of-range values that would otherwise surface as a confusing
// failure deep inside the pipeline.
func (c *Config) Validate() error {
	if c.Performance.FingerprintWorkers < 1 {
		return &ValidationError{Field: "performance.fingerprint_workers", Message: "must be at least 1"}
	}
	if c.Performance.MatchWorkers < 1 {
		return &ValidationError{Field: "performance.match_workers", Message: "must be at least 1"}
	}
	if c.Performance.CompareWorkers < 1 {
		return &ValidationError{Field: "performance.compare_workers", Message: "must be at least 1"}
	}

	if c.Compare.TopK < 0 {
		return &ValidationError{Field: "compare.top_k", Message: "must not be negative"}
	}
	if c.Compare.NumericTolerance < 0 {
		return &ValidationError{Field: "compare.numeric_tolerance", Message: "must not be negative"}
	}
	if c.Compare.MaxDiffBytes < 0 {
		return &ValidationError{Field: "compare.max_diff_bytes", Message: "must not be negative"}
	}

	validModes := map[models.CompareMode]bool{models.ModeAuto: true, models.ModeForceText: true, models.ModeForceStructured: true}
	if !validModes[c.Compare.Mode] {
		return &ValidationError{Field: "compare.mode", Message: "must be 'auto', 'force-text', or 'force-structured'"}
	}

	validPairing := map[models.PairingStrategy]bool{models.PairingSamePath: true, models.PairingSameName: true, models.PairingAllVsAll: true}
	if !validPairing[c.Compare.Pairing] {
		return &ValidationError{Field: "compare.pairing", Message: "must be 'same-path', 'same-name', or 'all-vs-all'"}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &ValidationError{Field: "output.format", Message: "must be 'human' or 'json'"}
	}

	validLogFormats := map[string]bool{"json": true, "text": true, "xml": true}
	if !validLogFormats[c.Logging.Format] {
		return &ValidationError{Field: "logging.format", Message: "must be 'json', 'text', or 'xml'"}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &ValidationError{Field: "logging.level", Message: "must be 'debug', 'info', 'warn', or 'error'"}
	}

	return nil
}
