package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for codeinsight
type Config struct {
	// Source tree to analyze
	BasePath string `mapstructure:"base_path"`

	// Report written by the line counter and augmented in place
	ReportFile string `mapstructure:"report_file"`

	// Optional insight catalog (YAML or TOML); empty means built-in
	CatalogFile string `mapstructure:"catalog_file"`

	Counter    CounterConfig    `mapstructure:"counter"`
	Visualizer VisualizerConfig `mapstructure:"visualizer"`

	// Concurrent row scans during augmentation (0 = number of CPUs)
	Workers int `mapstructure:"workers"`

	// Storage configuration
	StorageDir string `mapstructure:"storage_dir"`

	// Output format (text, json)
	Format string `mapstructure:"format"`

	// Number of last runs to analyze
	LastRuns int `mapstructure:"last_runs"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// CounterConfig configures the tokei invocation.
type CounterConfig struct {
	Binary        string        `mapstructure:"binary"`
	MaxLineLength int           `mapstructure:"max_line_length"`
	Exclude       []string      `mapstructure:"exclude"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// VisualizerConfig configures the hand-off after augmentation.
type VisualizerConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Command []string      `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		BasePath:   ".",
		ReportFile: "out.txt",
		Counter: CounterConfig{
			Binary:        "tokei",
			MaxLineLength: 1000,
			Exclude:       []string{"*.md", "*.txt"},
		},
		Visualizer: VisualizerConfig{
			Enabled: true,
			Command: []string{"python3", "analyze.py"},
		},
		Workers:    0,
		StorageDir: ".codeinsight",
		Format:     "text",
		LastRuns:   7,
		Verbose:    false,
		Debug:      false,
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (./codeinsight.yaml, ~/codeinsight.yaml, $XDG_CONFIG_HOME/codeinsight)
// 3. Environment variables (CODEINSIGHT_*, nested keys joined by _)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("base_path", defaults.BasePath)
	v.SetDefault("report_file", defaults.ReportFile)
	v.SetDefault("catalog_file", "")
	v.SetDefault("counter.binary", defaults.Counter.Binary)
	v.SetDefault("counter.max_line_length", defaults.Counter.MaxLineLength)
	v.SetDefault("counter.exclude", defaults.Counter.Exclude)
	v.SetDefault("counter.timeout", defaults.Counter.Timeout)
	v.SetDefault("visualizer.enabled", defaults.Visualizer.Enabled)
	v.SetDefault("visualizer.command", defaults.Visualizer.Command)
	v.SetDefault("visualizer.timeout", defaults.Visualizer.Timeout)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("storage_dir", defaults.StorageDir)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("last_runs", defaults.LastRuns)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("debug", defaults.Debug)

	// Set config file settings
	v.SetConfigName("codeinsight")
	v.SetConfigType("yaml")

	if configPath != "" {
		// Use explicit config file path
		v.SetConfigFile(configPath)
	} else {
		// 1. Current directory
		v.AddConfigPath(".")

		// 2. Home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}

		// 3. XDG config directory
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "codeinsight"))
		}
	}

	// Enable environment variable support
	v.SetEnvPrefix("CODEINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to read config file (ignore error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text or json)", c.Format)
	}

	if c.BasePath == "" {
		return fmt.Errorf("base_path cannot be empty")
	}

	if c.ReportFile == "" {
		return fmt.Errorf("report_file cannot be empty")
	}

	if c.Counter.Binary == "" {
		return fmt.Errorf("counter.binary cannot be empty")
	}

	if c.Counter.MaxLineLength < 0 {
		return fmt.Errorf("counter.max_line_length cannot be negative")
	}

	if c.Counter.Timeout < 0 {
		return fmt.Errorf("counter.timeout cannot be negative")
	}

	if c.Visualizer.Timeout < 0 {
		return fmt.Errorf("visualizer.timeout cannot be negative")
	}

	if c.Visualizer.Enabled && len(c.Visualizer.Command) == 0 {
		return fmt.Errorf("visualizer.command cannot be empty when the visualizer is enabled")
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	if c.LastRuns <= 0 {
		return fmt.Errorf("last_runs must be positive")
	}

	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir cannot be empty")
	}

	return nil
}

// GetStoragePath returns the absolute path to the storage directory
func (c *Config) GetStoragePath() (string, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(c.StorageDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, c.StorageDir[2:]), nil
	}

	absPath, err := filepath.Abs(c.StorageDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	return absPath, nil
}

// ConfigPath returns where `codeinsight init` writes the config file:
// $XDG_CONFIG_HOME/codeinsight/codeinsight.yaml when set, else ./codeinsight.yaml.
func ConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "codeinsight", "codeinsight.yaml")
	}
	return "codeinsight.yaml"
}

// WriteSample writes the sample configuration to path, creating parent
// directories. An existing file is only replaced when force is set.
func WriteSample(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateSampleConfig()), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# codeinsight configuration
# Save this file as ./codeinsight.yaml or $XDG_CONFIG_HOME/codeinsight/codeinsight.yaml

# Source tree to analyze
base_path: .

# Report written by tokei and augmented with insight columns
report_file: out.txt

# Insight catalog (YAML or TOML). Leave empty for the built-in "Logs" group.
# catalog_file: insights.yaml

counter:
  binary: tokei
  max_line_length: 1000
  exclude:
    - "*.md"
    - "*.txt"
  # Deadline for one tokei run (0 = no limit)
  timeout: 0s

visualizer:
  enabled: true
  command: ["python3", "analyze.py"]
  timeout: 0s

# Concurrent file scans while augmenting (0 = number of CPUs)
workers: 0

# Directory to store run history
storage_dir: .codeinsight

# Output format: text or json
format: text

# Number of stored runs shown by the history command
last_runs: 7

# Enable verbose output
verbose: false

# Enable debug mode
debug: false
`
}
