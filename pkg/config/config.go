// Package config handles snprank configuration via YAML files and environment variables.
//
// Configuration Precedence (highest to lowest):
//  1. Command-line flags (--reference, --queries, positional k, etc.)
//  2. Environment variables (SNPRANK_*)
//  3. Config file (config.yaml)
//  4. Built-in defaults
//
// Example Usage:
//
//	cfg, err := config.LoadFromFile(config.FindConfigFile())
//	if err != nil {
//		log.Fatalf("Invalid config: %v", err)
//	}
//
// Environment Variables (all use SNPRANK_ prefix):
//
// Input / output:
//   - SNPRANK_REFERENCE="./output/really-ref.fa"
//   - SNPRANK_QUERIES="./DB/2k-snp.fa"
//   - SNPRANK_OUTPUT="" (empty writes to stdout)
//   - SNPRANK_HEADER="address"
//
// Ranking and kernel:
//   - SNPRANK_K=20
//   - SNPRANK_KERNEL="auto" (auto, wide, narrow, scalar)
//   - SNPRANK_GAP="-"
//
// Parallelism:
//   - SNPRANK_WORKERS=0 (0 = all CPUs)
//   - SNPRANK_MIN_BATCH_SIZE=64
//
// Logging:
//   - SNPRANK_VERBOSE=false
//   - SNPRANK_STATS=false
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/orneryd/snprank/pkg/simd"
)

// Config holds all snprank configuration.
type Config struct {
	// Input sequence files
	Input InputConfig

	// Output destination and format
	Output OutputConfig

	// Ranking settings
	Ranking RankingConfig

	// Distance kernel settings
	Kernel KernelConfig

	// Parallel scoring settings
	Parallel ParallelConfig

	// Logging settings
	Logging LoggingConfig
}

// InputConfig names the reference and query files.
type InputConfig struct {
	// ReferencePath is a single-record file; only its first record is used
	ReferencePath string
	// QueryPath is a multi-record file
	QueryPath string
}

// OutputConfig controls where and how the ranking is written.
type OutputConfig struct {
	// Path of the output file; empty writes to stdout
	Path string
	// Header is the first output line
	Header string
}

// RankingConfig controls result selection.
type RankingConfig struct {
	// K is the number of identifiers to emit
	K int
}

// KernelConfig controls the distance kernel.
type KernelConfig struct {
	// Tier forces a kernel (auto, wide, narrow, scalar)
	Tier string
	// Gap is the byte excluded from comparison
	Gap byte
}

// ParallelConfig controls the scoring worker pool.
type ParallelConfig struct {
	// Workers is the maximum number of scoring goroutines (0 = all CPUs)
	Workers int
	// MinBatchSize is the query count below which scoring is sequential
	MinBatchSize int
}

// LoggingConfig controls diagnostics on stderr.
type LoggingConfig struct {
	// Verbose enables progress logging
	Verbose bool
	// Stats logs the distance distribution summary
	Stats bool
}

// YAMLConfig represents the YAML configuration file structure.
type YAMLConfig struct {
	Input struct {
		Reference string `yaml:"reference"`
		Queries   string `yaml:"queries"`
	} `yaml:"input"`

	Output struct {
		Path   string `yaml:"path"`
		Header string `yaml:"header"`
	} `yaml:"output"`

	Ranking struct {
		// K is a pointer so an explicit "k: 0" (header only) is kept
		K *int `yaml:"k"`
	} `yaml:"ranking"`

	Kernel struct {
		Tier string `yaml:"tier"`
		Gap  string `yaml:"gap"`
	} `yaml:"kernel"`

	Parallel struct {
		Workers      int `yaml:"workers"`
		MinBatchSize int `yaml:"min_batch_size"`
	} `yaml:"parallel"`

	Logging struct {
		Verbose bool `yaml:"verbose"`
		Stats   bool `yaml:"stats"`
	} `yaml:"logging"`
}

// LoadDefaults returns the built-in configuration.
//
// The paths match the layout produced by the upstream curation scripts.
func LoadDefaults() *Config {
	config := &Config{}

	config.Input.ReferencePath = "./output/really-ref.fa"
	config.Input.QueryPath = "./DB/2k-snp.fa"

	config.Output.Path = ""
	config.Output.Header = "address"

	config.Ranking.K = 20

	config.Kernel.Tier = string(simd.TierAuto)
	config.Kernel.Gap = simd.DefaultGap

	config.Parallel.Workers = 0
	config.Parallel.MinBatchSize = 64

	return config
}

// LoadFromEnv returns defaults overridden by SNPRANK_* environment variables.
func LoadFromEnv() *Config {
	config := LoadDefaults()
	applyEnvVars(config)
	return config
}

// LoadFromFile loads defaults, then the YAML file at configPath, then
// environment variables. A missing file is not an error.
func LoadFromFile(configPath string) (*Config, error) {
	config := LoadDefaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			var yamlCfg YAMLConfig
			if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			if err := applyYAML(config, &yamlCfg); err != nil {
				return nil, fmt.Errorf("config file %s: %w", configPath, err)
			}
		}
	}

	applyEnvVars(config)
	return config, nil
}

func applyYAML(config *Config, y *YAMLConfig) error {
	if y.Input.Reference != "" {
		config.Input.ReferencePath = y.Input.Reference
	}
	if y.Input.Queries != "" {
		config.Input.QueryPath = y.Input.Queries
	}
	if y.Output.Path != "" {
		config.Output.Path = y.Output.Path
	}
	if y.Output.Header != "" {
		config.Output.Header = y.Output.Header
	}
	if y.Ranking.K != nil {
		config.Ranking.K = *y.Ranking.K
	}
	if y.Kernel.Tier != "" {
		config.Kernel.Tier = y.Kernel.Tier
	}
	if y.Kernel.Gap != "" {
		gap, err := ParseGap(y.Kernel.Gap)
		if err != nil {
			return err
		}
		config.Kernel.Gap = gap
	}
	if y.Parallel.Workers > 0 {
		config.Parallel.Workers = y.Parallel.Workers
	}
	if y.Parallel.MinBatchSize > 0 {
		config.Parallel.MinBatchSize = y.Parallel.MinBatchSize
	}
	if y.Logging.Verbose {
		config.Logging.Verbose = true
	}
	if y.Logging.Stats {
		config.Logging.Stats = true
	}
	return nil
}

func applyEnvVars(config *Config) {
	config.Input.ReferencePath = getEnv("SNPRANK_REFERENCE", config.Input.ReferencePath)
	config.Input.QueryPath = getEnv("SNPRANK_QUERIES", config.Input.QueryPath)
	config.Output.Path = getEnv("SNPRANK_OUTPUT", config.Output.Path)
	config.Output.Header = getEnv("SNPRANK_HEADER", config.Output.Header)
	config.Ranking.K = getEnvInt("SNPRANK_K", config.Ranking.K)
	config.Kernel.Tier = getEnv("SNPRANK_KERNEL", config.Kernel.Tier)
	if gap, err := ParseGap(os.Getenv("SNPRANK_GAP")); err == nil {
		config.Kernel.Gap = gap
	}
	config.Parallel.Workers = getEnvInt("SNPRANK_WORKERS", config.Parallel.Workers)
	config.Parallel.MinBatchSize = getEnvInt("SNPRANK_MIN_BATCH_SIZE", config.Parallel.MinBatchSize)
	config.Logging.Verbose = getEnvBool("SNPRANK_VERBOSE", config.Logging.Verbose)
	config.Logging.Stats = getEnvBool("SNPRANK_STATS", config.Logging.Stats)
}

// ParseGap parses a gap marker, which must be exactly one byte.
func ParseGap(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("gap marker must be a single byte, got %q", s)
	}
	return s[0], nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Input.ReferencePath == "" {
		return fmt.Errorf("reference path is required")
	}
	if c.Input.QueryPath == "" {
		return fmt.Errorf("query path is required")
	}
	if c.Ranking.K < 0 {
		return fmt.Errorf("invalid result count: %d", c.Ranking.K)
	}
	if _, err := simd.ParseTier(c.Kernel.Tier); err != nil {
		return err
	}
	if c.Kernel.Gap == '\n' || c.Kernel.Gap == '>' {
		return fmt.Errorf("gap marker %q collides with the record format", c.Kernel.Gap)
	}
	if c.Parallel.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", c.Parallel.Workers)
	}
	return nil
}

// String returns a one-line summary suitable for logging.
func (c *Config) String() string {
	out := c.Output.Path
	if out == "" {
		out = "stdout"
	}
	return fmt.Sprintf(
		"Config{Reference: %s, Queries: %s, Output: %s, K: %d, Kernel: %s, Gap: %q, Workers: %d}",
		c.Input.ReferencePath, c.Input.QueryPath, out,
		c.Ranking.K, c.Kernel.Tier, c.Kernel.Gap, c.Parallel.Workers,
	)
}

// FindConfigFile searches for a config file in standard locations.
// Returns the path to the first config file found, or empty string if none found.
// Search order:
//  1. ~/.snprank/config.yaml
//  2. Same directory as the binary (snprank.yaml)
//  3. Current working directory (snprank.yaml)
//  4. ~/.config/snprank/config.yaml (XDG)
func FindConfigFile() string {
	var candidates []string

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		candidates = append(candidates, filepath.Join(home, ".snprank", "config.yaml"))
	}

	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "snprank.yaml"))
	}

	candidates = append(candidates, "snprank.yaml")

	if homeErr == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "snprank", "config.yaml"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		val = strings.ToLower(val)
		return val == "true" || val == "1" || val == "yes" || val == "on"
	}
	return defaultVal
}
