// Package config tests for snprank configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var allEnvVars = []string{
	"SNPRANK_REFERENCE",
	"SNPRANK_QUERIES",
	"SNPRANK_OUTPUT",
	"SNPRANK_HEADER",
	"SNPRANK_K",
	"SNPRANK_KERNEL",
	"SNPRANK_GAP",
	"SNPRANK_WORKERS",
	"SNPRANK_MIN_BATCH_SIZE",
	"SNPRANK_VERBOSE",
	"SNPRANK_STATS",
}

// clearEnvVars blanks every SNPRANK_* variable for the duration of the test.
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

// TestLoadFromEnv_Defaults tests default values are loaded correctly.
func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg := LoadFromEnv()

	if cfg.Input.ReferencePath != "./output/really-ref.fa" {
		t.Errorf("expected reference './output/really-ref.fa', got %q", cfg.Input.ReferencePath)
	}
	if cfg.Input.QueryPath != "./DB/2k-snp.fa" {
		t.Errorf("expected queries './DB/2k-snp.fa', got %q", cfg.Input.QueryPath)
	}
	if cfg.Output.Path != "" {
		t.Errorf("expected stdout output, got %q", cfg.Output.Path)
	}
	if cfg.Output.Header != "address" {
		t.Errorf("expected header 'address', got %q", cfg.Output.Header)
	}
	if cfg.Ranking.K != 20 {
		t.Errorf("expected k 20, got %d", cfg.Ranking.K)
	}
	if cfg.Kernel.Tier != "auto" {
		t.Errorf("expected kernel 'auto', got %q", cfg.Kernel.Tier)
	}
	if cfg.Kernel.Gap != '-' {
		t.Errorf("expected gap '-', got %q", cfg.Kernel.Gap)
	}
	if cfg.Parallel.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Parallel.Workers)
	}
	if cfg.Logging.Verbose || cfg.Logging.Stats {
		t.Error("expected logging to be quiet by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// TestLoadFromEnv_CustomValues tests env var overrides.
func TestLoadFromEnv_CustomValues(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SNPRANK_REFERENCE", "/data/ref.fa")
	t.Setenv("SNPRANK_QUERIES", "/data/q.fa")
	t.Setenv("SNPRANK_OUTPUT", "/tmp/top.txt")
	t.Setenv("SNPRANK_K", "5")
	t.Setenv("SNPRANK_KERNEL", "scalar")
	t.Setenv("SNPRANK_GAP", "N")
	t.Setenv("SNPRANK_WORKERS", "3")
	t.Setenv("SNPRANK_VERBOSE", "yes")

	cfg := LoadFromEnv()

	if cfg.Input.ReferencePath != "/data/ref.fa" || cfg.Input.QueryPath != "/data/q.fa" {
		t.Errorf("unexpected input paths: %+v", cfg.Input)
	}
	if cfg.Output.Path != "/tmp/top.txt" {
		t.Errorf("expected output '/tmp/top.txt', got %q", cfg.Output.Path)
	}
	if cfg.Ranking.K != 5 {
		t.Errorf("expected k 5, got %d", cfg.Ranking.K)
	}
	if cfg.Kernel.Tier != "scalar" || cfg.Kernel.Gap != 'N' {
		t.Errorf("unexpected kernel config: %+v", cfg.Kernel)
	}
	if cfg.Parallel.Workers != 3 {
		t.Errorf("expected workers 3, got %d", cfg.Parallel.Workers)
	}
	if !cfg.Logging.Verbose {
		t.Error("expected verbose logging")
	}
}

// TestLoadFromEnv_InvalidValuesIgnored tests that unparsable values keep defaults.
func TestLoadFromEnv_InvalidValuesIgnored(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SNPRANK_K", "many")
	t.Setenv("SNPRANK_GAP", "--")

	cfg := LoadFromEnv()

	if cfg.Ranking.K != 20 {
		t.Errorf("expected k to fall back to 20, got %d", cfg.Ranking.K)
	}
	if cfg.Kernel.Gap != '-' {
		t.Errorf("expected gap to stay '-', got %q", cfg.Kernel.Gap)
	}
}

// TestLoadFromFile tests YAML loading and env precedence.
func TestLoadFromFile(t *testing.T) {
	clearEnvVars(t)

	path := filepath.Join(t.TempDir(), "snprank.yaml")
	yaml := `
input:
  reference: ref.fa
  queries: queries.fa
output:
  header: id
ranking:
  k: 7
kernel:
  tier: narrow
  gap: "."
parallel:
  workers: 2
logging:
  stats: true
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SNPRANK_K", "9")

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}

	if cfg.Input.ReferencePath != "ref.fa" || cfg.Input.QueryPath != "queries.fa" {
		t.Errorf("unexpected input paths: %+v", cfg.Input)
	}
	if cfg.Output.Header != "id" {
		t.Errorf("expected header 'id', got %q", cfg.Output.Header)
	}
	if cfg.Ranking.K != 9 {
		t.Errorf("env should override file: expected k 9, got %d", cfg.Ranking.K)
	}
	if cfg.Kernel.Tier != "narrow" || cfg.Kernel.Gap != '.' {
		t.Errorf("unexpected kernel config: %+v", cfg.Kernel)
	}
	if cfg.Parallel.Workers != 2 {
		t.Errorf("expected workers 2, got %d", cfg.Parallel.Workers)
	}
	if !cfg.Logging.Stats {
		t.Error("expected stats logging")
	}
}

func TestLoadFromFile_RankingK(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want int
	}{
		{"explicit zero", "ranking:\n  k: 0\n", 0},
		{"explicit value", "ranking:\n  k: 3\n", 3},
		{"unset keeps default", "ranking: {}\n", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			path := filepath.Join(t.TempDir(), "snprank.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}

			cfg, err := LoadFromFile(path)
			if err != nil {
				t.Fatalf("LoadFromFile() error: %v", err)
			}
			if cfg.Ranking.K != tt.want {
				t.Errorf("expected k %d, got %d", tt.want, cfg.Ranking.K)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() error: %v", err)
			}
		})
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	clearEnvVars(t)

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.Ranking.K != 20 {
		t.Errorf("expected defaults, got k %d", cfg.Ranking.K)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("ranking: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("expected parse error")
	}

	badGap := filepath.Join(dir, "gap.yaml")
	if err := os.WriteFile(badGap, []byte("kernel:\n  gap: \"NN\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(badGap); err == nil || !strings.Contains(err.Error(), "single byte") {
		t.Errorf("expected gap error, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing reference",
			modify:  func(c *Config) { c.Input.ReferencePath = "" },
			wantErr: true,
			errMsg:  "reference path",
		},
		{
			name:    "missing queries",
			modify:  func(c *Config) { c.Input.QueryPath = "" },
			wantErr: true,
			errMsg:  "query path",
		},
		{
			name:    "negative k",
			modify:  func(c *Config) { c.Ranking.K = -1 },
			wantErr: true,
			errMsg:  "result count",
		},
		{
			name:    "unknown kernel",
			modify:  func(c *Config) { c.Kernel.Tier = "avx9" },
			wantErr: true,
			errMsg:  "unknown kernel tier",
		},
		{
			name:    "gap collides with marker",
			modify:  func(c *Config) { c.Kernel.Gap = '>' },
			wantErr: true,
			errMsg:  "collides",
		},
		{
			name:    "negative workers",
			modify:  func(c *Config) { c.Parallel.Workers = -2 },
			wantErr: true,
			errMsg:  "worker count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadDefaults()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestConfig_String(t *testing.T) {
	cfg := LoadDefaults()
	s := cfg.String()
	for _, want := range []string{"really-ref.fa", "2k-snp.fa", "stdout", "K: 20", "auto"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
