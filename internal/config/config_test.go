package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Decoder.NumThreads != -1 {
		t.Errorf("num_threads = %d", cfg.Decoder.NumThreads)
	}
	if cfg.Decoder.MaxFieldValuePairs != 4096 || cfg.Decoder.MaxElementSize != 1024 || cfg.Decoder.MaxPrimNestLevel != 256 {
		t.Errorf("decoder limits = %+v", cfg.Decoder)
	}
	if !cfg.Catalog.Enabled {
		t.Error("catalog must default to enabled")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[logging]
level = "debug"
format = "json"

[decoder]
num_threads = 4
max_prim_nest_level = 64

[catalog]
enabled = false
path = "/tmp/stagecrate-test/catalog.db"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Decoder.NumThreads != 4 {
		t.Errorf("num_threads = %d", cfg.Decoder.NumThreads)
	}
	if cfg.Decoder.MaxPrimNestLevel != 64 {
		t.Errorf("max_prim_nest_level = %d", cfg.Decoder.MaxPrimNestLevel)
	}
	// Unset fields keep their defaults.
	if cfg.Decoder.MaxFieldValuePairs != 4096 {
		t.Errorf("max_fieldvalue_pairs = %d", cfg.Decoder.MaxFieldValuePairs)
	}
	if cfg.Catalog.Enabled {
		t.Error("catalog.enabled = true, want false")
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("explicit missing config must fail")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"zero threads", func(c *Config) { c.Decoder.NumThreads = 0 }},
		{"negative pairs", func(c *Config) { c.Decoder.MaxFieldValuePairs = -1 }},
		{"zero nest level", func(c *Config) { c.Decoder.MaxPrimNestLevel = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate must fail")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/data/x.usdc")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if !strings.HasPrefix(got, home) || !strings.HasSuffix(got, filepath.Join("data", "x.usdc")) {
		t.Errorf("expanded = %q", got)
	}

	if got, _ := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path changed: %q", got)
	}
}
