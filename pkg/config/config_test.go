package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ListenAddr != "0.0.0.0:8080" {
		t.Errorf("ListenAddr = %q, want 0.0.0.0:8080", cfg.ListenAddr)
	}
	if cfg.MaxAncestryProofHeaders != 4096 || cfg.MaxPrecommits != 4096 {
		t.Errorf("unexpected policy bounds: %+v", cfg)
	}
	if cfg.DBConnMaxLifetime != time.Hour {
		t.Errorf("DBConnMaxLifetime = %v, want 1h", cfg.DBConnMaxLifetime)
	}
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != DefaultConfig().ListenAddr {
		t.Errorf("ListenAddr = %q, want default", cfg.ListenAddr)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoadYAMLFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	yaml := "listen_addr: \"127.0.0.1:9999\"\nmax_precommits: 10\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("ListenAddr = %q, want 127.0.0.1:9999", cfg.ListenAddr)
	}
	if cfg.MaxPrecommits != 10 {
		t.Errorf("MaxPrecommits = %d, want 10", cfg.MaxPrecommits)
	}
	if cfg.MaxAncestryProofHeaders != 4096 {
		t.Errorf("MaxAncestryProofHeaders = %d, want unchanged default 4096", cfg.MaxAncestryProofHeaders)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: \"127.0.0.1:9999\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("BRIDGE_LISTEN_ADDR", "0.0.0.0:7000")
	t.Setenv("BRIDGE_AUTHORIZED_ORIGINS", "relay-a, relay-b")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != "0.0.0.0:7000" {
		t.Errorf("ListenAddr = %q, want env override", cfg.ListenAddr)
	}
	if len(cfg.AuthorizedOrigins) != 2 || cfg.AuthorizedOrigins[0] != "relay-a" || cfg.AuthorizedOrigins[1] != "relay-b" {
		t.Errorf("AuthorizedOrigins = %v, want [relay-a relay-b]", cfg.AuthorizedOrigins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults missing origins", func(c *Config) {}, true},
		{"valid", func(c *Config) { c.AuthorizedOrigins = []string{"relay"} }, false},
		{"empty listen addr", func(c *Config) {
			c.AuthorizedOrigins = []string{"relay"}
			c.ListenAddr = ""
		}, true},
		{"zero max precommits", func(c *Config) {
			c.AuthorizedOrigins = []string{"relay"}
			c.MaxPrecommits = 0
		}, true},
		{"zero max ancestry headers", func(c *Config) {
			c.AuthorizedOrigins = []string{"relay"}
			c.MaxAncestryProofHeaders = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
