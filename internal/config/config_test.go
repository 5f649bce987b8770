package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/techadvisor/techadvisor/pkg/core"
)

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		key   string
		value string
		ok    bool
	}{
		{"plain", "GEMINI_API_KEY=abc123", "GEMINI_API_KEY", "abc123", true},
		{"export prefix", "export TECHADVISOR_VOICE=Kore", "TECHADVISOR_VOICE", "Kore", true},
		{"double quoted", `KEY="hello world"`, "KEY", "hello world", true},
		{"single quoted", "KEY='hi'", "KEY", "hi", true},
		{"spaces around equals", "  KEY = value  ", "KEY", "value", true},
		{"comment", "# KEY=value", "", "", false},
		{"blank", "   ", "", "", false},
		{"no equals", "JUSTAKEY", "", "", false},
		{"empty key", "=value", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, ok := parseEnvLine(tt.line)
			if ok != tt.ok || key != tt.key || value != tt.value {
				t.Errorf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.line, key, value, ok, tt.key, tt.value, tt.ok)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "GEMINI_API_KEY=file-key\nTECHADVISOR_MODEL=gemini-2.5-pro\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "")
	os.Unsetenv(EnvAPIKey)
	t.Setenv(EnvModel, "")
	os.Unsetenv(EnvModel)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Model)
	}
}

func TestLoadEnvironmentWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("GEMINI_API_KEY=file-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want the environment value", cfg.APIKey)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("explicitly named missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if core.TypeOf(err) != core.ErrConfiguration {
		t.Errorf("error = %v, want configuration error", err)
	}

	cfg.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate with key: %v", err)
	}
}
