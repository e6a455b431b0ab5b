package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("defaults failed to load: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if cfg.Conversion.OutputExtension != ".xaml" {
		t.Errorf("output extension = %q, want .xaml", cfg.Conversion.OutputExtension)
	}
	if cfg.Conversion.Fragment || cfg.Conversion.Overwrite {
		t.Errorf("conversion defaults should be off: %+v", cfg.Conversion)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("console level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfigurationOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
version: 1
conversion:
  fragment: true
  output_extension: .flow
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.Conversion.Fragment {
		t.Error("fragment override lost")
	}
	if cfg.Conversion.OutputExtension != ".flow" {
		t.Errorf("extension = %q, want .flow", cfg.Conversion.OutputExtension)
	}
	// untouched sections keep their defaults
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("console level = %q, want the default", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfigurationRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bogus: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfiguration(path); err == nil {
		t.Error("unknown field must be rejected")
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing file must error")
	}
}
