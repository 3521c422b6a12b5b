package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AhmadFikry/subscription-recovery/internal/negotiator"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Model != negotiator.DefaultModelName {
		t.Errorf("Model = %q, want %q", cfg.Model, negotiator.DefaultModelName)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}

	cols := cfg.IngestColumns()
	if cols.Date != "date" || cols.Merchant != "merchant" || cols.Amount != "amount" {
		t.Errorf("default columns = %+v", cols)
	}
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load on missing file = %+v, want defaults", cfg)
	}
}

func TestLoad_OverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "model: gemini-2.5-pro\ncolumns:\n  date: posted_on\n  merchant: payee\n  amount: value\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q, want gemini-2.5-pro", cfg.Model)
	}
	// log_level is absent from the file and keeps its default.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}

	cols := cfg.IngestColumns()
	if cols.Date != "posted_on" || cols.Merchant != "payee" || cols.Amount != "value" {
		t.Errorf("columns = %+v", cols)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed YAML")
	}
}

func TestLoad_EmptyColumnNameRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "columns:\n  date: \"\"\n  merchant: payee\n  amount: value\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load accepted an empty column name")
	}
}
