package config

import (
	"log/slog"
	"testing"
)

func TestSetupBackend(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	client, err := SetupBackend(&cfg, slog.Default())
	if err != nil {
		t.Fatalf("SetupBackend() error: %v", err)
	}
	if client.BaseURL() != "http://localhost:3001/api/v1" {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
}

func TestSetupBackend_Errors(t *testing.T) {
	cfg := validConfig()
	if _, err := SetupBackend(nil, slog.Default()); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := SetupBackend(&cfg, nil); err == nil {
		t.Error("expected error for nil logger")
	}

	cfg.Backend.BaseURL = "not a url"
	if _, err := SetupBackend(&cfg, slog.Default()); err == nil {
		t.Error("expected error for invalid base url")
	}
}
