package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
)

// SetupBackend builds the backend API client from cfg.
func SetupBackend(cfg *Config, logger *slog.Logger) (*backend.Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	client, err := backend.NewClient(backend.Options{
		BaseURL:       cfg.Backend.BaseURL,
		Timeout:       cfg.BackendTimeout(),
		UserAgent:     cfg.Backend.UserAgent,
		SessionCookie: cfg.Backend.SessionCookie,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	logger.Info("backend client configured",
		"base_url", client.BaseURL(),
		"timeout", cfg.BackendTimeout().String(),
	)
	return client, nil
}
