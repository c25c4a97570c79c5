package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/simp-lee/logger"
	"github.com/spf13/cobra"

	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/backend"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/config"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/listing"
	"github.com/TechnoWorldDev/BRR-FE-sub005/internal/module/registry"
)

// flag names
const (
	flagAPIURL  = "api-url"
	flagConfig  = "config"
	flagCookie  = "cookie"
	flagTimeout = "timeout"
)

// environment variable names
const (
	envAPIURL = "BRR_API_URL"
)

// cliState is what the persistent flags resolve to before a subcommand runs.
type cliState struct {
	apiURL     string
	configPath string
	cookies    []string
	timeout    time.Duration

	listers []listing.Lister
	log     *logger.Logger
}

// Execute runs brrctl with os.Args.
func Execute() error {
	cmd, state := newRootCmd()
	defer state.close()
	return cmd.Execute()
}

func newRootCmd() (*cobra.Command, *cliState) {
	state := &cliState{}

	cmd := &cobra.Command{
		Use:   "brrctl",
		Short: "brrctl - command line access to the BRR admin lists",
		Long: `brrctl reads the admin lists (leads, brands, residences, ...) through the
same list query the dashboard uses, and prints them as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&state.apiURL, flagAPIURL, "s", backend.DefaultOptions().BaseURL, "Backend API base URL (env: "+envAPIURL+")")
	cmd.PersistentFlags().StringVarP(&state.configPath, flagConfig, "c", "", "Path to the dashboard config file (optional)")
	cmd.PersistentFlags().StringArrayVar(&state.cookies, flagCookie, nil, "Session cookie forwarded to the backend, as name=value (repeatable)")
	cmd.PersistentFlags().DurationVar(&state.timeout, flagTimeout, 0, "Backend request timeout (default from config)")

	cmd.AddCommand(newListCmd(state))
	cmd.AddCommand(newResourcesCmd(state))
	return cmd, state
}

// init resolves the backend address with precedence flag > env > config >
// default, then builds every list.
func (s *cliState) init(cmd *cobra.Command) error {
	opts := backend.DefaultOptions()
	listOpts := listing.Options{
		PageSize:     config.DefaultPageSize,
		MaxReconcile: config.DefaultMaxReconcile,
	}
	logCfg := config.LogConfig{Level: "warn", Format: "text"}

	if s.configPath != "" {
		cfg, err := config.Load(s.configPath)
		if err != nil {
			return err
		}
		opts.BaseURL = cfg.Backend.BaseURL
		opts.Timeout = cfg.BackendTimeout()
		opts.SessionCookie = cfg.Backend.SessionCookie
		if cfg.Backend.UserAgent != "" {
			opts.UserAgent = cfg.Backend.UserAgent
		}
		listOpts.PageSize = cfg.Listing.PageSize
		listOpts.MaxReconcile = cfg.Listing.MaxReconcile
		logCfg = cfg.Log
	}

	if cmd.Flags().Changed(flagAPIURL) {
		opts.BaseURL = s.apiURL
	} else if env := strings.TrimSpace(os.Getenv(envAPIURL)); env != "" {
		opts.BaseURL = env
	}
	if strings.TrimSpace(opts.BaseURL) == "" {
		return errors.New("backend API URL cannot be empty")
	}
	if cmd.Flags().Changed(flagTimeout) {
		if s.timeout <= 0 {
			return fmt.Errorf("--%s must be positive", flagTimeout)
		}
		opts.Timeout = s.timeout
	}

	// Logs go to stderr so stdout stays valid JSON.
	noColor := false
	logCfg.Color = &noColor
	log, err := config.SetupLogger(&logCfg, logger.WithConsoleWriter(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	s.log = log

	client, err := backend.NewClient(opts)
	if err != nil {
		return err
	}
	s.apiURL = client.BaseURL()

	listOpts.Logger = log.Logger
	s.listers, err = registry.New(client, listOpts)
	return err
}

// context attaches the --cookie session to ctx.
func (s *cliState) context(ctx context.Context) (context.Context, error) {
	if len(s.cookies) == 0 {
		return ctx, nil
	}
	cookies := make([]*http.Cookie, 0, len(s.cookies))
	for _, raw := range s.cookies {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --%s %q: want name=value", flagCookie, raw)
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	return backend.WithSession(ctx, backend.Session{Cookies: cookies}), nil
}

func (s *cliState) close() {
	if s.log != nil {
		_ = s.log.Close()
		s.log = nil
	}
}
