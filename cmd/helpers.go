package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/repo-browser/internal/config"
	"github.com/ziadkadry99/repo-browser/internal/gateway"
	"github.com/ziadkadry99/repo-browser/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `repobrowse init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger returns the stderr logger; --verbose overrides log_level.
func newLogger(cfg *config.Config) zerolog.Logger {
	if verbose {
		return logging.NewDefault(true)
	}
	return logging.New(nil, cfg.LogLevel)
}

// gatewayOptions points gateway clients at the configured hosts.
func gatewayOptions(cfg *config.Config, log zerolog.Logger) []gateway.Option {
	return []gateway.Option{
		gateway.WithAPIBase(cfg.APIBaseURL),
		gateway.WithWebBase(cfg.WebBaseURL),
		gateway.WithLogger(log),
	}
}

// parseCoordinate parses an OWNER/REPO argument.
func parseCoordinate(arg string) (gateway.Coordinate, error) {
	r, err := config.ParseRepository(arg)
	if err != nil {
		return gateway.Coordinate{}, err
	}
	return gateway.Coordinate{Owner: r.Owner, Repo: r.Repo}, nil
}
