package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/ai"
	"github.com/spigell/jobpulse/internal/ai/gemini"
	"github.com/spigell/jobpulse/internal/ai/hashing"
	"github.com/spigell/jobpulse/internal/filtering"
	"github.com/spigell/jobpulse/internal/resume"
	"github.com/spigell/jobpulse/internal/secrets"
	"github.com/spigell/jobpulse/internal/session"
	"github.com/spigell/jobpulse/internal/sources"
)

func newSession(ctx context.Context, config *Config, logger *zap.Logger) (*session.Session, error) {
	embedder, err := newEmbedder(ctx, config.Embedder, logger)
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}

	limiter := sources.NewHostLimiter(config.Fetch.RequestsPerSecond, config.Fetch.Burst)
	client := sources.NewClient(logger, limiter)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	runner := sources.NewRunner(client, sources.RunnerConfig{
		Timeout:       config.Fetch.Timeout,
		RemotiveLimit: config.Fetch.Limit,
	}, logger)

	return session.New(session.Deps{
		Fetcher:   runner,
		Embedder:  embedder,
		Extractor: resume.NewExtractor(config.Resume, logger),
		Filters:   newFilters(config.Exclude),
		Logger:    logger,
	}, session.Config{Skills: config.Skills}), nil
}

func newFilters(cfg *ExcludeConfig) []filtering.Filter {
	if cfg == nil {
		cfg = &ExcludeConfig{}
	}
	return []filtering.Filter{
		filtering.NewExcludedCompanies(cfg.Companies),
		filtering.NewRemoteOnly(cfg.RemoteOnly),
		filtering.NewLocations(cfg.LocationsAllow, cfg.LocationsBlock),
	}
}

func newEmbedder(ctx context.Context, cfg *EmbedderConfig, logger *zap.Logger) (ai.Embedder, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", "hashing":
		return hashing.New(cfg.Dimensions), nil
	case "gemini":
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:           "gemini api key",
		File:           cfg.Gemini.APIKeyFile,
		KeyringAccount: cfg.Gemini.KeyringAccount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set embedder.gemini.api-key-file, JOBPULSE_GEMINI_API_KEY_FILE or embedder.gemini.keyring-account)", err)
	}

	embedder, err := gemini.NewEmbedder(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, logger)
	if err != nil {
		return nil, err
	}
	return embedder, nil
}
