package sources

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobpulse/internal/logger"
)

const defaultTimeout = 30 * time.Second

// RunnerConfig configures adapters built by the Runner.
// Empty URLs fall back to the public endpoints.
type RunnerConfig struct {
	Timeout       time.Duration
	RemotiveLimit int

	RemotiveURL   string
	GreenhouseURL string
	LeverURL      string
}

// Runner builds adapters for a fetch cycle and runs them concurrently.
type Runner struct {
	client *Client
	cfg    RunnerConfig
	logger *zap.Logger
}

func NewRunner(client *Client, cfg RunnerConfig, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Runner{client: client, cfg: cfg, logger: log}
}

// Adapters returns the generic feed adapter followed by one adapter per board.
func (r *Runner) Adapters(query string, boards Boards) []Adapter {
	boards = boards.Normalized()
	adapters := make([]Adapter, 0, 1+boards.Len())

	remotive := NewRemotive(r.client, r.sourceLogger(SourceRemotive), query, r.cfg.RemotiveLimit)
	if r.cfg.RemotiveURL != "" {
		remotive.URL = r.cfg.RemotiveURL
	}
	adapters = append(adapters, remotive)

	for _, token := range boards.Greenhouse {
		gh := NewGreenhouse(r.client, r.sourceLogger(boardSource(SourceGreenhouse, token)), token)
		if r.cfg.GreenhouseURL != "" {
			gh.URL = r.cfg.GreenhouseURL
		}
		adapters = append(adapters, gh)
	}

	for _, token := range boards.Lever {
		lv := NewLever(r.client, r.sourceLogger(boardSource(SourceLever, token)), token)
		if r.cfg.LeverURL != "" {
			lv.URL = r.cfg.LeverURL
		}
		adapters = append(adapters, lv)
	}

	return adapters
}

// FetchAll runs the generic feed with query plus every selected board.
func (r *Runner) FetchAll(ctx context.Context, query string, boards Boards) []Result {
	return r.Run(ctx, r.Adapters(query, boards))
}

// Run calls every adapter concurrently and waits for all of them.
// Results keep the adapter order. A failing adapter never cancels its
// siblings: its Result carries a *FetchError and no jobs.
func (r *Runner) Run(ctx context.Context, adapters []Adapter) []Result {
	results := make([]Result, len(adapters))

	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			results[i] = r.fetchOne(ctx, a)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) fetchOne(ctx context.Context, a Adapter) Result {
	name := a.Name()
	log := r.sourceLogger(name)

	fctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	start := time.Now()
	found, err := a.Fetch(fctx)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &FetchError{Source: name, Err: err}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			fetchErr.Err = fmt.Errorf("timed out after %s: %w", r.cfg.Timeout, err)
		}
		log.Warn("fetch failed", zap.Error(fetchErr), zap.Duration("elapsed", time.Since(start)))
		return Result{Source: name, Err: fetchErr}
	}

	log.Info("fetched", zap.Int("count", len(found)), zap.Duration("elapsed", time.Since(start)))
	return Result{Source: name, Jobs: found}
}

func (r *Runner) sourceLogger(source string) *zap.Logger {
	return logger.WithFields(r.logger, logger.SourceFields(source)...)
}
