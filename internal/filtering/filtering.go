package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/jobs"
)

// Filter represents a single exclusion step applied to freshly fetched jobs.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(ctx context.Context, list []*jobs.Job) ([]*jobs.Job, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Run executes the supplied filters sequentially and returns the jobs left.
// The input slice is never modified.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, list []*jobs.Job) ([]*jobs.Job, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if step == nil {
			continue
		}
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, list)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		list = next
	}

	return list, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the jobs for which pred is true, in order, and the step summary.
func keep(list []*jobs.Job, pred func(*jobs.Job) bool) ([]*jobs.Job, Step) {
	out := make([]*jobs.Job, 0, len(list))
	for _, job := range list {
		if pred(job) {
			out = append(out, job)
		}
	}
	return out, Step{Initial: len(list), Dropped: len(list) - len(out), Left: len(out)}
}

func passThrough(list []*jobs.Job) ([]*jobs.Job, Step, error) {
	return list, Step{Initial: len(list), Left: len(list)}, nil
}
