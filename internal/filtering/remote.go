package filtering

import (
	"context"

	"github.com/spigell/jobpulse/internal/jobs"
)

type remoteOnlyFilter struct {
	enabled bool
}

// NewRemoteOnly creates a filter that keeps only remote jobs when enabled.
func NewRemoteOnly(enabled bool) Filter {
	return &remoteOnlyFilter{enabled: enabled}
}

func (f *remoteOnlyFilter) Name() string { return "remote_only" }

func (f *remoteOnlyFilter) IsEnabled() bool { return f.enabled }

func (f *remoteOnlyFilter) Apply(_ context.Context, list []*jobs.Job) ([]*jobs.Job, Step, error) {
	if !f.enabled {
		return passThrough(list)
	}

	out, step := keep(list, func(job *jobs.Job) bool { return job.Remote })
	return out, step, nil
}
