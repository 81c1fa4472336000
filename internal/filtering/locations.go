package filtering

import (
	"context"
	"strings"

	"github.com/spigell/jobpulse/internal/jobs"
)

type locationsFilter struct {
	allow []string
	block []string
}

// NewLocations creates a filter over the job location text. Any block term
// drops the job. When allow terms are set, a non-remote job must match one
// of them.
func NewLocations(allow, block []string) Filter {
	return &locationsFilter{allow: normalize(allow), block: normalize(block)}
}

func (f *locationsFilter) Name() string { return "locations" }

func (f *locationsFilter) IsEnabled() bool { return len(f.allow) > 0 || len(f.block) > 0 }

func (f *locationsFilter) Apply(_ context.Context, list []*jobs.Job) ([]*jobs.Job, Step, error) {
	if !f.IsEnabled() {
		return passThrough(list)
	}

	out, step := keep(list, f.passes)
	return out, step, nil
}

func (f *locationsFilter) passes(job *jobs.Job) bool {
	location := strings.ToLower(job.Location)

	// Blocklist wins.
	for _, b := range f.block {
		if strings.Contains(location, b) {
			return false
		}
	}

	if len(f.allow) == 0 || job.Remote {
		return true
	}

	for _, a := range f.allow {
		if strings.Contains(location, a) {
			return true
		}
	}
	return false
}

func (f *locationsFilter) Status() Status {
	details := map[string]string{}
	if len(f.allow) > 0 {
		details["allow"] = strings.Join(f.allow, ",")
	}
	if len(f.block) > 0 {
		details["block"] = strings.Join(f.block, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Details: details}
}

func normalize(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}
