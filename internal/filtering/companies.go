package filtering

import (
	"context"
	"strings"

	"github.com/spigell/jobpulse/internal/jobs"
)

type companiesFilter struct {
	companies map[string]struct{}
	names     []string
}

// NewExcludedCompanies creates a filter that drops jobs posted by the listed companies.
func NewExcludedCompanies(names []string) Filter {
	f := &companiesFilter{companies: make(map[string]struct{})}
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := f.companies[key]; ok {
			continue
		}
		f.companies[key] = struct{}{}
		f.names = append(f.names, key)
	}
	return f
}

func (f *companiesFilter) Name() string { return "excluded_companies" }

func (f *companiesFilter) IsEnabled() bool { return len(f.companies) > 0 }

func (f *companiesFilter) Apply(_ context.Context, list []*jobs.Job) ([]*jobs.Job, Step, error) {
	if len(f.companies) == 0 {
		return passThrough(list)
	}

	out, step := keep(list, func(job *jobs.Job) bool {
		_, excluded := f.companies[strings.ToLower(strings.TrimSpace(job.Company))]
		return !excluded
	})
	return out, step, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["companies"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Details: details}
}
