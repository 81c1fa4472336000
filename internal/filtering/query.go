package filtering

import (
	"strings"

	"github.com/spigell/jobpulse/internal/jobs"
)

// Query returns the jobs whose searchable text contains the query,
// case-insensitively and in input order. A blank query returns list itself.
func Query(list []*jobs.Job, query string) []*jobs.Job {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}

	out := make([]*jobs.Job, 0, len(list))
	for _, job := range list {
		if strings.Contains(searchText(job), q) {
			out = append(out, job)
		}
	}
	return out
}

func searchText(job *jobs.Job) string {
	parts := []string{
		job.Title,
		job.Company,
		job.Location,
		strings.Join(job.Tags, " "),
		job.DescriptionClean,
	}
	return strings.ToLower(strings.Join(parts, " "))
}
