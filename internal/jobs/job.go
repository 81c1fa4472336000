package jobs

import "fmt"

type Job struct {
	Source         string   `json:"source"`
	SourceJobID    string   `json:"source_job_id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Remote         bool     `json:"remote"`
	Tags           []string `json:"tags"`
	URL            string   `json:"url,omitempty"`
	DescriptionRaw string   `json:"description,omitempty"`
	PostedAt       string   `json:"posted_at,omitempty"`

	// DescriptionClean is filled once by PrepareDescriptions.
	DescriptionClean string   `json:"clean_description,omitempty"`
	Score            *float64 `json:"score,omitempty"`

	cleaned bool
}

// Key returns the dedup key of the job: "<source>:<source job id>".
func (j *Job) Key() string {
	return MakeKey(j.Source, j.SourceJobID)
}

func MakeKey(source, sourceJobID string) string {
	return fmt.Sprintf("%s:%s", source, sourceJobID)
}

func (j *Job) Cleaned() bool {
	return j.cleaned
}

// SetScore stores a copy of the score on the job.
func (j *Job) SetScore(score float64) {
	s := score
	j.Score = &s
}

func (j *Job) ClearScore() {
	j.Score = nil
}

// ScoreValue returns the score or zero when the job has not been ranked.
func (j *Job) ScoreValue() float64 {
	if j.Score == nil {
		return 0
	}
	return *j.Score
}

// PrepareDescriptions fills DescriptionClean for every job that has not been
// cleaned yet. It is run once right after a merge so later ranking and
// filtering passes reuse the cached text.
func PrepareDescriptions(list []*Job, clean func(string) string) int {
	cleaned := 0
	for _, j := range list {
		if j == nil || j.cleaned {
			continue
		}
		j.DescriptionClean = clean(j.DescriptionRaw)
		j.cleaned = true
		cleaned++
	}
	return cleaned
}

// FindByKey returns the first job with the given key or nil.
func FindByKey(list []*Job, key string) *Job {
	for _, j := range list {
		if j.Key() == key {
			return j
		}
	}
	return nil
}

// Keys returns keys of the jobs in order.
func Keys(list []*Job) []string {
	keys := make([]string, 0, len(list))
	for _, j := range list {
		keys = append(keys, j.Key())
	}
	return keys
}

// ReportBySource groups job titles by their source for a quick overview.
func ReportBySource(list []*Job) map[string][]string {
	report := make(map[string][]string)
	for _, j := range list {
		report[j.Source] = append(report[j.Source], fmt.Sprintf("%s (%s)", j.Title, j.Company))
	}
	return report
}
