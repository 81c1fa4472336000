package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/jobs"
)

const (
	remotiveURL          = "https://remotive.com/api/remote-jobs"
	defaultRemotiveLimit = 150
)

// Remotive fetches the generic remote-job feed.
type Remotive struct {
	client *Client
	logger *zap.Logger

	URL   string
	Query string
	Limit int
}

type remotiveJob struct {
	ID                        string   `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Tags                      []string `json:"tags"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	PublicationDate           string   `json:"publication_date"`
	Description               string   `json:"description"`
}

func NewRemotive(client *Client, logger *zap.Logger, query string, limit int) *Remotive {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = defaultRemotiveLimit
	}
	return &Remotive{
		client: client,
		logger: logger,
		URL:    remotiveURL,
		Query:  strings.TrimSpace(query),
		Limit:  limit,
	}
}

func (r *Remotive) Name() string { return SourceRemotive }

func (r *Remotive) Fetch(ctx context.Context) ([]*jobs.Job, error) {
	q := url.Values{}
	if r.Query != "" {
		q.Set("search", r.Query)
	}
	// The API accepts a limit too; the cap below still applies when it is ignored.
	q.Set("limit", strconv.Itoa(r.Limit))

	payload, err := r.client.getJSON(ctx, r.URL, q)
	if err != nil {
		return nil, err
	}

	items, err := itemsUnder(payload, "jobs")
	if err != nil {
		return nil, err
	}

	if len(items) > r.Limit {
		items = items[:r.Limit]
	}

	out := make([]*jobs.Job, 0, len(items))
	skipped := 0
	for idx, item := range items {
		var raw remotiveJob
		if err := decodeItem(item, &raw); err != nil || strings.TrimSpace(raw.ID) == "" {
			skipped++
			r.logger.Debug("skipping malformed item", zap.Int("index", idx), zap.Error(err))
			continue
		}
		out = append(out, raw.toJob())
	}

	if skipped > 0 {
		r.logger.Warn("malformed items skipped", zap.Int("skipped", skipped), zap.Int("kept", len(out)))
	}

	return out, nil
}

func (raw remotiveJob) toJob() *jobs.Job {
	location := strings.TrimSpace(raw.CandidateRequiredLocation)
	if location == "" {
		location = "Remote"
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}

	return &jobs.Job{
		Source:         SourceRemotive,
		SourceJobID:    strings.TrimSpace(raw.ID),
		Title:          raw.Title,
		Company:        raw.CompanyName,
		Location:       location,
		Remote:         true,
		Tags:           tags,
		URL:            raw.URL,
		DescriptionRaw: raw.Description,
		PostedAt:       raw.PublicationDate,
	}
}
