package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/jobs"
)

const leverURL = "https://api.lever.co/v0/postings"

// Lever fetches the public postings of a single company.
type Lever struct {
	client *Client
	logger *zap.Logger

	URL   string
	Token string
}

type leverPosting struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	HostedURL     string `json:"hostedUrl"`
	CreatedAt     int64  `json:"createdAt"`
	Description   string `json:"description"`
	WorkplaceType string `json:"workplaceType"`
	Categories    struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
}

func NewLever(client *Client, logger *zap.Logger, token string) *Lever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lever{
		client: client,
		logger: logger,
		URL:    leverURL,
		Token:  strings.TrimSpace(token),
	}
}

func (l *Lever) Name() string { return boardSource(SourceLever, l.Token) }

func (l *Lever) Fetch(ctx context.Context) ([]*jobs.Job, error) {
	if l.Token == "" {
		return nil, fmt.Errorf("company token is required")
	}

	endpoint := fmt.Sprintf("%s/%s", strings.TrimRight(l.URL, "/"), url.PathEscape(l.Token))
	q := url.Values{}
	q.Set("mode", "json")

	payload, err := l.client.getJSON(ctx, endpoint, q)
	if err != nil {
		return nil, err
	}

	items, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected payload: expected array, got %T", payload)
	}

	out := make([]*jobs.Job, 0, len(items))
	skipped := 0
	for idx, item := range items {
		var raw leverPosting
		if err := decodeItem(item, &raw); err != nil || strings.TrimSpace(raw.ID) == "" {
			skipped++
			l.logger.Debug("skipping malformed item", zap.Int("index", idx), zap.Error(err))
			continue
		}
		out = append(out, raw.toJob(l.Token))
	}

	if skipped > 0 {
		l.logger.Warn("malformed items skipped", zap.Int("skipped", skipped), zap.Int("kept", len(out)))
	}

	return out, nil
}

func (raw leverPosting) toJob(token string) *jobs.Job {
	location := strings.TrimSpace(raw.Categories.Location)

	tags := make([]string, 0, 2)
	for _, t := range []string{raw.Categories.Team, raw.Categories.Commitment} {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	postedAt := ""
	if raw.CreatedAt > 0 {
		postedAt = time.UnixMilli(raw.CreatedAt).UTC().Format(time.RFC3339)
	}

	return &jobs.Job{
		Source:         boardSource(SourceLever, token),
		SourceJobID:    strings.TrimSpace(raw.ID),
		Title:          raw.Text,
		Company:        token,
		Location:       location,
		Remote:         strings.EqualFold(raw.WorkplaceType, "remote") || isRemote(location),
		Tags:           tags,
		URL:            raw.HostedURL,
		DescriptionRaw: raw.Description,
		PostedAt:       postedAt,
	}
}
