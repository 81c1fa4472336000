package sources

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/jobs"
)

const (
	greenhouseURL     = "https://boards-api.greenhouse.io/v1/boards"
	emptyLocationMark = "—"
)

// Greenhouse fetches a single company board by its token.
type Greenhouse struct {
	client *Client
	logger *zap.Logger

	URL   string
	Token string
}

type greenhouseJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"`
	CompanyName string `json:"company_name"`
	Company     struct {
		Name string `json:"name"`
	} `json:"company"`
	Location struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

func NewGreenhouse(client *Client, logger *zap.Logger, token string) *Greenhouse {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Greenhouse{
		client: client,
		logger: logger,
		URL:    greenhouseURL,
		Token:  strings.TrimSpace(token),
	}
}

func (g *Greenhouse) Name() string { return boardSource(SourceGreenhouse, g.Token) }

func (g *Greenhouse) Fetch(ctx context.Context) ([]*jobs.Job, error) {
	if g.Token == "" {
		return nil, fmt.Errorf("board token is required")
	}

	endpoint := fmt.Sprintf("%s/%s/jobs", strings.TrimRight(g.URL, "/"), url.PathEscape(g.Token))
	q := url.Values{}
	q.Set("content", "true")

	payload, err := g.client.getJSON(ctx, endpoint, q)
	if err != nil {
		return nil, err
	}

	items, err := itemsUnder(payload, "jobs")
	if err != nil {
		return nil, err
	}

	out := make([]*jobs.Job, 0, len(items))
	skipped := 0
	for idx, item := range items {
		var raw greenhouseJob
		if err := decodeItem(item, &raw); err != nil || strings.TrimSpace(raw.ID) == "" {
			skipped++
			g.logger.Debug("skipping malformed item", zap.Int("index", idx), zap.Error(err))
			continue
		}
		out = append(out, raw.toJob(g.Token))
	}

	if skipped > 0 {
		g.logger.Warn("malformed items skipped", zap.Int("skipped", skipped), zap.Int("kept", len(out)))
	}

	return out, nil
}

func (raw greenhouseJob) toJob(token string) *jobs.Job {
	company := strings.TrimSpace(raw.Company.Name)
	if company == "" {
		company = strings.TrimSpace(raw.CompanyName)
	}
	if company == "" {
		company = token
	}

	location := strings.TrimSpace(raw.Location.Name)
	remote := isRemote(location)
	if location == "" {
		location = emptyLocationMark
	}

	tags := make([]string, 0, len(raw.Departments))
	for _, d := range raw.Departments {
		if name := strings.TrimSpace(d.Name); name != "" {
			tags = append(tags, name)
		}
	}

	return &jobs.Job{
		Source:      boardSource(SourceGreenhouse, token),
		SourceJobID: strings.TrimSpace(raw.ID),
		Title:       raw.Title,
		Company:     company,
		Location:    location,
		Remote:      remote,
		Tags:        tags,
		URL:         raw.AbsoluteURL,
		// Board content comes HTML-escaped.
		DescriptionRaw: html.UnescapeString(raw.Content),
		PostedAt:       raw.UpdatedAt,
	}
}
