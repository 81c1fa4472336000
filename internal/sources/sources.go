// Package sources fetches job postings from public job boards and maps them
// into the canonical jobs.Job record.
package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/jobpulse/internal/jobs"
)

const (
	SourceRemotive   = "remotive"
	SourceGreenhouse = "greenhouse"
	SourceLever      = "lever"
)

// Adapter fetches one external feed.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]*jobs.Job, error)
}

// Result is the outcome of a single adapter call.
// Err is always a *FetchError when set.
type Result struct {
	Source string
	Jobs   []*jobs.Job
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }

// FetchError reports a failed adapter call: network failure, non-success
// status or unparseable payload.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Boards selects per-company boards by provider.
type Boards struct {
	Greenhouse []string `mapstructure:"greenhouse" yaml:"greenhouse" json:"greenhouse"`
	Lever      []string `mapstructure:"lever" yaml:"lever" json:"lever"`
}

func (b Boards) Len() int {
	return len(b.Greenhouse) + len(b.Lever)
}

// Normalized returns a copy with trimmed, lowercased and deduplicated tokens.
func (b Boards) Normalized() Boards {
	return Boards{
		Greenhouse: normalizeTokens(b.Greenhouse),
		Lever:      normalizeTokens(b.Lever),
	}
}

func normalizeTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// isRemote reports whether free-text location mentions remote work.
func isRemote(location string) bool {
	return strings.Contains(strings.ToLower(location), "remote")
}

func boardSource(provider, token string) string {
	return provider + ":" + token
}
