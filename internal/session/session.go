// Package session owns the working set of one interactive run: the fetched
// jobs, the active query, the resume and the saved job keys.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/ai"
	"github.com/spigell/jobpulse/internal/filtering"
	"github.com/spigell/jobpulse/internal/jobs"
	"github.com/spigell/jobpulse/internal/logger"
	"github.com/spigell/jobpulse/internal/matching"
	"github.com/spigell/jobpulse/internal/sources"
	"github.com/spigell/jobpulse/internal/textclean"
)

const minRankTop = 50

var (
	ErrNoResume = errors.New("no resume loaded")
	ErrNoJobs   = errors.New("no jobs fetched")
)

// Fetcher runs every adapter for a fetch cycle. *sources.Runner implements it.
type Fetcher interface {
	FetchAll(ctx context.Context, query string, boards sources.Boards) []sources.Result
}

// Extractor turns an uploaded resume into text. *resume.Extractor implements it.
type Extractor interface {
	ExtractText(ctx context.Context, r io.Reader) (string, error)
}

type Deps struct {
	Fetcher   Fetcher
	Embedder  ai.Embedder
	Extractor Extractor
	// Cleaner defaults to textclean.Clean.
	Cleaner func(string) string
	Filters []filtering.Filter
	Logger  *zap.Logger
}

type Config struct {
	// Skills is the vocabulary for MatchedSkills; nil uses matching.DefaultSkills.
	Skills []string
}

// Failure describes one adapter that failed during a fetch.
type Failure struct {
	Source string
	Err    error
}

type FetchReport struct {
	// PerSource holds the job count of every adapter that succeeded, keyed by source.
	PerSource map[string]int
	Failures  []Failure
	Merged    int
	Excluded  int
	Total     int
	// Stale is set when every source failed and the previous jobs were kept.
	Stale bool
}

// Session is safe for concurrent use; every operation holds the session lock.
type Session struct {
	mu sync.Mutex

	id     string
	deps   Deps
	cfg    Config
	logger *zap.Logger

	jobs     []*jobs.Job
	filtered []*jobs.Job
	saved    map[string]struct{}
	query    string
	resume   string
	fetched  bool
	report   *FetchReport
}

func New(deps Deps, cfg Config) *Session {
	if deps.Cleaner == nil {
		deps.Cleaner = textclean.Clean
	}

	id := uuid.NewString()
	log := logger.WithFields(deps.Logger, logger.StringFields(logger.StringField{Key: logger.FieldSession, Value: id})...)

	return &Session{
		id:     id,
		deps:   deps,
		cfg:    cfg,
		logger: log,
		saved:  make(map[string]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// FetchAll replaces the working jobs with a fresh fetch from every adapter.
// Adapter failures are reported, never returned as an error.
func (s *Session) FetchAll(ctx context.Context, boards sources.Boards) (*FetchReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetchLocked(ctx, boards)
}

// EnsureFetched fetches only when nothing was fetched during this session yet.
func (s *Session) EnsureFetched(ctx context.Context, boards sources.Boards) (*FetchReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetched {
		return s.report, nil
	}
	return s.fetchLocked(ctx, boards)
}

func (s *Session) fetchLocked(ctx context.Context, boards sources.Boards) (*FetchReport, error) {
	if s.deps.Fetcher == nil {
		return nil, errors.New("fetcher is not configured")
	}

	results := s.deps.Fetcher.FetchAll(ctx, s.query, boards)

	report := &FetchReport{PerSource: make(map[string]int, len(results))}
	lists := make([][]*jobs.Job, 0, len(results))
	for _, res := range results {
		if !res.OK() {
			report.Failures = append(report.Failures, Failure{Source: res.Source, Err: res.Err})
			s.logger.Warn("source failed", append(logger.SourceFields(res.Source), zap.Error(res.Err))...)
			continue
		}
		report.PerSource[res.Source] = len(res.Jobs)
		lists = append(lists, res.Jobs)
	}

	if len(lists) == 0 && len(report.Failures) > 0 {
		report.Stale = true
		report.Total = len(s.jobs)
		s.report = report
		s.logger.Warn("every source failed; keeping previous jobs",
			zap.Int("failed", len(report.Failures)),
			zap.Int("kept", len(s.jobs)),
		)
		return report, nil
	}

	merged := jobs.Merge(lists)
	report.Merged = len(merged)

	kept, err := filtering.Run(ctx, s.logger, s.deps.Filters, merged)
	if err != nil {
		return nil, fmt.Errorf("apply exclusion filters: %w", err)
	}
	report.Excluded = len(merged) - len(kept)
	report.Total = len(kept)

	for _, job := range kept {
		job.ClearScore()
	}
	jobs.PrepareDescriptions(kept, s.deps.Cleaner)

	s.jobs = kept
	s.refilterLocked()
	s.fetched = true
	s.report = report

	s.logger.Info("jobs fetched",
		zap.Int("sources", len(results)),
		zap.Int("failed", len(report.Failures)),
		zap.Int("merged", report.Merged),
		zap.Int("excluded", report.Excluded),
		zap.Int("total", report.Total),
	)

	return report, nil
}

// ApplyFilter stores the query and recomputes the filtered view.
func (s *Session) ApplyFilter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.refilterLocked()
}

func (s *Session) refilterLocked() {
	s.filtered = filtering.Query(s.jobs, s.query)
}

func (s *Session) SetResume(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resume = text
}

// LoadResume extracts text from r and replaces the stored resume. On failure
// the previous resume is kept.
func (s *Session) LoadResume(ctx context.Context, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Extractor == nil {
		return "", errors.New("resume extractor is not configured")
	}

	text, err := s.deps.Extractor.ExtractText(ctx, r)
	if err != nil {
		return "", err
	}

	s.resume = text
	s.logger.Info("resume loaded", zap.Int("runes", len([]rune(text))))
	return text, nil
}

// Rank scores every job against the stored resume and reorders the working
// set by score. On error the jobs and their scores are left as they were.
func (s *Session) Rank(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(s.resume) == "" {
		return ErrNoResume
	}
	if len(s.jobs) == 0 {
		return ErrNoJobs
	}

	topN := max(minRankTop, len(s.jobs))
	scored, err := matching.Rank(ctx, s.deps.Embedder, s.resume, s.jobs, topN)
	if err != nil {
		return err
	}

	ranked := make([]*jobs.Job, 0, len(scored))
	for _, sc := range scored {
		sc.Job.SetScore(sc.Score)
		ranked = append(ranked, sc.Job)
	}

	jobs.PrepareDescriptions(ranked, s.deps.Cleaner)
	s.jobs = ranked
	s.refilterLocked()

	fields := []zap.Field{zap.Int("ranked", len(ranked))}
	if s.deps.Embedder != nil {
		fields = append(fields, logger.EmbedderFields(s.deps.Embedder.Provider(), s.deps.Embedder.Model())...)
	}
	if len(ranked) > 0 {
		fields = append(fields, zap.Float64("top_score", ranked[0].ScoreValue()))
	}
	s.logger.Info("jobs ranked", fields...)

	return nil
}

// ToggleSave marks the job as saved. Saving twice is a no-op.
func (s *Session) ToggleSave(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved[key] = struct{}{}
}

func (s *Session) Unsave(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.saved, key)
}

func (s *Session) IsSaved(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.saved[key]
	return ok
}

// SavedView returns the saved jobs among the visible ones, so an active
// query narrows it too.
func (s *Session) SavedView() []*jobs.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*jobs.Job{}
	for _, job := range s.visibleLocked() {
		if _, ok := s.saved[job.Key()]; ok {
			out = append(out, job)
		}
	}
	return out
}

func (s *Session) Jobs() []*jobs.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clone(s.jobs)
}

func (s *Session) Filtered() []*jobs.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clone(s.filtered)
}

// Visible is the filtered list when a query is active, otherwise all jobs.
func (s *Session) Visible() []*jobs.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clone(s.visibleLocked())
}

func (s *Session) visibleLocked() []*jobs.Job {
	if strings.TrimSpace(s.query) == "" {
		return s.jobs
	}
	return s.filtered
}

func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.query
}

func (s *Session) Resume() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resume
}

// LastReport returns the report of the most recent fetch or nil.
func (s *Session) LastReport() *FetchReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.report
}

func (s *Session) Find(key string) *jobs.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	return jobs.FindByKey(s.jobs, key)
}

// MatchedSkills lists the vocabulary skills shared by the resume and the job.
func (s *Session) MatchedSkills(job *jobs.Job) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job == nil || strings.TrimSpace(s.resume) == "" {
		return []string{}
	}
	return matching.MatchedSkills(s.resume, matching.JobText(job), s.cfg.Skills)
}

func clone(list []*jobs.Job) []*jobs.Job {
	out := make([]*jobs.Job, len(list))
	copy(out, list)
	return out
}
