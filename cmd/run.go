package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobpulse/internal/coverletter"
	"github.com/spigell/jobpulse/internal/export"
	"github.com/spigell/jobpulse/internal/filtering"
	"github.com/spigell/jobpulse/internal/jobs"
	"github.com/spigell/jobpulse/internal/logger"
	"github.com/spigell/jobpulse/internal/session"
	"github.com/spigell/jobpulse/internal/sources"
	"github.com/spigell/jobpulse/internal/utils"
)

const (
	PromptSearch       = "Search"
	PromptRefresh      = "Refresh jobs"
	PromptBoards       = "Choose boards"
	PromptLoadResume   = "Load resume"
	PromptRank         = "Rank to my resume"
	PromptResults      = "Show results"
	PromptSave         = "Save job"
	PromptSaved        = "Saved jobs"
	PromptUnsave       = "Unsave job"
	PromptCoverLetter  = "Cover letter"
	PromptExport       = "Export saved jobs"
	PromptReport       = "Report by source"
	PromptQuit         = "Quit"
	PromptBack         = "back"
	PromptDone         = "done"
	PromptCustomBoard  = "Add custom board"
	descriptionPreview = 600
)

var errExit = errors.New("exit requested")

var menu = promptui.Select{
	Label: "What next?",
	Items: []string{
		PromptSearch, PromptRefresh, PromptBoards, PromptLoadResume, PromptRank,
		PromptResults, PromptSave, PromptSaved, PromptUnsave, PromptCoverLetter,
		PromptExport, PromptReport, PromptQuit,
	},
	Size: 13,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive jobpulse session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("query", "q", "", "initial search query")
	runCmd.Flags().StringP("resume", "r", "", "path to a PDF resume to load on start")
	runCmd.Flags().StringP("catalog-file", "c", "", "yaml file with the company boards to choose from")

	viper.BindPFlag("fetch.query", runCmd.Flags().Lookup("query"))
	viper.BindPFlag("fetch.catalog-file", runCmd.Flags().Lookup("catalog-file"))
}

// runner holds what the menu actions share during one run.
type runner struct {
	ctx     context.Context
	config  *Config
	logger  *zap.Logger
	session *session.Session
	catalog sources.Catalog
	boards  sources.Boards
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobpulse", zap.String("version", resolvedVersion()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	catalog, err := sources.LoadCatalog(config.Fetch.CatalogFile)
	if err != nil {
		logger.Fatal("loading board catalog", zap.Error(err), zap.String("path", config.Fetch.CatalogFile))
	}

	sess, err := newSession(ctx, config, logger)
	if err != nil {
		logger.Fatal("creating a session", zap.Error(err))
	}

	r := &runner{
		ctx:     ctx,
		config:  config,
		logger:  logger,
		session: sess,
		catalog: catalog,
		boards:  config.Boards.Normalized(),
	}

	for _, status := range filtering.Describe(newFilters(config.Exclude)) {
		if status.Enabled {
			logger.Info("exclusion filter enabled", zap.String("name", status.Name), zap.Any("details", status.Details))
		}
	}

	sess.ApplyFilter(config.Fetch.Query)

	if path, _ := cmd.Flags().GetString("resume"); strings.TrimSpace(path) != "" {
		if err := r.loadResume(path); err != nil {
			logger.Warn("loading resume", zap.Error(err))
		}
	}

	report, err := sess.EnsureFetched(ctx, r.boards)
	if err != nil {
		logger.Fatal("initial fetch", zap.Error(err))
	}
	r.logReport(report)

	for {
		_, action, err := menu.Run()
		if err != nil {
			logger.Info("exiting", zap.Error(err))
			return
		}

		if err := r.handleAction(action); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.Error(err))
				return
			}
			logger.Error("action failed", zap.String("action", action), zap.Error(err))
		}
	}
}

func (r *runner) handleAction(action string) error {
	switch action {
	case PromptSearch:
		return r.search()
	case PromptRefresh:
		report, err := r.session.FetchAll(r.ctx, r.boards)
		if err != nil {
			return err
		}
		r.logReport(report)
		return nil
	case PromptBoards:
		return r.chooseBoards()
	case PromptLoadResume:
		path, err := (&promptui.Prompt{Label: "Path to PDF resume"}).Run()
		if err != nil {
			return err
		}
		return r.loadResume(path)
	case PromptRank:
		return r.rank()
	case PromptResults:
		return r.showResults()
	case PromptSave:
		job, err := r.selectJob("Choose a job to save", r.session.Visible())
		if err != nil || job == nil {
			return err
		}
		r.session.ToggleSave(job.Key())
		r.logger.Info("job saved", zap.String("key", job.Key()))
		return nil
	case PromptSaved:
		saved := r.session.SavedView()
		if len(saved) == 0 {
			r.logger.Info("no saved jobs yet")
			return nil
		}
		for _, job := range saved {
			fmt.Println(jobLabel(job))
		}
		return nil
	case PromptUnsave:
		job, err := r.selectJob("Choose a job to unsave", r.session.SavedView())
		if err != nil || job == nil {
			return err
		}
		r.session.Unsave(job.Key())
		r.logger.Info("job unsaved", zap.String("key", job.Key()))
		return nil
	case PromptCoverLetter:
		job, err := r.selectJob("Choose a job for the cover letter", r.session.Visible())
		if err != nil || job == nil {
			return err
		}
		return r.coverLetter(job)
	case PromptExport:
		return r.export()
	case PromptReport:
		return printReport(os.Stdout, r.session.LastReport(), r.session.Visible())
	case PromptQuit:
		r.logger.Info("exiting", zap.String("reason", "quit requested"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (r *runner) search() error {
	query, err := (&promptui.Prompt{
		Label:     "Search term (title/keywords)",
		Default:   r.session.Query(),
		AllowEdit: true,
	}).Run()
	if err != nil {
		return err
	}

	r.session.ApplyFilter(query)
	shown := strings.TrimSpace(query)
	if shown == "" {
		shown = "all"
	}
	r.logger.Info("search applied", zap.String("query", shown), zap.Int("results", len(r.session.Filtered())))
	return nil
}

func (r *runner) chooseBoards() error {
	for {
		options := r.catalog.Options()
		for _, selected := range (sources.Catalog{Boards: r.boards}).Options() {
			if !contains(options, selected) {
				options = append(options, selected)
			}
		}

		items := make([]string, 0, len(options)+2)
		for _, o := range options {
			mark := "[ ]"
			if r.boards.Has(o) {
				mark = "[x]"
			}
			items = append(items, mark+" "+o)
		}
		items = append(items, PromptCustomBoard, PromptDone)

		idx, choice, err := (&promptui.Select{Label: "Toggle company boards", Items: items, Size: 12}).Run()
		if err != nil {
			return err
		}

		switch choice {
		case PromptDone:
			r.logger.Info("boards selected", zap.Strings("boards", (sources.Catalog{Boards: r.boards}).Options()))
			return nil
		case PromptCustomBoard:
			option, err := (&promptui.Prompt{Label: "Board (greenhouse:<token> or lever:<token>)"}).Run()
			if err != nil {
				return err
			}
			if !r.boards.Add(strings.TrimSpace(option)) {
				r.logger.Warn("unknown board provider", zap.String("board", option))
			}
		default:
			option := options[idx]
			if r.boards.Has(option) {
				r.boards.Remove(option)
			} else {
				r.boards.Add(option)
			}
		}
	}
}

func (r *runner) loadResume(path string) error {
	file, err := os.Open(strings.TrimSpace(path))
	if err != nil {
		return fmt.Errorf("open resume: %w", err)
	}
	defer file.Close()

	text, err := r.session.LoadResume(r.ctx, file)
	if err != nil {
		return err
	}
	if text == "" {
		r.logger.Warn("resume has no text layer; ranking needs text")
		return nil
	}

	r.logger.Info("resume loaded", zap.String("preview", utils.Preview(text, 200)))
	return nil
}

func (r *runner) rank() error {
	err := r.session.Rank(r.ctx)
	if errors.Is(err, session.ErrNoJobs) {
		r.logger.Warn("no jobs yet, fetching them now")
		report, fetchErr := r.session.FetchAll(r.ctx, r.boards)
		if fetchErr != nil {
			return fetchErr
		}
		r.logReport(report)
		err = r.session.Rank(r.ctx)
	}
	if errors.Is(err, session.ErrNoResume) {
		r.logger.Warn("load a resume before ranking")
		return nil
	}
	if err != nil {
		return err
	}

	r.logger.Info("ranked jobs by relevance", zap.Int("count", len(r.session.Jobs())))
	return nil
}

func (r *runner) showResults() error {
	for {
		job, err := r.selectJob("Choose a job and press ENTER", r.session.Visible())
		if err != nil || job == nil {
			return err
		}

		r.printJob(job)

		items := []string{PromptSave, PromptCoverLetter, PromptBack}
		if r.session.IsSaved(job.Key()) {
			items[0] = PromptUnsave
		}
		_, choice, err := (&promptui.Select{Label: "Action", Items: items}).Run()
		if err != nil {
			return err
		}

		switch choice {
		case PromptSave:
			r.session.ToggleSave(job.Key())
			r.logger.Info("job saved", zap.String("key", job.Key()))
		case PromptUnsave:
			r.session.Unsave(job.Key())
			r.logger.Info("job unsaved", zap.String("key", job.Key()))
		case PromptCoverLetter:
			if err := r.coverLetter(job); err != nil {
				return err
			}
		}
	}
}

func (r *runner) coverLetter(job *jobs.Job) error {
	letter, err := coverletter.Generate(r.config.CoverLetter.Name, job, r.session.MatchedSkills(job))
	if err != nil {
		return err
	}
	fmt.Printf("\n%s\n\n", letter)
	return nil
}

func (r *runner) export() error {
	saved := r.session.SavedView()
	if len(saved) == 0 {
		r.logger.Info("no saved jobs to export")
		return nil
	}

	jsonPath, err := export.DumpJSON(r.config.Export.Dir, saved)
	if err != nil {
		return fmt.Errorf("dump saved jobs to json: %w", err)
	}
	xlsxPath, err := export.WriteXLSX(r.config.Export.Dir, saved)
	if err != nil {
		return fmt.Errorf("write saved jobs to xlsx: %w", err)
	}

	r.logger.Info("saved jobs exported",
		zap.Int("count", len(saved)),
		zap.String("json", jsonPath),
		zap.String("xlsx", xlsxPath),
	)
	return nil
}

// selectJob returns nil when the user goes back or the list is empty.
func (r *runner) selectJob(label string, list []*jobs.Job) (*jobs.Job, error) {
	if len(list) == 0 {
		r.logger.Info("no jobs to show", zap.String("query", r.session.Query()))
		return nil, nil
	}

	items := make([]string, 0, len(list)+1)
	for _, job := range list {
		items = append(items, jobLabel(job))
	}
	items = append(items, PromptBack)

	idx, _, err := (&promptui.Select{
		Label: label,
		Items: items,
		Size:  15,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(strings.TrimSpace(input)))
		},
	}).Run()
	if err != nil {
		return nil, err
	}
	if idx >= len(list) {
		return nil, nil
	}
	return list[idx], nil
}

func (r *runner) printJob(job *jobs.Job) {
	fmt.Printf("\n%s\n%s | %s", job.Title, job.Company, job.Location)
	if job.Remote {
		fmt.Print(" | remote")
	}
	fmt.Printf("\nsource: %s", job.Source)
	if job.PostedAt != "" {
		fmt.Printf(" | posted: %s", job.PostedAt)
	}
	if job.Score != nil {
		fmt.Printf(" | match: %.3f", *job.Score)
	}
	if len(job.Tags) > 0 {
		fmt.Printf("\ntags: %s", strings.Join(job.Tags, ", "))
	}
	if skills := r.session.MatchedSkills(job); len(skills) > 0 {
		fmt.Printf("\nmatched skills: %s", strings.Join(skills, ", "))
	}
	if job.URL != "" {
		fmt.Printf("\n%s", job.URL)
	}
	fmt.Printf("\n\n%s\n\n", utils.Preview(job.DescriptionClean, descriptionPreview))
}

func (r *runner) logReport(report *session.FetchReport) {
	if report == nil {
		return
	}
	for _, failure := range report.Failures {
		r.logger.Warn("source unavailable", append(logger.SourceFields(failure.Source), zap.Error(failure.Err))...)
	}
	if report.Stale {
		r.logger.Warn("refresh failed; showing previous jobs", zap.Int("kept", report.Total))
		return
	}
	r.logger.Info("jobs ready",
		zap.Any("per_source", report.PerSource),
		zap.Int("excluded", report.Excluded),
		zap.Int("total", report.Total),
		zap.Int("visible", len(r.session.Visible())),
	)
}

// printReport writes the per-source outcome of the last fetch followed by the
// visible job titles grouped by source.
func printReport(w io.Writer, report *session.FetchReport, visible []*jobs.Job) error {
	if report == nil {
		_, err := fmt.Fprintln(w, "No fetch yet.")
		return err
	}

	failed := make(map[string]error, len(report.Failures))
	names := make([]string, 0, len(report.PerSource)+len(report.Failures))
	for source := range report.PerSource {
		names = append(names, source)
	}
	for _, f := range report.Failures {
		failed[f.Source] = f.Err
		names = append(names, f.Source)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Last fetch:\n")
	for _, source := range names {
		if err, ok := failed[source]; ok {
			fmt.Fprintf(&b, "  %-30s failed: %v\n", source, err)
			continue
		}
		fmt.Fprintf(&b, "  %-30s %d jobs\n", source, report.PerSource[source])
	}
	if report.Stale {
		fmt.Fprintf(&b, "every source failed, %d previous jobs kept\n", report.Total)
	} else {
		fmt.Fprintf(&b, "merged %d, excluded %d, total %d\n", report.Merged, report.Excluded, report.Total)
	}

	pretty, err := json.MarshalIndent(jobs.ReportBySource(visible), "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Fprintf(&b, "\nVisible jobs by source (%d):\n%s\n", len(visible), pretty)

	_, err = io.WriteString(w, b.String())
	return err
}

func jobLabel(job *jobs.Job) string {
	label := fmt.Sprintf("%s / %s / %s", job.Title, job.Company, job.Location)
	if job.Score != nil {
		label = fmt.Sprintf("[%.2f] %s", *job.Score, label)
	}
	return label
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
