package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/jobpulse/internal/jobs"
	"github.com/spigell/jobpulse/internal/session"
)

func TestPrintReport(t *testing.T) {
	t.Parallel()

	visible := []*jobs.Job{
		{Source: "remotive", SourceJobID: "1", Title: "Go Developer", Company: "Acme"},
		{Source: "lever:octo", SourceJobID: "a", Title: "Data Engineer", Company: "Octo"},
	}

	cases := []struct {
		name    string
		report  *session.FetchReport
		visible []*jobs.Job
		want    []string
		absent  []string
	}{
		{
			name:   "no fetch",
			want:   []string{"No fetch yet."},
			absent: []string{"Last fetch"},
		},
		{
			name: "mixed outcome",
			report: &session.FetchReport{
				PerSource: map[string]int{"remotive": 4, "lever:octo": 1},
				Failures:  []session.Failure{{Source: "greenhouse:stripe", Err: errors.New("bad status: 500")}},
				Merged:    5,
				Excluded:  3,
				Total:     2,
			},
			visible: visible,
			want: []string{
				"greenhouse:stripe",
				"failed: bad status: 500",
				"merged 5, excluded 3, total 2",
				"Visible jobs by source (2):",
				"Go Developer (Acme)",
			},
		},
		{
			name: "every source failed",
			report: &session.FetchReport{
				PerSource: map[string]int{},
				Failures:  []session.Failure{{Source: "remotive", Err: errors.New("timeout")}},
				Total:     7,
				Stale:     true,
			},
			want:   []string{"failed: timeout", "every source failed, 7 previous jobs kept"},
			absent: []string{"merged"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := printReport(&buf, tc.report, tc.visible); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out := buf.String()
			for _, s := range tc.want {
				if !strings.Contains(out, s) {
					t.Fatalf("expected %q in output:\n%s", s, out)
				}
			}
			for _, s := range tc.absent {
				if strings.Contains(out, s) {
					t.Fatalf("unexpected %q in output:\n%s", s, out)
				}
			}
		})
	}
}

func TestPrintReportSortsSources(t *testing.T) {
	t.Parallel()

	report := &session.FetchReport{
		PerSource: map[string]int{"remotive": 2, "greenhouse:acme": 1},
		Failures:  []session.Failure{{Source: "lever:octo", Err: errors.New("boom")}},
	}

	var buf bytes.Buffer
	if err := printReport(&buf, report, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()

	gh := strings.Index(out, "greenhouse:acme")
	lv := strings.Index(out, "lever:octo")
	rm := strings.Index(out, "remotive")
	if gh < 0 || !(gh < lv && lv < rm) {
		t.Fatalf("expected sources in name order:\n%s", out)
	}
}
