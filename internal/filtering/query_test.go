package filtering

import (
	"testing"

	"github.com/spigell/jobpulse/internal/jobs"
)

func sample() []*jobs.Job {
	return []*jobs.Job{
		{Source: "remotive", SourceJobID: "1", Title: "Go Engineer", Company: "Acme", Location: "Remote", Tags: []string{"golang", "backend"}, DescriptionClean: "build APIs"},
		{Source: "greenhouse:stripe", SourceJobID: "2", Title: "Data Scientist", Company: "Stripe", Location: "Dublin", Tags: []string{}, DescriptionClean: "Python and SQL"},
		{Source: "lever:octo", SourceJobID: "3", Title: "Designer", Company: "Octo", Location: "Berlin, Germany", Tags: []string{"design"}, DescriptionClean: "figma"},
	}
}

func keys(list []*jobs.Job) []string {
	out := make([]string, len(list))
	for i, j := range list {
		out[i] = j.SourceJobID
	}
	return out
}

func TestQueryBlankIsIdentity(t *testing.T) {
	t.Parallel()

	list := sample()
	for _, q := range []string{"", "   ", "\t"} {
		got := Query(list, q)
		if len(got) != len(list) || &got[0] != &list[0] {
			t.Fatalf("expected the same slice for query %q", q)
		}
	}
}

func TestQuerySubstring(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title", query: "engineer", want: []string{"1"}},
		{name: "company case-insensitive", query: "  STRIPE ", want: []string{"2"}},
		{name: "tags", query: "golang", want: []string{"1"}},
		{name: "description", query: "python", want: []string{"2"}},
		{name: "location", query: "germany", want: []string{"3"}},
		{name: "spans fields", query: "acme remote", want: []string{"1"}},
		{name: "no match", query: "kotlin", want: []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := keys(Query(sample(), tc.query))
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestQueryIgnoresScore(t *testing.T) {
	t.Parallel()

	list := sample()
	list[0].SetScore(0.9)
	got := Query(list, "e")
	if len(got) != 3 || got[0].SourceJobID != "1" || got[2].SourceJobID != "3" {
		t.Fatalf("expected input order regardless of score, got %v", keys(got))
	}
}
