package matching

import (
	"reflect"
	"testing"

	"github.com/spigell/jobpulse/internal/jobs"
)

func TestMatchedSkills(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		resume     string
		job        string
		vocabulary []string
		want       []string
	}{
		{
			name:   "only terms in both",
			resume: "Python and Java",
			job:    "We use python daily",
			want:   []string{"python"},
		},
		{
			name:   "sorted and deduplicated",
			resume: "sql docker python sql",
			job:    "SQL, Docker and Python",
			want:   []string{"docker", "python", "sql"},
		},
		{
			name:   "punctuation keeps token distinct",
			resume: "python,",
			job:    "python",
			want:   []string{},
		},
		{
			name:       "custom vocabulary",
			resume:     "rust go",
			job:        "rust services",
			vocabulary: []string{"Rust", "rust", "go"},
			want:       []string{"rust"},
		},
		{
			name:       "empty vocabulary",
			resume:     "python",
			job:        "python",
			vocabulary: []string{},
			want:       []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchedSkills(tc.resume, tc.job, tc.vocabulary)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestJobText(t *testing.T) {
	t.Parallel()

	j := &jobs.Job{Title: "Go Engineer", DescriptionClean: "build things"}
	if got := JobText(j); got != "build things Go Engineer" {
		t.Fatalf("unexpected job text %q", got)
	}
	if JobText(nil) != "" {
		t.Fatalf("expected empty text for nil job")
	}
}
