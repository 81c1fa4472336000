package coverletter

import (
	"strings"
	"testing"

	"github.com/spigell/jobpulse/internal/jobs"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	desc := strings.Repeat("é", 200)
	job := &jobs.Job{Title: "Go Engineer", Company: "Acme", DescriptionClean: desc}

	out, err := Generate("Jane Doe", job, []string{"go", "kubernetes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Dear Acme Team,\n\n",
		"interest in the Go Engineer position at Acme.",
		"experience with:\n- go\n- kubernetes\n\n",
		strings.Repeat("é", 150) + "...",
		"Sincerely,\nJane Doe",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected letter to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("é", 151)) {
		t.Fatalf("expected description clipped to 150 runes")
	}
}

func TestGenerateDefaults(t *testing.T) {
	t.Parallel()

	out, err := Generate(" ", &jobs.Job{Title: "Designer", DescriptionClean: "short"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(out, "Dear Hiring Team,") {
		t.Fatalf("unexpected greeting: %q", out)
	}
	if strings.Contains(out, "experience with") {
		t.Fatalf("expected no skills section without skills")
	}
	if !strings.Contains(out, "such as:\nshort...") || !strings.HasSuffix(out, "Sincerely,\n"+DefaultName) {
		t.Fatalf("unexpected letter:\n%s", out)
	}
}

func TestGenerateRequiresJob(t *testing.T) {
	t.Parallel()

	if _, err := Generate("x", nil, nil); err == nil {
		t.Fatalf("expected error for nil job")
	}
}
