// Package coverletter renders a plain-text cover letter draft for a job.
package coverletter

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spigell/jobpulse/internal/jobs"
)

const (
	DefaultName = "Your Name"
	clipRunes   = 150
)

var letter = template.Must(template.New("letter").Parse(`Dear {{.Company}} Team,

I am writing to express my interest in the {{.Title}} position at {{.Company}}. I believe my background lets me bring value to your team.
{{- if .Skills}}

From my resume, you'll see hands-on experience with:
{{- range .Skills}}
- {{.}}
{{- end}}
{{- end}}

Your job description caught my attention because it highlights key areas I enjoy working in, such as:
{{.Excerpt}}...

I would welcome the opportunity to discuss how my background aligns with your goals. Thank you for considering my application.

Sincerely,
{{.Name}}`))

type data struct {
	Name    string
	Company string
	Title   string
	Excerpt string
	Skills  []string
}

// Generate renders the letter for job, signed with name. skills are the
// resume skills the job mentions and may be empty.
func Generate(name string, job *jobs.Job, skills []string) (string, error) {
	if job == nil {
		return "", fmt.Errorf("job is required")
	}
	if name = strings.TrimSpace(name); name == "" {
		name = DefaultName
	}

	company := strings.TrimSpace(job.Company)
	if company == "" {
		company = "Hiring"
	}

	var b strings.Builder
	err := letter.Execute(&b, data{
		Name:    name,
		Company: company,
		Title:   strings.TrimSpace(job.Title),
		Excerpt: clip(job.DescriptionClean, clipRunes),
		Skills:  skills,
	})
	if err != nil {
		return "", fmt.Errorf("render cover letter: %w", err)
	}
	return b.String(), nil
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
