package matching

import (
	"sort"
	"strings"

	"github.com/spigell/jobpulse/internal/jobs"
)

// DefaultSkills is the vocabulary used when none is configured.
var DefaultSkills = []string{
	"python", "sql", "docker", "streamlit", "fastapi", "flask", "pandas",
	"numpy", "nlp", "transformers", "scikit-learn", "javascript", "html",
	"css", "git", "github", "go", "golang", "kubernetes", "aws", "react",
	"typescript", "java", "postgresql",
}

// MatchedSkills returns the vocabulary terms that appear as a whitespace
// separated token of the resume and as a substring of the job text. Matching
// is case-insensitive; the result is sorted and has no duplicates.
func MatchedSkills(resumeText, jobText string, vocabulary []string) []string {
	if vocabulary == nil {
		vocabulary = DefaultSkills
	}

	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(resumeText)) {
		tokens[tok] = struct{}{}
	}

	job := strings.ToLower(jobText)
	seen := make(map[string]struct{})
	matched := []string{}
	for _, term := range vocabulary {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		if _, ok := tokens[term]; !ok {
			continue
		}
		if !strings.Contains(job, term) {
			continue
		}
		seen[term] = struct{}{}
		matched = append(matched, term)
	}

	sort.Strings(matched)
	return matched
}

// JobText is the text skills are matched against.
func JobText(job *jobs.Job) string {
	if job == nil {
		return ""
	}
	return job.DescriptionClean + " " + job.Title
}
