// Package matching scores jobs against a resume and extracts the skills
// both mention.
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spigell/jobpulse/internal/ai"
	"github.com/spigell/jobpulse/internal/jobs"
)

// Scored pairs a job with its similarity to the resume, in [0, 1].
type Scored struct {
	Job   *jobs.Job
	Score float64
}

// EmbeddingError reports that vectors could not be produced or compared.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Rank embeds the resume and every job in a single call to the embedder and
// returns the jobs ordered by cosine similarity, highest first. Ties keep
// input order. topN <= 0 or above len(list) returns every job.
func Rank(ctx context.Context, embedder ai.Embedder, resumeText string, list []*jobs.Job, topN int) ([]Scored, error) {
	if strings.TrimSpace(resumeText) == "" || len(list) == 0 {
		return []Scored{}, nil
	}
	if embedder == nil {
		return nil, &EmbeddingError{Err: fmt.Errorf("embedder is not configured")}
	}

	texts := make([]string, 0, len(list)+1)
	texts = append(texts, resumeText)
	for _, job := range list {
		texts = append(texts, embeddingText(job))
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, &EmbeddingError{Err: err}
	}
	if len(vectors) != len(texts) {
		return nil, &EmbeddingError{Err: fmt.Errorf("got %d vectors for %d texts", len(vectors), len(texts))}
	}

	resumeVec := vectors[0]
	scored := make([]Scored, len(list))
	for i, job := range list {
		score, err := Cosine(resumeVec, vectors[i+1])
		if err != nil {
			return nil, &EmbeddingError{Err: fmt.Errorf("job %s: %w", job.Key(), err)}
		}
		scored[i] = Scored{Job: job, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topN > 0 && topN < len(scored) {
		scored = scored[:topN]
	}

	return scored, nil
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1]. A zero
// vector on either side scores 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d != %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	switch {
	case math.IsNaN(sim), sim < 0:
		return 0, nil
	case sim > 1:
		return 1, nil
	}
	return sim, nil
}

func embeddingText(job *jobs.Job) string {
	return job.Title + " " + job.DescriptionClean
}
