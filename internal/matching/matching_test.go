package matching

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/spigell/jobpulse/internal/ai/hashing"
	"github.com/spigell/jobpulse/internal/jobs"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
	calls   int
	texts   []string
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls++
	s.texts = texts
	return s.vectors, s.err
}

func (s *stubEmbedder) Provider() string { return "stub" }
func (s *stubEmbedder) Model() string    { return "stub" }

func job(id, title, desc string) *jobs.Job {
	return &jobs.Job{Source: "remotive", SourceJobID: id, Title: title, DescriptionClean: desc, Tags: []string{}}
}

func sampleJobs() []*jobs.Job {
	return []*jobs.Job{
		job("1", "Python Developer", "python django sql backend"),
		job("2", "Pastry Chef", "bake bread and croissants"),
		job("3", "Data Engineer", "python sql pipelines airflow"),
	}
}

func TestRankDeterministic(t *testing.T) {
	t.Parallel()

	embedder := hashing.New(128)
	resume := "python sql backend engineer"

	first, err := Rank(context.Background(), embedder, resume, sampleJobs(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Rank(context.Background(), embedder, resume, sampleJobs(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 3 || len(second) != 3 {
		t.Fatalf("expected 3 results, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Job.Key() != second[i].Job.Key() || first[i].Score != second[i].Score {
			t.Fatalf("rank %d differs: %+v vs %+v", i, first[i], second[i])
		}
		if first[i].Score < 0 || first[i].Score > 1 {
			t.Fatalf("score out of bounds: %v", first[i].Score)
		}
		if i > 0 && first[i-1].Score < first[i].Score {
			t.Fatalf("results not sorted descending")
		}
	}

	if first[2].Job.SourceJobID != "2" {
		t.Fatalf("expected unrelated job last, got %s", first[2].Job.SourceJobID)
	}
}

func TestRankEmptyInput(t *testing.T) {
	t.Parallel()

	stub := &stubEmbedder{}
	cases := []struct {
		name   string
		resume string
		list   []*jobs.Job
	}{
		{name: "blank resume", resume: "   ", list: sampleJobs()},
		{name: "no jobs", resume: "python", list: nil},
	}

	for _, tc := range cases {
		got, err := Rank(context.Background(), stub, tc.resume, tc.list, 10)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if len(got) != 0 {
			t.Fatalf("%s: expected empty result, got %d", tc.name, len(got))
		}
	}

	if stub.calls != 0 {
		t.Fatalf("expected embedder not to be called, got %d calls", stub.calls)
	}
}

func TestRankSingleBatchAndTopN(t *testing.T) {
	t.Parallel()

	stub := &stubEmbedder{vectors: [][]float32{
		{1, 0},
		{0, 1},
		{1, 0},
		{1, 1},
	}}

	got, err := Rank(context.Background(), stub, "resume", sampleJobs(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 1 || len(stub.texts) != 4 {
		t.Fatalf("expected one batch of 4 texts, got %d calls with %d texts", stub.calls, len(stub.texts))
	}
	if stub.texts[1] != "Python Developer python django sql backend" {
		t.Fatalf("unexpected job text %q", stub.texts[1])
	}

	if len(got) != 2 {
		t.Fatalf("expected top 2, got %d", len(got))
	}
	if got[0].Job.SourceJobID != "2" || got[0].Score != 1 {
		t.Fatalf("unexpected first result %+v", got[0])
	}
	if got[1].Job.SourceJobID != "3" {
		t.Fatalf("unexpected second result %+v", got[1])
	}
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	t.Parallel()

	stub := &stubEmbedder{vectors: [][]float32{{1, 0}, {1, 0}, {1, 0}, {1, 0}}}

	got, err := Rank(context.Background(), stub, "resume", sampleJobs(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := []string{got[0].Job.SourceJobID, got[1].Job.SourceJobID, got[2].Job.SourceJobID}
	if !reflect.DeepEqual(ids, []string{"1", "2", "3"}) {
		t.Fatalf("expected input order on ties, got %v", ids)
	}
}

func TestRankErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		stub *stubEmbedder
	}{
		{name: "embedder failure", stub: &stubEmbedder{err: errors.New("quota")}},
		{name: "dimension mismatch", stub: &stubEmbedder{vectors: [][]float32{{1, 0}, {1}, {1, 0}, {1, 0}}}},
		{name: "missing vectors", stub: &stubEmbedder{vectors: [][]float32{{1, 0}}}},
	}

	for _, tc := range cases {
		_, err := Rank(context.Background(), tc.stub, "resume", sampleJobs(), 0)
		var embErr *EmbeddingError
		if !errors.As(err, &embErr) {
			t.Fatalf("%s: expected EmbeddingError, got %v", tc.name, err)
		}
	}
}

func TestRankDoesNotMutateJobs(t *testing.T) {
	t.Parallel()

	list := sampleJobs()
	if _, err := Rank(context.Background(), hashing.New(0), "python", list, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, j := range list {
		if j.Score != nil {
			t.Fatalf("expected job %s to stay unscored", j.Key())
		}
	}
	if list[0].SourceJobID != "1" || list[2].SourceJobID != "3" {
		t.Fatalf("expected input order preserved")
	}
}

func TestCosine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2}, b: []float32{1, 2}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite clamps to zero", a: []float32{1, 0}, b: []float32{-1, 0}, want: 0},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
	}

	for _, tc := range cases {
		got, err := Cosine(tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got < tc.want-1e-9 || got > tc.want+1e-9 {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	if _, err := Cosine([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
