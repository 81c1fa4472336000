package jobs

import (
	"reflect"
	"strings"
	"testing"
)

func job(source, id, title string) *Job {
	return &Job{Source: source, SourceJobID: id, Title: title, Tags: []string{}}
}

func TestMergeFirstSeenWins(t *testing.T) {
	a := job("remotive", "1", "A")
	b := job("remotive", "2", "B")
	c := job("remotive", "1", "C")
	d := job("remotive", "3", "D")

	got := Merge([][]*Job{{a, b}, {c, d}})
	want := []*Job{a, b, d}

	if len(got) != len(want) {
		t.Fatalf("expected %d jobs, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %q, got %q", i, want[i].Title, got[i].Title)
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	l := []*Job{
		job("remotive", "1", "A"),
		job("greenhouse:stripe", "1", "B"),
		job("greenhouse:stripe", "2", "C"),
	}

	once := Merge([][]*Job{l})
	twice := Merge([][]*Job{l, l})

	if !reflect.DeepEqual(Keys(once), Keys(twice)) {
		t.Fatalf("expected %v, got %v", Keys(once), Keys(twice))
	}
}

func TestMergeKeepsSameIDFromDifferentSources(t *testing.T) {
	got := Merge([][]*Job{
		{job("greenhouse:stripe", "7", "A")},
		{job("greenhouse:airbnb", "7", "B")},
	})

	if len(got) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(got))
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
	if got := Merge([][]*Job{nil, {}}); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestPrepareDescriptionsRunsOnce(t *testing.T) {
	j := job("remotive", "1", "A")
	j.DescriptionRaw = "<p>hello</p>"

	calls := 0
	clean := func(s string) string {
		calls++
		return strings.ToUpper(s)
	}

	if n := PrepareDescriptions([]*Job{j}, clean); n != 1 {
		t.Fatalf("expected 1 cleaned job, got %d", n)
	}
	if n := PrepareDescriptions([]*Job{j}, clean); n != 0 {
		t.Fatalf("expected cached description, got %d cleaned", n)
	}
	if calls != 1 {
		t.Fatalf("expected clean to be called once, got %d", calls)
	}
	if j.DescriptionClean != "<P>HELLO</P>" || !j.Cleaned() {
		t.Fatalf("unexpected clean description %q", j.DescriptionClean)
	}
}

func TestScore(t *testing.T) {
	j := job("remotive", "1", "A")
	if j.Score != nil || j.ScoreValue() != 0 {
		t.Fatalf("expected no score before ranking")
	}

	j.SetScore(0.42)
	if j.ScoreValue() != 0.42 {
		t.Fatalf("expected 0.42, got %v", j.ScoreValue())
	}

	j.ClearScore()
	if j.Score != nil {
		t.Fatalf("expected score to be cleared")
	}
}

func TestKey(t *testing.T) {
	j := job("greenhouse:stripe", "42", "A")
	if j.Key() != "greenhouse:stripe:42" {
		t.Fatalf("unexpected key %q", j.Key())
	}
	if FindByKey([]*Job{j}, "greenhouse:stripe:42") != j {
		t.Fatalf("expected job to be found by key")
	}
	if FindByKey([]*Job{j}, "nope") != nil {
		t.Fatalf("expected nil for unknown key")
	}
}
