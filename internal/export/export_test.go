package export

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/jobpulse/internal/jobs"
)

func sample() []*jobs.Job {
	scored := &jobs.Job{Source: "remotive", SourceJobID: "1", Title: "Go Engineer", Company: "Acme", Location: "Remote", Remote: true, Tags: []string{"go"}, DescriptionClean: strings.Repeat("x", 400)}
	scored.SetScore(0.87654)
	return []*jobs.Job{
		scored,
		{Source: "greenhouse:stripe", SourceJobID: "2", Title: "Data Scientist", Company: "Stripe", Location: "Dublin", Tags: []string{}},
	}
}

func TestDumpJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := DumpJSON(dir, sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "saved_jobs_") {
		t.Fatalf("unexpected path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var decoded []jobs.Job
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Key() != "remotive:1" || decoded[0].ScoreValue() != 0.87654 {
		t.Fatalf("unexpected dump contents: %+v", decoded)
	}
	if decoded[1].Score != nil {
		t.Fatalf("expected unscored job to omit score")
	}
}

func TestDumpJSONRemovesFileOnEncodeError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	broken := &jobs.Job{Source: "remotive", SourceJobID: "9", Title: "Broken"}
	broken.SetScore(math.NaN())

	if _, err := DumpJSON(dir, []*jobs.Job{broken}); err == nil {
		t.Fatalf("expected encode error for NaN score")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, found %d", len(entries))
	}
}

func TestJSONEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := JSON(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestXLSX(t *testing.T) {
	t.Parallel()

	data, err := XLSX(sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Title" || rows[1][0] != "Go Engineer" || rows[2][1] != "Stripe" {
		t.Fatalf("unexpected rows: %v", rows)
	}
	if rows[1][5] != "0.877" {
		t.Fatalf("expected rounded score, got %q", rows[1][5])
	}
	if n := len([]rune(rows[1][8])); n != descriptionRunes {
		t.Fatalf("expected clipped description of %d runes, got %d", descriptionRunes, n)
	}
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, err := WriteXLSX(dir, sample())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Ext(path) != ".xlsx" {
		t.Fatalf("unexpected path %q", path)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty workbook, err=%v", err)
	}
}
