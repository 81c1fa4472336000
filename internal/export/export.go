// Package export writes saved jobs to JSON and XLSX files.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/jobpulse/internal/jobs"
)

const (
	sheet            = "Saved jobs"
	descriptionRunes = 300
)

// JSON writes the jobs as an indented JSON array.
func JSON(w io.Writer, list []*jobs.Job) error {
	if list == nil {
		list = []*jobs.Job{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

// DumpJSON writes the jobs to a new saved_jobs_*.json file in dir and returns
// its path. An empty dir uses the system temp directory.
func DumpJSON(dir string, list []*jobs.Job) (string, error) {
	file, err := os.CreateTemp(dir, "saved_jobs_*.json")
	if err != nil {
		return "", err
	}

	err = JSON(file, list)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("write %s: %w", filepath.Base(file.Name()), err)
	}
	return file.Name(), nil
}

// XLSX returns a workbook with one row per job.
func XLSX(list []*jobs.Job) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Title", "Company", "Location", "Remote", "Source", "Score", "Posted", "URL", "Description"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, job := range list {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, job.Title)
		write(2, job.Company)
		write(3, job.Location)
		write(4, job.Remote)
		write(5, job.Source)
		if job.Score != nil {
			write(6, math.Round(*job.Score*1000)/1000)
		}
		write(7, job.PostedAt)
		write(8, job.URL)
		write(9, clip(job.DescriptionClean, descriptionRunes))
	}

	_ = f.SetColWidth(sheet, "A", "A", 36) // title
	_ = f.SetColWidth(sheet, "B", "C", 22) // company, location
	_ = f.SetColWidth(sheet, "H", "H", 48) // url
	_ = f.SetColWidth(sheet, "I", "I", 80) // description

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteXLSX stores the workbook as a new saved_jobs_*.xlsx file in dir.
func WriteXLSX(dir string, list []*jobs.Job) (string, error) {
	data, err := XLSX(list)
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp(dir, "saved_jobs_*.xlsx")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(file.Name()), err)
	}
	return file.Name(), nil
}

func clip(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
