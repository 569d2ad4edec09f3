// Package export writes run results to JSON and CSV files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/jobscout/internal/types"
)

// DefaultJSONPath is where the job list is written when no path is given.
const DefaultJSONPath = "jobs_output.json"

// CSVHeader is the first row of CSV exports.
var CSVHeader = []string{"title", "company", "ats", "location", "posted_at", "apply_url"}

// WriteJSON encodes jobs as an indented JSON array. A nil slice is written as [].
func WriteJSON(w io.Writer, jobs []types.Job) error {
	if jobs == nil {
		jobs = []types.Job{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(jobs); err != nil {
		return fmt.Errorf("failed to encode jobs: %w", err)
	}
	return nil
}

// WriteCSV writes jobs as CSV rows under CSVHeader.
func WriteCSV(w io.Writer, jobs []types.Job) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, job := range jobs {
		row := []string{job.Title, job.Company, job.Source, job.Location, job.PostedAt.String(), job.ApplyURL}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveJSON writes jobs to path, creating parent directories.
func SaveJSON(path string, jobs []types.Job) error {
	return save(path, func(w io.Writer) error { return WriteJSON(w, jobs) })
}

// SaveCSV writes jobs to path as CSV, creating parent directories.
func SaveCSV(path string, jobs []types.Job) error {
	return save(path, func(w io.Writer) error { return WriteCSV(w, jobs) })
}

func save(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(f)
}
