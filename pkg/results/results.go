// Package results aggregates per-subject morphometry CSVs into one wide
// summary table per method and measure type. Values pass through as verbatim
// strings so the summary preserves the source formatting.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"spineqc/internal/models"
)

var (
	subPattern = regexp.MustCompile(`sub-([A-Za-z0-9]+)`)
	sesPattern = regexp.MustCompile(`ses-([A-Za-z0-9]+)`)
)

// ExtractBIDSFields pulls the subject and session identifiers out of a
// BIDS-style filename. Missing tokens yield empty strings, never an error.
func ExtractBIDSFields(filename string) (subjectID, sessionID string) {
	if m := subPattern.FindStringSubmatch(filename); m != nil {
		subjectID = m[1]
	}
	if m := sesPattern.FindStringSubmatch(filename); m != nil {
		sessionID = m[1]
	}
	return subjectID, sessionID
}

// Row is one subject's measurements with values keyed by vertebral level.
type Row struct {
	SubjectID string
	SessionID string
	Levels    map[int]string
}

// Table is the wide-format result for one method and measure type. Levels is
// the sorted union of vertebral levels seen across all source files; rows
// missing a level get an empty cell.
type Table struct {
	Rows   []Row
	Levels []int
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Header returns the output column names: subject_id, session_id, then
// level<N> columns in ascending level order.
func (t *Table) Header() []string {
	cols := []string{"subject_id", "session_id"}
	for _, level := range t.Levels {
		cols = append(cols, fmt.Sprintf("level%d", level))
	}
	return cols
}

// WriteCSV emits the table to path in the wide format.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header()); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := []string{row.SubjectID, row.SessionID}
		for _, level := range t.Levels {
			record = append(record, row.Levels[level])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ParseMethodDir scans methodDir for files ending in _<measureType>.csv and
// pivots each into one row per subject. A missing directory, an unreadable
// file, or a file without the requested value column all produce a warning
// on stdout and are skipped; the remaining files still contribute rows.
func ParseMethodDir(methodDir, infoColumn string, measureType models.MeasureType) *Table {
	table := &Table{}
	suffix := fmt.Sprintf("_%s.csv", measureType)

	entries, err := os.ReadDir(methodDir)
	if err != nil {
		fmt.Printf("WARNING: Directory not found: %s\n", methodDir)
		return table
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	levelSet := make(map[int]struct{})
	for _, name := range names {
		path := filepath.Join(methodDir, name)
		row, levels, err := parseSubjectFile(path, name, infoColumn)
		if err != nil {
			fmt.Printf("WARNING: %v\n", err)
			continue
		}
		if row == nil {
			continue
		}
		table.Rows = append(table.Rows, *row)
		for _, level := range levels {
			levelSet[level] = struct{}{}
		}
	}

	for level := range levelSet {
		table.Levels = append(table.Levels, level)
	}
	sort.Ints(table.Levels)
	return table
}

// parseSubjectFile reads one per-subject CSV and returns its pivoted row and
// the vertebral levels it contributed. A missing value column returns an
// error so the caller can warn and move on. Rows with a non-positive or
// unparsable level are skipped silently; sct_process_segmentation emits such
// rows for totals and unlabeled regions.
func parseSubjectFile(path, name, infoColumn string) (*Row, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	valueIdx := indexOf(header, infoColumn)
	if valueIdx < 0 {
		return nil, nil, fmt.Errorf("column %q not found in %s. Available: %v",
			infoColumn, path, header)
	}

	// Two spellings of the level column exist in the wild; first one wins.
	levelIdx := indexOf(header, "VertLevel")
	altLevelIdx := indexOf(header, "vertLevel")

	subjectID, sessionID := ExtractBIDSFields(name)
	row := &Row{SubjectID: subjectID, SessionID: sessionID, Levels: make(map[int]string)}
	var levels []int

	for _, record := range records[1:] {
		level := levelFromRecord(record, levelIdx, altLevelIdx)
		if level <= 0 {
			continue
		}
		if valueIdx >= len(record) {
			continue
		}
		row.Levels[level] = record[valueIdx]
		levels = append(levels, level)
	}
	return row, levels, nil
}

func levelFromRecord(record []string, levelIdx, altLevelIdx int) int {
	for _, idx := range []int{levelIdx, altLevelIdx} {
		if idx < 0 || idx >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[idx])
		if cell == "" {
			continue
		}
		// Levels sometimes arrive float-formatted ("3.0").
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return int(v)
		}
	}
	return -1
}

func indexOf(header []string, name string) int {
	for i, col := range header {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}

// DiscoverMethodDirs lists the immediate subdirectories of root whose names
// start with "method-", sorted by name.
func DiscoverMethodDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), "method-") {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}
