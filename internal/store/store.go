package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"apptrack.local/internal/domain"
)

// DateLayout is how calendar dates are written to the CSV file.
const DateLayout = "2006-01-02"

// ExportFilename is the name suggested to clients downloading the table.
const ExportFilename = "applications_export.csv"

var header = []string{
	"ID",
	"Company",
	"Role",
	"Location",
	"Application_Date",
	"Status",
	"Next_Step_Date",
	"Priority",
	"Notes",
	"Last_Updated",
}

// Store owns the persisted CSV file. The whole table is rewritten on every
// Save; there is no incremental write.
type Store struct {
	path string
}

func New(path string) *Store { return &Store{path: path} }

func (s *Store) Path() string { return s.path }

// Load reads the persisted table. A missing file is not an error: it yields
// an empty table. Unparseable date cells become null/zero silently, and rows
// whose ID cell is not an integer are skipped, so a hand-edited file cannot
// take the whole tracker down.
func (s *Store) Load() ([]domain.Application, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Columns are resolved by header name, not position, so a reordered or
	// truncated file still loads.
	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[name] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	apps := make([]domain.Application, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id, err := strconv.Atoi(cell(row, "ID"))
		if err != nil {
			continue
		}
		status, _ := domain.ParseStatus(cell(row, "Status"))
		priority, _ := domain.ParsePriority(cell(row, "Priority"))
		apps = append(apps, domain.Application{
			ID:              id,
			Company:         cell(row, "Company"),
			Role:            cell(row, "Role"),
			Location:        cell(row, "Location"),
			ApplicationDate: parseDate(cell(row, "Application_Date")),
			Status:          status,
			NextStepDate:    parseDatePtr(cell(row, "Next_Step_Date")),
			Priority:        priority,
			Notes:           cell(row, "Notes"),
			LastUpdated:     parseDate(cell(row, "Last_Updated")),
		})
	}
	return apps, nil
}

// Save rewrites the whole table. It writes to a temp file in the same
// directory and renames it over the target, so a crash mid-write leaves the
// previous save intact.
func (s *Store) Save(apps []domain.Application) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".apptrack-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, apps); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// WriteCSV serializes the table in the persisted layout to any writer. The
// export endpoint and the export command use it directly.
func WriteCSV(w io.Writer, apps []domain.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range apps {
		row := []string{
			strconv.Itoa(a.ID),
			a.Company,
			a.Role,
			a.Location,
			formatDate(a.ApplicationDate),
			string(a.Status),
			formatDatePtr(a.NextStepDate),
			string(a.Priority),
			a.Notes,
			formatDate(a.LastUpdated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseDatePtr(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}
