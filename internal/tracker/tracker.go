// Package tracker holds the mutation logic over the in-memory application
// table. Functions here never persist; callers save the returned table.
package tracker

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"apptrack.local/internal/domain"
)

// Fields carries every column a caller may set. ID and LastUpdated are
// always assigned here, never taken from the caller.
type Fields struct {
	Company         string
	Role            string
	Location        string
	ApplicationDate time.Time
	Status          domain.Status
	NextStepDate    *time.Time
	Priority        domain.Priority
	Notes           string
}

func (f Fields) trimmed() Fields {
	f.Company = strings.TrimSpace(f.Company)
	f.Role = strings.TrimSpace(f.Role)
	f.Location = strings.TrimSpace(f.Location)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

func (f Fields) validate() error {
	if f.Company == "" {
		return &domain.ValidationError{Field: "Company"}
	}
	if f.Role == "" {
		return &domain.ValidationError{Field: "Role"}
	}
	return nil
}

// NextID returns 1 for an empty table, otherwise 1 + the highest existing
// ID. IDs are never reused even if the table has gaps.
func NextID(apps []domain.Application) int {
	if len(apps) == 0 {
		return 1
	}
	high := lo.MaxBy(apps, func(a, max domain.Application) bool {
		return a.ID > max.ID
	})
	return high.ID + 1
}

// Create validates and appends a new record. It returns the grown table and
// the assigned ID. On validation failure the input table is returned
// untouched. ApplicationDate defaults to today when the caller left it zero.
func Create(apps []domain.Application, f Fields, today time.Time) ([]domain.Application, int, error) {
	f = f.trimmed()
	if err := f.validate(); err != nil {
		return apps, 0, err
	}

	app := domain.Application{
		ID:              NextID(apps),
		Company:         f.Company,
		Role:            f.Role,
		Location:        f.Location,
		ApplicationDate: f.ApplicationDate,
		Status:          f.Status,
		NextStepDate:    f.NextStepDate,
		Priority:        f.Priority,
		Notes:           f.Notes,
		LastUpdated:     today,
	}
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = today
	}

	out := append(slices.Clone(apps), app)
	return out, app.ID, nil
}

// Update replaces every field except ID on the record with the given ID and
// refreshes LastUpdated. The input table is never modified; the result is a
// fresh slice.
func Update(apps []domain.Application, id int, f Fields, today time.Time) ([]domain.Application, error) {
	f = f.trimmed()
	if err := f.validate(); err != nil {
		return apps, err
	}

	idx := slices.IndexFunc(apps, func(a domain.Application) bool { return a.ID == id })
	if idx < 0 {
		return apps, &domain.NotFoundError{ID: id}
	}

	out := slices.Clone(apps)
	out[idx] = domain.Application{
		ID:              id,
		Company:         f.Company,
		Role:            f.Role,
		Location:        f.Location,
		ApplicationDate: f.ApplicationDate,
		Status:          f.Status,
		NextStepDate:    f.NextStepDate,
		Priority:        f.Priority,
		Notes:           f.Notes,
		LastUpdated:     today,
	}
	return out, nil
}
