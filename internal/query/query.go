// Package query derives read-only views from the application table:
// filtering, the days-to-next-step computation, the upcoming window, and
// sorted listings.
package query

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"apptrack.local/internal/domain"
)

// Filter returns the records matching all three predicates. A nil or empty
// status/priority set means no restriction on that column: the UI this
// serves default-selects every distinct value, so an empty selection and
// "no filter" are deliberately the same thing. The search text is trimmed
// and matched case-insensitively against Company and Role.
func Filter(apps []domain.Application, statuses []domain.Status, priorities []domain.Priority, search string) []domain.Application {
	search = strings.ToLower(strings.TrimSpace(search))
	return lo.Filter(apps, func(a domain.Application, _ int) bool {
		if len(statuses) > 0 && !lo.Contains(statuses, a.Status) {
			return false
		}
		if len(priorities) > 0 && !lo.Contains(priorities, a.Priority) {
			return false
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Company), search) &&
			!strings.Contains(strings.ToLower(a.Role), search) {
			return false
		}
		return true
	})
}

// DaysToNextStep returns the calendar-day distance from ref to the record's
// next step. ok is false when no next step is scheduled. Past dates yield
// negative values.
func DaysToNextStep(a domain.Application, ref time.Time) (int, bool) {
	if a.NextStepDate == nil {
		return 0, false
	}
	days := int(calendar(*a.NextStepDate).Sub(calendar(ref)).Hours() / 24)
	return days, true
}

// Upcoming returns the records whose next step falls within [0, windowDays]
// days of ref, soonest first. Records with no next step or one already past
// are excluded.
func Upcoming(apps []domain.Application, ref time.Time, windowDays int) []domain.Application {
	hits := lo.Filter(apps, func(a domain.Application, _ int) bool {
		d, ok := DaysToNextStep(a, ref)
		return ok && d >= 0 && d <= windowDays
	})
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].NextStepDate.Before(*hits[j].NextStepDate)
	})
	return hits
}

// SortKey names a sortable column for SortBy.
type SortKey string

const (
	SortByID              SortKey = "id"
	SortByCompany         SortKey = "company"
	SortByApplicationDate SortKey = "application_date"
	SortByNextStepDate    SortKey = "next_step_date"
	SortByLastUpdated     SortKey = "last_updated"
)

// SortBy returns a stably sorted copy of apps. Unknown keys fall back to
// ApplicationDate, the default listing order. Records without a next step
// sort as oldest under SortByNextStepDate.
func SortBy(apps []domain.Application, key SortKey, descending bool) []domain.Application {
	less := func(a, b domain.Application) bool {
		switch key {
		case SortByID:
			return a.ID < b.ID
		case SortByCompany:
			return strings.ToLower(a.Company) < strings.ToLower(b.Company)
		case SortByNextStepDate:
			return dateOrZero(a.NextStepDate).Before(dateOrZero(b.NextStepDate))
		case SortByLastUpdated:
			return a.LastUpdated.Before(b.LastUpdated)
		default:
			return a.ApplicationDate.Before(b.ApplicationDate)
		}
	}

	out := slices.Clone(apps)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// calendar strips the time-of-day so day arithmetic ignores clock time and
// zone offsets.
func calendar(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
