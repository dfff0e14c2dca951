package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"apptrack.local/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var today = date(2025, time.March, 10)

func app(id int, company, role string, status domain.Status, priority domain.Priority) domain.Application {
	return domain.Application{
		ID:       id,
		Company:  company,
		Role:     role,
		Status:   status,
		Priority: priority,
	}
}

func sampleApps() []domain.Application {
	return []domain.Application{
		app(1, "Google", "SDE Intern", domain.StatusApplied, domain.PriorityHigh),
		app(2, "Meta", "Backend Engineer", domain.StatusOffer, domain.PriorityMedium),
		app(3, "Stripe", "Platform Engineer", domain.StatusRejected, domain.PriorityLow),
	}
}

func ids(apps []domain.Application) []int {
	out := make([]int, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestFilterTextSearch(t *testing.T) {
	got := Filter(sampleApps(), nil, nil, "  goo ")
	require.Equal(t, []int{1}, ids(got), "case-insensitive substring on Company")

	got = Filter(sampleApps(), nil, nil, "ENGINEER")
	require.Equal(t, []int{2, 3}, ids(got), "search also covers Role")
}

func TestFilterByStatusAndPriority(t *testing.T) {
	got := Filter(sampleApps(), []domain.Status{domain.StatusOffer, domain.StatusRejected}, nil, "")
	require.Equal(t, []int{2, 3}, ids(got))

	got = Filter(sampleApps(), nil, []domain.Priority{domain.PriorityHigh}, "")
	require.Equal(t, []int{1}, ids(got))
}

func TestFilterPredicatesCompose(t *testing.T) {
	got := Filter(sampleApps(),
		[]domain.Status{domain.StatusOffer, domain.StatusRejected},
		[]domain.Priority{domain.PriorityMedium},
		"meta")
	require.Equal(t, []int{2}, ids(got))

	got = Filter(sampleApps(),
		[]domain.Status{domain.StatusOffer},
		nil,
		"stripe")
	require.Empty(t, got, "AND semantics: no record matches both")
}

func TestFilterEmptySetsMeanNoRestriction(t *testing.T) {
	got := Filter(sampleApps(), nil, nil, "")
	require.Len(t, got, 3)

	got = Filter(sampleApps(), []domain.Status{}, []domain.Priority{}, "   ")
	require.Len(t, got, 3)
}

func TestDaysToNextStep(t *testing.T) {
	in3 := today.AddDate(0, 0, 3)
	a := domain.Application{NextStepDate: &in3}
	d, ok := DaysToNextStep(a, today)
	require.True(t, ok)
	require.Equal(t, 3, d)

	yesterday := today.AddDate(0, 0, -1)
	a.NextStepDate = &yesterday
	d, ok = DaysToNextStep(a, today)
	require.True(t, ok)
	require.Equal(t, -1, d)

	a.NextStepDate = nil
	_, ok = DaysToNextStep(a, today)
	require.False(t, ok)
}

func TestDaysToNextStepIgnoresClockTime(t *testing.T) {
	next := date(2025, time.March, 13)
	a := domain.Application{NextStepDate: &next}
	lateEvening := time.Date(2025, time.March, 10, 23, 45, 0, 0, time.UTC)
	d, ok := DaysToNextStep(a, lateEvening)
	require.True(t, ok)
	require.Equal(t, 3, d)
}

func TestUpcomingWindow(t *testing.T) {
	offsets := []int{-1, 0, 3, 7, 8}
	apps := make([]domain.Application, 0, len(offsets)+1)
	for i, off := range offsets {
		next := today.AddDate(0, 0, off)
		apps = append(apps, domain.Application{ID: i + 1, NextStepDate: &next})
	}
	apps = append(apps, domain.Application{ID: 99}) // no next step

	got := Upcoming(apps, today, 7)
	require.Equal(t, []int{2, 3, 4}, ids(got), "offsets {0, 3, 7} in ascending date order")
}

func TestSortByApplicationDateDescending(t *testing.T) {
	apps := []domain.Application{
		{ID: 1, ApplicationDate: date(2025, time.January, 1)},
		{ID: 2, ApplicationDate: date(2025, time.March, 1)},
		{ID: 3, ApplicationDate: date(2025, time.February, 1)},
	}
	got := SortBy(apps, SortByApplicationDate, true)
	require.Equal(t, []int{2, 3, 1}, ids(got))
	require.Equal(t, []int{1, 2, 3}, ids(apps), "input not reordered")
}

func TestSortByLastUpdated(t *testing.T) {
	apps := []domain.Application{
		{ID: 1, LastUpdated: date(2025, time.March, 2)},
		{ID: 2, LastUpdated: date(2025, time.March, 9)},
		{ID: 3, LastUpdated: date(2025, time.March, 5)},
	}
	got := SortBy(apps, SortByLastUpdated, true)
	require.Equal(t, []int{2, 3, 1}, ids(got))
}

func TestSortByCompanyCaseInsensitive(t *testing.T) {
	apps := []domain.Application{
		{ID: 1, Company: "stripe"},
		{ID: 2, Company: "Google"},
		{ID: 3, Company: "meta"},
	}
	got := SortBy(apps, SortByCompany, false)
	require.Equal(t, []int{2, 3, 1}, ids(got))
}

func TestSortByNextStepDateNilsFirst(t *testing.T) {
	next := date(2025, time.March, 12)
	apps := []domain.Application{
		{ID: 1, NextStepDate: &next},
		{ID: 2},
	}
	got := SortBy(apps, SortByNextStepDate, false)
	require.Equal(t, []int{2, 1}, ids(got))
}

func TestSortByUnknownKeyFallsBack(t *testing.T) {
	apps := []domain.Application{
		{ID: 1, ApplicationDate: date(2025, time.January, 1)},
		{ID: 2, ApplicationDate: date(2025, time.February, 1)},
	}
	got := SortBy(apps, SortKey("bogus"), false)
	require.Equal(t, []int{1, 2}, ids(got))
}
