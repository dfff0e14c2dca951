// Package stats computes the aggregate views shown on the analytics page.
package stats

import (
	"sort"

	"github.com/samber/lo"

	"apptrack.local/internal/domain"
)

// Summary is the headline counters. The buckets are not exhaustive: On Hold
// and Not Interested records count toward Total only.
type Summary struct {
	Total     int `json:"total"`
	Offers    int `json:"offers"`
	Rejected  int `json:"rejected"`
	InProcess int `json:"in_process"`
}

var inProcessStatuses = []domain.Status{
	domain.StatusApplied,
	domain.StatusOnlineAssessment,
	domain.StatusInterviewScheduled,
}

func Counts(apps []domain.Application) Summary {
	return Summary{
		Total: len(apps),
		Offers: lo.CountBy(apps, func(a domain.Application) bool {
			return a.Status == domain.StatusOffer
		}),
		Rejected: lo.CountBy(apps, func(a domain.Application) bool {
			return a.Status == domain.StatusRejected
		}),
		InProcess: lo.CountBy(apps, func(a domain.Application) bool {
			return lo.Contains(inProcessStatuses, a.Status)
		}),
	}
}

// Field selects which column Frequency groups on.
type Field string

const (
	FieldStatus   Field = "status"
	FieldPriority Field = "priority"
	FieldCompany  Field = "company"
)

// topCompanies caps the company table the way the analytics chart does.
const topCompanies = 10

// Bucket is one distinct value and how often it occurs.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Frequency returns the occurrence count of each distinct observed value of
// the field, most frequent first; ties keep first-encountered order.
// FieldCompany is limited to the top 10.
func Frequency(apps []domain.Application, field Field) []Bucket {
	counts := make(map[string]int)
	var order []string
	for _, a := range apps {
		var v string
		switch field {
		case FieldPriority:
			v = string(a.Priority)
		case FieldCompany:
			v = a.Company
		default:
			v = string(a.Status)
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	buckets := lo.Map(order, func(v string, _ int) Bucket {
		return Bucket{Value: v, Count: counts[v]}
	})
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Count > buckets[j].Count
	})
	if field == FieldCompany && len(buckets) > topCompanies {
		buckets = buckets[:topCompanies]
	}
	return buckets
}
