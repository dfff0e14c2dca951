package domain

// Status is the pipeline stage of an application. Stored text outside the
// enumerated set is preserved verbatim so a save round-trips it; Known
// reports whether the value is one of ours, and display/selection logic
// must treat unknown values as unmatched rather than failing.
type Status string

const (
	StatusApplied            Status = "Applied"
	StatusOnlineAssessment   Status = "Online Assessment"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusOffer              Status = "Offer"
	StatusRejected           Status = "Rejected"
	StatusOnHold             Status = "On Hold"
	StatusNotInterested      Status = "Not Interested"
)

// Statuses returns every recognized status in display order.
func Statuses() []Status {
	return []Status{
		StatusApplied,
		StatusOnlineAssessment,
		StatusInterviewScheduled,
		StatusOffer,
		StatusRejected,
		StatusOnHold,
		StatusNotInterested,
	}
}

// ParseStatus matches s against the recognized set. The returned Status is
// always usable (the raw input when unmatched); ok reports a real match.
func ParseStatus(s string) (Status, bool) {
	for _, known := range Statuses() {
		if s == string(known) {
			return known, true
		}
	}
	return Status(s), false
}

func (s Status) Known() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Priority is how much the user cares about an application.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority matches s against the recognized set, same contract as
// ParseStatus.
func ParsePriority(s string) (Priority, bool) {
	for _, known := range Priorities() {
		if s == string(known) {
			return known, true
		}
	}
	return Priority(s), false
}

func (p Priority) Known() bool {
	_, ok := ParsePriority(string(p))
	return ok
}
