package domain

import "time"

// Application is one tracked job application. NextStepDate is nil when no
// next event is scheduled. Date fields carry calendar dates only (midnight
// UTC); the store serializes them as YYYY-MM-DD.
type Application struct {
	ID              int
	Company         string
	Role            string
	Location        string
	ApplicationDate time.Time
	Status          Status
	NextStepDate    *time.Time
	Priority        Priority
	Notes           string
	LastUpdated     time.Time
}
