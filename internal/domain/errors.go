package domain

import "fmt"

// ValidationError reports a required field that was empty after trimming.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// NotFoundError reports an update aimed at an ID that is not in the table.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("application %d not found", e.ID)
}
