package leads

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = errors.New("lead not found")

// ErrNoArchive is returned by Service.Brief when no archived copy exists.
var ErrNoArchive = errors.New("lead has no archived brief")

// ErrDelivered is returned by Repo.Update for a lead that was already delivered.
var ErrDelivered = errors.New("lead already delivered")

// FieldError describes one invalid contact field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every invalid field of a submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "invalid contact: " + strings.Join(parts, "; ")
}
