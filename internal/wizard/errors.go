package wizard

import "errors"

var (
	// ErrAtStart is returned by Back on the first step.
	ErrAtStart = errors.New("already at the first step")
	// ErrLastStep is returned by Next on the contact step; the brief is finished with Submit.
	ErrLastStep = errors.New("contact step is last, submit the brief")
	// ErrSubmitted is returned for any change after a successful submission.
	ErrSubmitted = errors.New("brief already submitted")
	// ErrSubmitting is returned while a submission for the session is in flight.
	ErrSubmitting = errors.New("brief submission in progress")
	// ErrUnknownQuestion is returned when answering a question the product does not have.
	ErrUnknownQuestion = errors.New("unknown question")
)

// ValidationError blocks advancing past a step.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
