package leads

import "time"

// Source identifies which widget produced the lead.
type Source string

const (
	SourceBrief   Source = "brief"
	SourceContact Source = "contact"
	SourceQuiz    Source = "quiz"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceBrief, SourceContact, SourceQuiz:
		return true
	default:
		return false
	}
}

// Status tracks delivery of a lead to the messaging backend.
type Status string

const (
	StatusNew       Status = "new"
	StatusQueued    Status = "queued"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
)

// Contact is how the visitor asked to be reached.
type Contact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Comment  string `json:"comment,omitempty"`
}

// Lead is a stored submission.
type Lead struct {
	ID          string
	VisitorID   string
	Source      Source
	ProductSlug string
	Contact
	Summary     string
	Status      Status
	ArchiveKey  string
	LastError   string
	CreatedAt   time.Time
	DeliveredAt *time.Time
}

// Submission is the input to Service.Submit.
type Submission struct {
	VisitorID   string
	RequestID   string
	Source      Source
	ProductSlug string
	Contact     Contact
	// Summary is the human-readable brief assembled by the caller.
	Summary string
}

// Result is what the visitor sees after submitting.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	LeadID  string `json:"leadId,omitempty"`
}

const (
	MessageSuccess  = "Спасибо! Мы свяжемся с вами в ближайшее время."
	MessageTryAgain = "Не удалось отправить заявку. Попробуйте ещё раз."
)
