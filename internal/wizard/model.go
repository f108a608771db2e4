package wizard

import (
	"time"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
)

// StepKind is the kind of one wizard step.
type StepKind string

const (
	StepPackage  StepKind = "package"
	StepQuestion StepKind = "question"
	StepContact  StepKind = "contact"
	StepDone     StepKind = "done"
)

// Step is one position in the wizard. QuestionID is set for question steps.
type Step struct {
	Kind       StepKind `json:"kind"`
	QuestionID string   `json:"questionId,omitempty"`
}

// Session is one visitor's progress through a product brief.
// Methods return a modified copy and never mutate the receiver.
type Session struct {
	Product   catalog.Product
	Package   string
	Answers   estimate.AnswerSet
	Position  int
	LeadID    string
	// Submitting is set while the brief is being delivered; edits and resubmits are refused.
	Submitting bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Steps lists the steps of p: package choice, each question in order, then contact.
func Steps(p catalog.Product) []Step {
	steps := make([]Step, 0, len(p.Questions)+2)
	steps = append(steps, Step{Kind: StepPackage})
	for _, q := range p.Questions {
		steps = append(steps, Step{Kind: StepQuestion, QuestionID: q.ID})
	}
	return append(steps, Step{Kind: StepContact})
}
