package quiz

// UnknownWhat is the sentinel answer that skips straight to the fallback recommendation.
const UnknownWhat = "unknown"

// Answers is the accumulated quiz input. Empty fields are treated as absent.
type Answers struct {
	What string `json:"what"`
	Why  string `json:"why,omitempty"`
	When string `json:"when,omitempty"`
}

// Result is a product recommendation.
type Result struct {
	Slug        string `json:"slug" yaml:"slug"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	PriceFrom   string `json:"priceFrom" yaml:"priceFrom"`
	Timeline    string `json:"timeline" yaml:"timeline"`
	ContactLink string `json:"contactLink" yaml:"-"`
}

// Choice is a selectable answer for one quiz step.
type Choice struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Step identifies the position in the three-question flow.
type Step string

const (
	StepWhat   Step = "step1"
	StepWhy    Step = "step2"
	StepWhen   Step = "step3"
	StepResult Step = "result"
)
