package quiz

import "slices"

// Session is the quiz state for one visitor. Methods return an updated copy.
type Session struct {
	Step    Step    `json:"step"`
	Answers Answers `json:"answers"`
	Result  *Result `json:"result,omitempty"`
	history []Step
}

// Start returns a session at the first step with no answers.
func Start() Session {
	return Session{Step: StepWhat}
}

// Answer records value for the current step and auto-advances. Answering the
// what step with "unknown" skips the why step. The final answer computes the result.
func (s Session) Answer(t *Table, value string) (Session, error) {
	next := s
	next.history = append(slices.Clone(s.history), s.Step)

	switch s.Step {
	case StepWhat:
		next.Answers = Answers{What: value}
		if normalize(value) == UnknownWhat {
			next.Step = StepWhen
		} else {
			next.Step = StepWhy
		}
	case StepWhy:
		next.Answers.Why = value
		next.Answers.When = ""
		next.Step = StepWhen
	case StepWhen:
		next.Answers.When = value
		res := t.Recommend(next.Answers)
		next.Result = &res
		next.Step = StepResult
	default:
		return s, ErrFinished
	}
	return next, nil
}

// Back returns to the previously visited step, keeping earlier answers.
func (s Session) Back() (Session, error) {
	if len(s.history) == 0 {
		return s, ErrAtStart
	}
	prev := s
	prev.history = slices.Clone(s.history[:len(s.history)-1])
	prev.Step = s.history[len(s.history)-1]
	prev.Result = nil
	return prev, nil
}

// Reset returns to the first step with cleared answers.
func (s Session) Reset() Session {
	return Start()
}

// Done reports whether the session reached the result step.
func (s Session) Done() bool {
	return s.Step == StepResult
}
