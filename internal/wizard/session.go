package wizard

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
)

const maxTextAnswer = 2000

// New starts a brief for p on the package step.
func New(p catalog.Product, now time.Time) Session {
	return Session{
		Product:   p,
		Answers:   estimate.AnswerSet{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Steps lists the session's steps.
func (s Session) Steps() []Step {
	return Steps(s.Product)
}

// Current returns the active step, or a done step after submission.
func (s Session) Current() Step {
	if s.Done() {
		return Step{Kind: StepDone}
	}
	steps := s.Steps()
	if s.Position >= len(steps) {
		return steps[len(steps)-1]
	}
	return steps[s.Position]
}

// Done reports whether the brief was submitted.
func (s Session) Done() bool {
	return s.LeadID != ""
}

func (s Session) frozen() error {
	switch {
	case s.Done():
		return ErrSubmitted
	case s.Submitting:
		return ErrSubmitting
	}
	return nil
}

// Claim marks a complete brief as being submitted. Only one claim can be held at a time.
func (s Session) Claim(now time.Time) (Session, error) {
	if err := s.frozen(); err != nil {
		return s, err
	}
	if err := s.Complete(); err != nil {
		return s, err
	}
	s.Submitting = true
	s.UpdatedAt = now
	return s, nil
}

// Release drops a claim after a failed submission.
func (s Session) Release(now time.Time) Session {
	s.Submitting = false
	s.UpdatedAt = now
	return s
}

// SelectPackage chooses the base package.
func (s Session) SelectPackage(id string, now time.Time) (Session, error) {
	if err := s.frozen(); err != nil {
		return s, err
	}
	id = strings.TrimSpace(id)
	if _, ok := s.Product.Package(id); !ok {
		return s, invalid("package", "Выберите пакет из списка")
	}
	s.Package = id
	s.UpdatedAt = now
	return s, nil
}

// SetAnswer records the answer to questionID, replacing any earlier one.
// An empty selection clears the answer.
func (s Session) SetAnswer(questionID string, sel estimate.Selection, now time.Time) (Session, error) {
	if err := s.frozen(); err != nil {
		return s, err
	}
	q, ok := s.Product.Question(questionID)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	answers := s.Answers.Clone()
	if sel.Empty() {
		delete(answers, q.ID)
		s.Answers = answers
		s.UpdatedAt = now
		return s, nil
	}
	norm, err := check(q, sel)
	if err != nil {
		return s, err
	}
	answers[q.ID] = norm
	s.Answers = answers
	s.UpdatedAt = now
	return s, nil
}

// check type-checks sel against q and returns the normalized selection.
func check(q catalog.Question, sel estimate.Selection) (estimate.Selection, error) {
	switch q.Type {
	case catalog.QuestionSingle:
		vals := sel.Values()
		if len(vals) != 1 {
			return sel, invalid(q.ID, "Выберите один вариант")
		}
		id := strings.TrimSpace(vals[0])
		if _, ok := q.Option(id); !ok {
			return sel, invalid(q.ID, "Неизвестный вариант ответа")
		}
		return estimate.Single(id), nil
	case catalog.QuestionMulti:
		seen := make(map[string]bool)
		ids := make([]string, 0, len(sel.Values()))
		for _, v := range sel.Values() {
			id := strings.TrimSpace(v)
			if id == "" || seen[id] {
				continue
			}
			if _, ok := q.Option(id); !ok {
				return sel, invalid(q.ID, "Неизвестный вариант ответа")
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return estimate.Multi(ids...), nil
	default:
		if sel.IsList() {
			return sel, invalid(q.ID, "Ожидается текстовый ответ")
		}
		text := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(text) > maxTextAnswer {
			return sel, invalid(q.ID, "Слишком длинный ответ")
		}
		return estimate.Single(text), nil
	}
}

// Next advances past the current step if it is complete.
func (s Session) Next(now time.Time) (Session, error) {
	if err := s.frozen(); err != nil {
		return s, err
	}
	step := s.Current()
	if step.Kind == StepContact {
		return s, ErrLastStep
	}
	if err := s.checkStep(step); err != nil {
		return s, err
	}
	s.Position++
	s.UpdatedAt = now
	return s, nil
}

// Back returns to the previous step. Answers are kept.
func (s Session) Back(now time.Time) (Session, error) {
	if err := s.frozen(); err != nil {
		return s, err
	}
	if s.Position == 0 {
		return s, ErrAtStart
	}
	s.Position--
	s.UpdatedAt = now
	return s, nil
}

// Complete checks every step before the contact step.
func (s Session) Complete() error {
	for _, step := range s.Steps() {
		if step.Kind == StepContact {
			break
		}
		if err := s.checkStep(step); err != nil {
			return err
		}
	}
	return nil
}

func (s Session) checkStep(step Step) error {
	switch step.Kind {
	case StepPackage:
		if s.Package == "" {
			return invalid("package", "Выберите пакет")
		}
	case StepQuestion:
		q, _ := s.Product.Question(step.QuestionID)
		if q.Required {
			if sel, ok := s.Answers[q.ID]; !ok || sel.Empty() {
				return invalid(q.ID, "Ответьте на вопрос, чтобы продолжить")
			}
		}
	}
	return nil
}

// Estimate computes the current estimate. It reports false until a package is chosen.
func (s Session) Estimate() (estimate.Estimate, bool) {
	pkg, ok := s.Product.Package(s.Package)
	if !ok {
		return estimate.Estimate{}, false
	}
	return estimate.Compute(pkg, s.Product.Questions, s.Answers), true
}

// Submitted marks the session finished with the given lead.
func (s Session) Submitted(leadID string, now time.Time) Session {
	s.LeadID = leadID
	s.Submitting = false
	s.UpdatedAt = now
	return s
}
