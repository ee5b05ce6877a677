package models

import (
	"strings"
)

// CheckboxSeparator joins checkbox selections into the single answer string.
const CheckboxSeparator = ", "

// RequiredMessage is reported by Validate for every unanswered required question.
const RequiredMessage = "This question is required"

// AnswerValue is the in-progress answer to one question. Multi answers hold a
// set of selected options; all other answers hold a single string.
type AnswerValue struct {
	Text     string
	Selected []string
	Multi    bool
}

// TextAnswer is a single-value answer (free text or one selected option).
func TextAnswer(s string) AnswerValue {
	return AnswerValue{Text: s}
}

// SelectionAnswer is a checkbox answer with the given options selected.
func SelectionAnswer(options ...string) AnswerValue {
	return AnswerValue{Selected: append([]string{}, options...), Multi: true}
}

// Empty applies the emptiness rule for the answer's shape.
func (v AnswerValue) Empty() bool {
	if v.Multi {
		return len(v.Selected) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// IsSelected reports whether opt is part of a multi answer.
func (v AnswerValue) IsSelected(opt string) bool {
	for _, s := range v.Selected {
		if s == opt {
			return true
		}
	}
	return false
}

// String renders the answer the way it is submitted.
func (v AnswerValue) String() string {
	if v.Multi {
		return strings.Join(v.Selected, CheckboxSeparator)
	}
	return v.Text
}

// Answers maps question ids to their in-progress answers.
type Answers map[string]AnswerValue

// emptyAnswer returns the zero value whose shape matches q.
func emptyAnswer(q Question) AnswerValue {
	if q.Type.MultiSelect() {
		return SelectionAnswer()
	}
	return TextAnswer("")
}

// InitializeAnswers produces one empty entry per question: an empty set for
// checkbox questions and an empty string for everything else.
func InitializeAnswers(questions []Question) Answers {
	answers := make(Answers, len(questions))
	for _, q := range questions {
		answers[q.ID] = emptyAnswer(q)
	}
	return answers
}

// Set stores a single-value answer.
func (a Answers) Set(questionID, value string) {
	a[questionID] = TextAnswer(value)
}

// Toggle adds opt to a multi answer, or removes it when already selected.
func (a Answers) Toggle(questionID, opt string) {
	cur := a[questionID]
	next := SelectionAnswer()
	found := false
	for _, s := range cur.Selected {
		if s == opt {
			found = true
			continue
		}
		next.Selected = append(next.Selected, s)
	}
	if !found {
		next.Selected = append(next.Selected, opt)
	}
	a[questionID] = next
}

// Validate checks every required question against the emptiness rule of its
// shape and returns a message per failing question id. All failures are
// collected; a missing entry counts as empty.
func Validate(questions []Question, answers Answers) map[string]string {
	errs := map[string]string{}
	for _, q := range questions {
		if !q.Required {
			continue
		}
		v, ok := answers[q.ID]
		if !ok {
			v = emptyAnswer(q)
		}
		if q.Type.MultiSelect() && !v.Multi {
			v = SelectionAnswer(nonEmpty(v.Text)...)
		}
		if v.Empty() {
			errs[q.ID] = RequiredMessage
		}
	}
	return errs
}

// ToSubmission flattens answers into one entry per question, in question
// order. Checkbox selections are joined with CheckboxSeparator, which cannot be
// split back reliably, so they are also copied into Selections.
func ToSubmission(questions []Question, answers Answers) []Answer {
	out := make([]Answer, 0, len(questions))
	for _, q := range questions {
		v, ok := answers[q.ID]
		if !ok {
			v = emptyAnswer(q)
		}
		a := Answer{QuestionID: q.ID, Answer: v.String()}
		if v.Multi {
			a.Selections = append([]string{}, v.Selected...)
		}
		out = append(out, a)
	}
	return out
}

// FromSubmission rebuilds in-progress answers from submitted ones. Selections
// is preferred for checkbox questions; older answers without it are split on
// CheckboxSeparator.
func FromSubmission(questions []Question, submitted []Answer) Answers {
	byID := make(map[string]Answer, len(submitted))
	for _, a := range submitted {
		byID[a.QuestionID] = a
	}
	answers := InitializeAnswers(questions)
	for _, q := range questions {
		a, ok := byID[q.ID]
		if !ok {
			continue
		}
		if !q.Type.MultiSelect() {
			answers[q.ID] = TextAnswer(a.Answer)
			continue
		}
		if len(a.Selections) > 0 {
			answers[q.ID] = SelectionAnswer(a.Selections...)
			continue
		}
		answers[q.ID] = SelectionAnswer(nonEmpty(a.Answer)...)
	}
	return answers
}

func nonEmpty(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	return strings.Split(joined, CheckboxSeparator)
}
