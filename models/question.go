package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionType is the closed set of question variants a form can hold.
type QuestionType string

const (
	QuestionShortText      QuestionType = "shorttext"
	QuestionParagraph      QuestionType = "paragraph"
	QuestionMultipleChoice QuestionType = "multiplechoice"
	QuestionCheckbox       QuestionType = "checkbox"
	QuestionDropdown       QuestionType = "dropdown"
)

// QuestionTypes lists every variant in display order.
var QuestionTypes = []QuestionType{
	QuestionShortText,
	QuestionParagraph,
	QuestionMultipleChoice,
	QuestionCheckbox,
	QuestionDropdown,
}

// DefaultOption seeds the option list when a draft switches to a selection type.
const DefaultOption = "Option 1"

var (
	ErrUnknownQuestionType  = errors.New("unknown question type")
	ErrQuestionTextRequired = errors.New("question text is required")
	ErrOptionsRequired      = errors.New("at least one option is required")
)

// ParseQuestionType normalises s and checks it names a known variant.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrUnknownQuestionType
	}
	return t, nil
}

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionShortText, QuestionParagraph, QuestionMultipleChoice, QuestionCheckbox, QuestionDropdown:
		return true
	}
	return false
}

// RequiresOptions reports whether answers are picked from an option list.
func (t QuestionType) RequiresOptions() bool {
	return t == QuestionMultipleChoice || t == QuestionCheckbox || t == QuestionDropdown
}

// MultiSelect reports whether an answer is a set of options rather than one value.
func (t QuestionType) MultiSelect() bool {
	return t == QuestionCheckbox
}

// Label returns the human name of the type in the given locale ("en" or "et").
func (t QuestionType) Label(locale string) string {
	labels := questionTypeLabelsEN
	if locale == "et" {
		labels = questionTypeLabelsET
	}
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

var questionTypeLabelsEN = map[QuestionType]string{
	QuestionShortText:      "Short answer",
	QuestionParagraph:      "Paragraph",
	QuestionMultipleChoice: "Multiple choice",
	QuestionCheckbox:       "Checkboxes",
	QuestionDropdown:       "Dropdown",
}

var questionTypeLabelsET = map[QuestionType]string{
	QuestionShortText:      "Lühivastus",
	QuestionParagraph:      "Lõik",
	QuestionMultipleChoice: "Valikvastus",
	QuestionCheckbox:       "Märkeruut",
	QuestionDropdown:       "Rippmenüü",
}

// Question is one typed prompt of a form. Options is only meaningful for
// selection types and then holds at least one entry.
type Question struct {
	ID        string       `gorm:"column:id;primaryKey;size:36" json:"id"`
	FormID    string       `gorm:"column:form_id;size:36;index;not null" json:"formId"`
	Text      string       `gorm:"column:text;type:text;not null" json:"text"`
	Type      QuestionType `gorm:"column:type;size:20;not null" json:"type"`
	Required  bool         `gorm:"column:required;default:false" json:"required"`
	Options   []string     `gorm:"column:options;type:text;serializer:json" json:"options,omitempty"`
	Position  int          `gorm:"column:position;default:0" json:"position"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// NewQuestion builds a question and rejects shapes the model does not allow,
// most notably a selection type without options.
func NewQuestion(text string, t QuestionType, required bool, options ...string) (Question, error) {
	q := Question{
		Text:     strings.TrimSpace(text),
		Type:     t,
		Required: required,
	}
	if t.RequiresOptions() {
		q.Options = append([]string(nil), options...)
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks the structural invariants of q.
func (q Question) Validate() error {
	if !q.Type.Valid() {
		return ErrUnknownQuestionType
	}
	if strings.TrimSpace(q.Text) == "" {
		return ErrQuestionTextRequired
	}
	if q.Type.RequiresOptions() && len(q.Options) == 0 {
		return ErrOptionsRequired
	}
	return nil
}

// Normalize trims the text and drops options a non-selection type cannot use.
func (q *Question) Normalize() {
	q.Text = strings.TrimSpace(q.Text)
	q.Type = QuestionType(strings.ToLower(strings.TrimSpace(string(q.Type))))
	if !q.Type.RequiresOptions() {
		q.Options = nil
	}
}

// HasOption reports whether opt is one of the question's options.
func (q Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}
