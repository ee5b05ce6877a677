package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer is one response's value for a single question. For checkbox
// questions Answer holds the selections joined with ", " and Selections keeps
// them as submitted.
type Answer struct {
	QuestionID string   `json:"questionId"`
	Answer     string   `json:"answer"`
	Selections []string `json:"selections,omitempty"`
}

// Response is a submitted set of answers to a form.
type Response struct {
	ID              string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	FormID          string    `gorm:"column:form_id;size:36;index;not null" json:"formId"`
	UserID          *string   `gorm:"column:user_id;size:36" json:"-"`
	RespondentName  string    `gorm:"column:respondent_name;size:100" json:"respondentName,omitempty"`
	RespondentEmail string    `gorm:"column:respondent_email;size:100" json:"respondentEmail,omitempty"`
	Answers         []Answer  `gorm:"column:answers;type:text;serializer:json" json:"answers"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Response) TableName() string {
	return "responses"
}

func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// AnswerFor returns the answer to questionID, if the response contains one.
func (r Response) AnswerFor(questionID string) (Answer, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return Answer{}, false
}
