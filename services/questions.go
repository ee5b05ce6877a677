package services

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/models"
)

type QuestionsService struct {
	c   *client.Client
	log *zap.Logger
}

func NewQuestionsService(c *client.Client, logger *zap.Logger) *QuestionsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionsService{c: c, log: logger}
}

func questionsPath(formID string) string {
	return formPath(formID) + "/questions"
}

func questionPath(formID, questionID string) string {
	return questionsPath(formID) + "/" + url.PathEscape(questionID)
}

// questionInput is the writable subset of a question.
type questionInput struct {
	Text     string              `json:"text"`
	Type     models.QuestionType `json:"type"`
	Required bool                `json:"required"`
	Options  []string            `json:"options,omitempty"`
}

func toInput(q models.Question) (questionInput, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return questionInput{}, err
	}
	return questionInput{Text: q.Text, Type: q.Type, Required: q.Required, Options: q.Options}, nil
}

// List returns the form's questions in insertion order.
func (s *QuestionsService) List(ctx context.Context, formID string) ([]models.Question, error) {
	var qs []models.Question
	if err := s.c.Get(ctx, questionsPath(formID), &qs); err != nil {
		return nil, fmt.Errorf("list questions of form %s: %w", formID, err)
	}
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Position < qs[j].Position })
	return qs, nil
}

func (s *QuestionsService) Get(ctx context.Context, formID, questionID string) (models.Question, error) {
	var q models.Question
	if err := s.c.Get(ctx, questionPath(formID, questionID), &q); err != nil {
		return models.Question{}, fmt.Errorf("get question %s: %w", questionID, err)
	}
	return q, nil
}

// Create validates q locally before sending it.
func (s *QuestionsService) Create(ctx context.Context, formID string, q models.Question) (models.Question, error) {
	in, err := toInput(q)
	if err != nil {
		return models.Question{}, err
	}
	var out models.Question
	if err := s.c.Post(ctx, questionsPath(formID), in, &out); err != nil {
		return models.Question{}, fmt.Errorf("create question: %w", err)
	}
	return out, nil
}

// Update validates q locally and replaces the question with id q.ID.
func (s *QuestionsService) Update(ctx context.Context, formID string, q models.Question) (models.Question, error) {
	in, err := toInput(q)
	if err != nil {
		return models.Question{}, err
	}
	var out models.Question
	if err := s.c.Patch(ctx, questionPath(formID, q.ID), in, &out); err != nil {
		return models.Question{}, fmt.Errorf("update question %s: %w", q.ID, err)
	}
	return out, nil
}

func (s *QuestionsService) Delete(ctx context.Context, formID, questionID string) error {
	if err := s.c.Delete(ctx, questionPath(formID, questionID), nil); err != nil {
		return fmt.Errorf("delete question %s: %w", questionID, err)
	}
	return nil
}
