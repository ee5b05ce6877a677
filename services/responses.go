package services

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/models"
)

type ResponsesService struct {
	c   *client.Client
	log *zap.Logger
}

func NewResponsesService(c *client.Client, logger *zap.Logger) *ResponsesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponsesService{c: c, log: logger}
}

func responsesPath(formID string) string {
	return formPath(formID) + "/responses"
}

func responsePath(formID, responseID string) string {
	return responsesPath(formID) + "/" + url.PathEscape(responseID)
}

// Submission is the body of a new response.
type Submission struct {
	RespondentName  string          `json:"respondentName,omitempty"`
	RespondentEmail string          `json:"respondentEmail,omitempty"`
	Answers         []models.Answer `json:"answers"`
}

func (s *ResponsesService) List(ctx context.Context, formID string) ([]models.Response, error) {
	var rs []models.Response
	if err := s.c.Get(ctx, responsesPath(formID), &rs); err != nil {
		return nil, fmt.Errorf("list responses of form %s: %w", formID, err)
	}
	return rs, nil
}

func (s *ResponsesService) Get(ctx context.Context, formID, responseID string) (models.Response, error) {
	var r models.Response
	if err := s.c.Get(ctx, responsePath(formID, responseID), &r); err != nil {
		return models.Response{}, fmt.Errorf("get response %s: %w", responseID, err)
	}
	return r, nil
}

func (s *ResponsesService) Submit(ctx context.Context, formID string, sub Submission) (models.Response, error) {
	if sub.Answers == nil {
		sub.Answers = []models.Answer{}
	}
	var r models.Response
	if err := s.c.Post(ctx, responsesPath(formID), sub, &r); err != nil {
		return models.Response{}, fmt.Errorf("submit response: %w", err)
	}
	return r, nil
}

// Update replaces the answers of a response. Only the form owner may do this.
func (s *ResponsesService) Update(ctx context.Context, formID, responseID string, answers []models.Answer) (models.Response, error) {
	var r models.Response
	body := map[string]any{"answers": answers}
	if err := s.c.Patch(ctx, responsePath(formID, responseID), body, &r); err != nil {
		return models.Response{}, fmt.Errorf("update response %s: %w", responseID, err)
	}
	return r, nil
}

func (s *ResponsesService) Delete(ctx context.Context, formID, responseID string) error {
	if err := s.c.Delete(ctx, responsePath(formID, responseID), nil); err != nil {
		return fmt.Errorf("delete response %s: %w", responseID, err)
	}
	return nil
}
