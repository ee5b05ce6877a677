package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/client"
	"github.com/vnkhanh/forms-app/models"
)

var ErrTitleRequired = errors.New("form title is required")

type FormsService struct {
	c   *client.Client
	log *zap.Logger
}

func NewFormsService(c *client.Client, logger *zap.Logger) *FormsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormsService{c: c, log: logger}
}

func formPath(id string) string {
	return "/forms/" + url.PathEscape(id)
}

func (s *FormsService) List(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	if err := s.c.Get(ctx, "/forms", &forms); err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return forms, nil
}

func (s *FormsService) Get(ctx context.Context, id string) (models.Form, error) {
	var f models.Form
	if err := s.c.Get(ctx, formPath(id), &f); err != nil {
		return models.Form{}, fmt.Errorf("get form %s: %w", id, err)
	}
	return f, nil
}

type FormInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"userId,omitempty"`
}

// Create posts a new form stamped with the logged in user as owner.
func (s *FormsService) Create(ctx context.Context, in FormInput) (models.Form, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return models.Form{}, ErrTitleRequired
	}
	if in.UserID == "" {
		in.UserID = s.c.Session().UserID()
	}
	var f models.Form
	if err := s.c.Post(ctx, "/forms", in, &f); err != nil {
		return models.Form{}, fmt.Errorf("create form: %w", err)
	}
	if f.OwnerID == "" {
		f.OwnerID = in.UserID
	}
	return f, nil
}

type FormPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (s *FormsService) Update(ctx context.Context, id string, patch FormPatch) (models.Form, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Form{}, ErrTitleRequired
	}
	var f models.Form
	if err := s.c.Patch(ctx, formPath(id), patch, &f); err != nil {
		return models.Form{}, fmt.Errorf("update form %s: %w", id, err)
	}
	return f, nil
}

func (s *FormsService) Delete(ctx context.Context, id string) error {
	if err := s.c.Delete(ctx, formPath(id), nil); err != nil {
		return fmt.Errorf("delete form %s: %w", id, err)
	}
	return nil
}
