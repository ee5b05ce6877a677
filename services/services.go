package services

import (
	"go.uber.org/zap"

	"github.com/vnkhanh/forms-app/client"
)

// Services bundles every resource service over one client.
type Services struct {
	Auth      *AuthService
	Users     *UsersService
	Forms     *FormsService
	Questions *QuestionsService
	Responses *ResponsesService
}

func New(c *client.Client, logger *zap.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(c, logger),
		Users:     NewUsersService(c, logger),
		Forms:     NewFormsService(c, logger),
		Questions: NewQuestionsService(c, logger),
		Responses: NewResponsesService(c, logger),
	}
}
