package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forms-app/controllers"
	"github.com/vnkhanh/forms-app/middleware"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	sessions := r.Group("/sessions")
	{
		sessions.POST("", controllers.Login)
		sessions.DELETE("", middleware.OptionalAuth(), controllers.Logout)
	}

	users := r.Group("/users")
	{
		users.POST("", controllers.Register)
		users.GET("", middleware.AuthJWT(), controllers.ListUsers)
		users.GET("/:id", middleware.AuthJWT(), controllers.GetUser)
		users.PATCH("/:id", middleware.AuthJWT(), controllers.UpdateUser)
		users.DELETE("/:id", middleware.AuthJWT(), controllers.DeleteUser)
	}

	forms := r.Group("/forms")
	{
		forms.GET("", controllers.ListForms)
		forms.POST("", middleware.AuthJWT(), middleware.RateLimitFormsCreate(), controllers.CreateForm)
		forms.GET("/:id", middleware.LoadForm(), controllers.GetForm)
		forms.PATCH("/:id", middleware.AuthJWT(), middleware.CheckFormOwner(), controllers.UpdateForm)
		forms.DELETE("/:id", middleware.AuthJWT(), middleware.CheckFormOwner(), controllers.DeleteForm)

		forms.GET("/:id/questions", middleware.LoadForm(), controllers.ListQuestions)
		forms.GET("/:id/questions/:qid", middleware.LoadForm(), middleware.LoadQuestion(), controllers.GetQuestion)
		forms.POST("/:id/questions", middleware.AuthJWT(), middleware.CheckFormOwner(), controllers.CreateQuestion)
		forms.PATCH("/:id/questions/:qid", middleware.AuthJWT(), middleware.CheckFormOwner(), middleware.LoadQuestion(), controllers.UpdateQuestion)
		forms.DELETE("/:id/questions/:qid", middleware.AuthJWT(), middleware.CheckFormOwner(), middleware.LoadQuestion(), controllers.DeleteQuestion)

		// Anyone may answer; a signed in respondent is recorded.
		forms.POST("/:id/responses", middleware.OptionalAuth(), middleware.LoadForm(), controllers.CreateResponse)
		forms.GET("/:id/responses", middleware.AuthJWT(), middleware.CheckFormOwner(), controllers.ListResponses)
		forms.GET("/:id/responses/:rid", middleware.AuthJWT(), middleware.CheckFormOwner(), middleware.LoadResponse(), controllers.GetResponse)
		forms.PATCH("/:id/responses/:rid", middleware.AuthJWT(), middleware.CheckFormOwner(), middleware.LoadResponse(), controllers.UpdateResponse)
		forms.DELETE("/:id/responses/:rid", middleware.AuthJWT(), middleware.CheckFormOwner(), middleware.LoadResponse(), controllers.DeleteResponse)
	}
}
