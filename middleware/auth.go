package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/utils"
)

const (
	CtxUser     = "user"
	CtxForm     = "formObj"
	CtxQuestion = "questionObj"
	CtxResponse = "responseObj"
)

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[7:])
	return tok, tok != ""
}

func userFromToken(raw string) (models.User, bool) {
	claims, err := utils.VerifyToken(raw)
	if err != nil {
		return models.User{}, false
	}
	var user models.User
	if err := config.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		return models.User{}, false
	}
	return user, true
}

// AuthJWT checks Authorization: Bearer <token> and puts the user in the context.
func AuthJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		user, ok := userFromToken(raw)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		c.Set(CtxUser, user)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is present and never aborts.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if user, ok := userFromToken(raw); ok {
				c.Set(CtxUser, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the user set by AuthJWT or OptionalAuth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
