package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/utils"
)

type loginReq struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login answers {token, userId, user}.
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldError(c, http.StatusBadRequest, bindingField(err), bindingMessage(err))
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": models.InvalidCredentialsMarker + " Invalid email or password",
			"code":    models.CodeInvalidCredentials,
		})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.ID, "user": user})
}

// Logout is a no-op for stateless tokens; the client drops its copy.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
