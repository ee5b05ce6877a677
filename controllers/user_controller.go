package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/middleware"
	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/utils"
)

const minPasswordLength = 8

type registerReq struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func emailTaken(email, exceptID string) bool {
	var count int64
	q := config.DB.Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	q.Count(&count)
	return count > 0
}

// Register creates an account and signs it in: {token, user}.
func Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldError(c, http.StatusBadRequest, bindingField(err), bindingMessage(err))
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if emailTaken(email, "") {
		fieldError(c, http.StatusConflict, "email", "Email already in use")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
		return
	}
	user := models.User{Name: strings.TrimSpace(req.Name), Email: email, PasswordHash: hash}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create account"})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{"user": user})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// resolveUserID maps "me" onto the caller.
func resolveUserID(c *gin.Context) string {
	id := c.Param("id")
	if id == "me" {
		if u, ok := middleware.CurrentUser(c); ok {
			return u.ID
		}
	}
	return id
}

func GetUser(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, "id = ?", resolveUserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not read user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserReq struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	CurrentPassword string  `json:"currentPassword"`
}

// UpdateUser lets a user edit their own account. Changing the password
// requires the current one.
func UpdateUser(c *gin.Context) {
	me := c.MustGet(middleware.CtxUser).(models.User)
	if resolveUserID(c) != me.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only edit your own account"})
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			fieldError(c, http.StatusBadRequest, "name", "name is required")
			return
		}
		updates["name"] = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			fieldError(c, http.StatusBadRequest, "email", "email is required")
			return
		}
		if emailTaken(email, me.ID) {
			fieldError(c, http.StatusConflict, "email", "Email already in use")
			return
		}
		updates["email"] = email
	}
	if req.Password != nil {
		if !utils.CheckPassword(me.PasswordHash, req.CurrentPassword) {
			fieldError(c, http.StatusBadRequest, "currentPassword", "Current password is incorrect")
			return
		}
		if len(*req.Password) < minPasswordLength {
			fieldError(c, http.StatusBadRequest, "password", "password must be at least 8 characters")
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not hash password"})
			return
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&me).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	var fresh models.User
	config.DB.First(&fresh, "id = ?", me.ID)
	c.JSON(http.StatusOK, fresh)
}

// DeleteUser removes the caller's account together with their forms.
func DeleteUser(c *gin.Context) {
	me := c.MustGet(middleware.CtxUser).(models.User)
	if resolveUserID(c) != me.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You can only delete your own account"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		owned := func() *gorm.DB {
			return tx.Model(&models.Form{}).Select("id").Where("owner_id = ?", me.ID)
		}
		if err := tx.Where("form_id IN (?)", owned()).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id IN (?)", owned()).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", me.ID).Delete(&models.Form{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Response{}).Where("user_id = ?", me.ID).Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&me).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
