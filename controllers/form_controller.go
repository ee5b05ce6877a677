package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/middleware"
	"github.com/vnkhanh/forms-app/models"
)

func ListForms(c *gin.Context) {
	var forms []models.Form
	if err := config.DB.Order("created_at DESC").Find(&forms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list forms"})
		return
	}
	c.JSON(http.StatusOK, forms)
}

type createFormReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateForm makes the caller the owner, whatever userId the body names.
func CreateForm(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	var req createFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldError(c, http.StatusBadRequest, bindingField(err), bindingMessage(err))
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		fieldError(c, http.StatusBadRequest, "title", "title is required")
		return
	}

	form := models.Form{Title: title, Description: req.Description, OwnerID: u.ID}
	if err := config.DB.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create form"})
		return
	}
	c.JSON(http.StatusCreated, form)
}

func GetForm(c *gin.Context) {
	c.JSON(http.StatusOK, c.MustGet(middleware.CtxForm).(models.Form))
}

type updateFormReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func UpdateForm(c *gin.Context) {
	f := c.MustGet(middleware.CtxForm).(models.Form)

	var req updateFormReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fieldError(c, http.StatusBadRequest, "title", "title is required")
			return
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&models.Form{}).Where("id = ?", f.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	config.DB.First(&f, "id = ?", f.ID)
	c.JSON(http.StatusOK, f)
}

// DeleteForm removes the form with its questions and responses.
func DeleteForm(c *gin.Context) {
	f := c.MustGet(middleware.CtxForm).(models.Form)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", f.ID).Delete(&models.Response{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", f.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Form{}, "id = ?", f.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
