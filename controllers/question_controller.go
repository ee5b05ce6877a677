package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/middleware"
	"github.com/vnkhanh/forms-app/models"
)

// questionFieldError maps a model validation error onto the request field.
func questionFieldError(c *gin.Context, err error) {
	field := ""
	switch {
	case errors.Is(err, models.ErrUnknownQuestionType):
		field = "type"
	case errors.Is(err, models.ErrQuestionTextRequired):
		field = "text"
	case errors.Is(err, models.ErrOptionsRequired):
		field = "options"
	}
	fieldError(c, http.StatusBadRequest, field, err.Error())
}

func ListQuestions(c *gin.Context) {
	f := c.MustGet(middleware.CtxForm).(models.Form)
	var qs []models.Question
	if err := config.DB.Where("form_id = ?", f.ID).Order("position ASC, created_at ASC").Find(&qs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list questions"})
		return
	}
	c.JSON(http.StatusOK, qs)
}

func GetQuestion(c *gin.Context) {
	c.JSON(http.StatusOK, c.MustGet(middleware.CtxQuestion).(models.Question))
}

type createQuestionReq struct {
	Text     string              `json:"text"`
	Type     models.QuestionType `json:"type"`
	Required bool                `json:"required"`
	Options  []string            `json:"options"`
}

// CreateQuestion appends a question at the end of the form.
func CreateQuestion(c *gin.Context) {
	f := c.MustGet(middleware.CtxForm).(models.Form)

	var req createQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	q := models.Question{
		FormID:   f.ID,
		Text:     req.Text,
		Type:     req.Type,
		Required: req.Required,
		Options:  req.Options,
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		questionFieldError(c, err)
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		maxPos := -1
		row := tx.Model(&models.Question{}).Where("form_id = ?", f.ID).Select("COALESCE(MAX(position), -1)").Row()
		if err := row.Scan(&maxPos); err != nil {
			return err
		}
		q.Position = maxPos + 1
		return tx.Create(&q).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create question"})
		return
	}
	c.JSON(http.StatusCreated, q)
}

type updateQuestionReq struct {
	Text     *string              `json:"text"`
	Type     *models.QuestionType `json:"type"`
	Required *bool                `json:"required"`
	Options  *[]string            `json:"options"`
}

func UpdateQuestion(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestion).(models.Question)

	var req updateQuestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	if req.Text != nil {
		q.Text = *req.Text
	}
	if req.Type != nil {
		q.Type = *req.Type
	}
	if req.Required != nil {
		q.Required = *req.Required
	}
	if req.Options != nil {
		q.Options = *req.Options
	}
	q.Normalize()
	if err := q.Validate(); err != nil {
		questionFieldError(c, err)
		return
	}

	if err := config.DB.Select("text", "type", "required", "options").Updates(&q).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, q)
}

// DeleteQuestion removes a question and closes the gap in positions.
func DeleteQuestion(c *gin.Context) {
	q := c.MustGet(middleware.CtxQuestion).(models.Question)
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Question{}, "id = ?", q.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("form_id = ? AND position > ?", q.FormID, q.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
