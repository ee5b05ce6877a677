package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/models"
)

func loadForm(c *gin.Context) bool {
	var f models.Form
	if err := config.DB.First(&f, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Form not found"})
			return false
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not read form"})
		return false
	}
	c.Set(CtxForm, f)
	return true
}

// LoadForm puts the form named by :id in the context, or answers 404.
func LoadForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		if loadForm(c) {
			c.Next()
		}
	}
}

// CheckFormOwner loads the form and lets only its owner through. It must run
// after AuthJWT.
func CheckFormOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loadForm(c) {
			return
		}
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if f := c.MustGet(CtxForm).(models.Form); !f.OwnedBy(u.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not own this form"})
			return
		}
		c.Next()
	}
}

// LoadQuestion puts the question :qid of the loaded form in the context.
func LoadQuestion() gin.HandlerFunc {
	return func(c *gin.Context) {
		f := c.MustGet(CtxForm).(models.Form)
		var q models.Question
		if err := config.DB.First(&q, "id = ? AND form_id = ?", c.Param("qid"), f.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Question not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not read question"})
			return
		}
		c.Set(CtxQuestion, q)
		c.Next()
	}
}

// LoadResponse puts the response :rid of the loaded form in the context.
func LoadResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		f := c.MustGet(CtxForm).(models.Form)
		var r models.Response
		if err := config.DB.First(&r, "id = ? AND form_id = ?", c.Param("rid"), f.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Response not found"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Could not read response"})
			return
		}
		c.Set(CtxResponse, r)
		c.Next()
	}
}
