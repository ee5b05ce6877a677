package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/middleware"
	"github.com/vnkhanh/forms-app/models"
)

func ListResponses(c *gin.Context) {
	f := c.MustGet(middleware.CtxForm).(models.Form)
	var rs []models.Response
	if err := config.DB.Where("form_id = ?", f.ID).Order("created_at ASC").Find(&rs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list responses"})
		return
	}
	c.JSON(http.StatusOK, rs)
}

func GetResponse(c *gin.Context) {
	c.JSON(http.StatusOK, c.MustGet(middleware.CtxResponse).(models.Response))
}

// checkAnswers validates submitted answers against the form's questions and
// returns them in canonical form: one entry per question, in question order.
func checkAnswers(formID string, submitted []models.Answer) ([]models.Answer, map[string]string, error) {
	var qs []models.Question
	if err := config.DB.Where("form_id = ?", formID).Order("position ASC, created_at ASC").Find(&qs).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[string]models.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	problems := map[string]string{}
	seen := map[string]bool{}
	for _, a := range submitted {
		q, ok := byID[a.QuestionID]
		switch {
		case !ok:
			problems[a.QuestionID] = "Unknown question"
			continue
		case seen[a.QuestionID]:
			problems[a.QuestionID] = "Answered twice"
			continue
		}
		seen[a.QuestionID] = true
		if !q.Type.RequiresOptions() {
			continue
		}
		var picked []string
		switch {
		case !q.Type.MultiSelect():
			if len(a.Selections) > 1 || (len(a.Selections) == 1 && a.Selections[0] != a.Answer) {
				problems[q.ID] = "Only one option may be chosen"
				continue
			}
			if strings.TrimSpace(a.Answer) != "" {
				picked = []string{a.Answer}
			}
		case len(a.Selections) > 0:
			picked = a.Selections
		case strings.TrimSpace(a.Answer) != "":
			picked = strings.Split(a.Answer, models.CheckboxSeparator)
		}
		for _, p := range picked {
			if !q.HasOption(p) {
				problems[q.ID] = fmt.Sprintf("%q is not an option", p)
				break
			}
		}
	}
	if len(problems) > 0 {
		return nil, problems, nil
	}

	answers := models.FromSubmission(qs, submitted)
	if errs := models.Validate(qs, answers); len(errs) > 0 {
		return nil, errs, nil
	}
	return models.ToSubmission(qs, answers), nil, nil
}

type submitReq struct {
	RespondentName  string          `json:"respondentName"`
	RespondentEmail string          `json:"respondentEmail"`
	Answers         []models.Answer `json:"answers"`
}

// CreateResponse accepts a submission from anyone. A signed in respondent is
// linked to the response and named when the body does not name anyone.
func CreateResponse(c *gin.Context) {
	f := c.MustGet(middleware.CtxForm).(models.Form)

	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload", "error": err.Error()})
		return
	}
	answers, problems, err := checkAnswers(f.ID, req.Answers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not read questions"})
		return
	}
	if problems != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill all required fields", "field": "answers", "errors": problems})
		return
	}

	r := models.Response{
		FormID:          f.ID,
		RespondentName:  strings.TrimSpace(req.RespondentName),
		RespondentEmail: strings.TrimSpace(req.RespondentEmail),
		Answers:         answers,
	}
	if u, ok := middleware.CurrentUser(c); ok {
		r.UserID = &u.ID
		if r.RespondentName == "" && r.RespondentEmail == "" {
			r.RespondentName, r.RespondentEmail = u.Name, u.Email
		}
	}
	if err := config.DB.Create(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save response"})
		return
	}
	c.JSON(http.StatusCreated, r)
}

type updateResponseReq struct {
	Answers []models.Answer `json:"answers" binding:"required"`
}

func UpdateResponse(c *gin.Context) {
	r := c.MustGet(middleware.CtxResponse).(models.Response)

	var req updateResponseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fieldError(c, http.StatusBadRequest, bindingField(err), bindingMessage(err))
		return
	}
	answers, problems, err := checkAnswers(r.FormID, req.Answers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not read questions"})
		return
	}
	if problems != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please fill all required fields", "field": "answers", "errors": problems})
		return
	}
	r.Answers = answers
	if err := config.DB.Select("answers").Updates(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func DeleteResponse(c *gin.Context) {
	r := c.MustGet(middleware.CtxResponse).(models.Response)
	if err := config.DB.Delete(&models.Response{}, "id = ?", r.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
