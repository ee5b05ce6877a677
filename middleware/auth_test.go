package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/utils"
)

func setupDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")
	db, err := config.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	config.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
}

func seedUser(t *testing.T, email string) (models.User, string) {
	t.Helper()
	u := models.User{Name: "Test", Email: email, PasswordHash: "x"}
	require.NoError(t, config.DB.Create(&u).Error)
	tok, err := utils.GenerateToken(u.ID)
	require.NoError(t, err)
	return u, tok
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	setupDB(t)
	u, tok := seedUser(t, "ada@example.com")

	r := gin.New()
	r.GET("/me", AuthJWT(), func(c *gin.Context) {
		cur, _ := CurrentUser(c)
		c.String(http.StatusOK, cur.ID)
	})

	w := serve(r, http.MethodGet, "/me", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, u.ID, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", "not.a.jwt").Code)

	ghost, err := utils.GenerateToken(uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", ghost).Code, "token of a deleted user")
}

func TestOptionalAuth(t *testing.T) {
	setupDB(t)
	_, tok := seedUser(t, "ada@example.com")

	r := gin.New()
	r.GET("/who", OptionalAuth(), func(c *gin.Context) {
		if cur, ok := CurrentUser(c); ok {
			c.String(http.StatusOK, cur.Email)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	assert.Equal(t, "ada@example.com", serve(r, http.MethodGet, "/who", tok).Body.String())
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/who", "").Body.String())
	assert.Equal(t, "anonymous", serve(r, http.MethodGet, "/who", "garbage").Body.String())
}

func TestCheckFormOwner(t *testing.T) {
	setupDB(t)
	owner, ownerTok := seedUser(t, "ada@example.com")
	_, otherTok := seedUser(t, "bob@example.com")
	form := models.Form{Title: "Survey", OwnerID: owner.ID}
	require.NoError(t, config.DB.Create(&form).Error)

	r := gin.New()
	r.PATCH("/forms/:id", AuthJWT(), CheckFormOwner(), func(c *gin.Context) {
		f := c.MustGet(CtxForm).(models.Form)
		c.String(http.StatusOK, f.Title)
	})

	w := serve(r, http.MethodPatch, "/forms/"+form.ID, ownerTok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Survey", w.Body.String())
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodPatch, "/forms/"+form.ID, otherTok).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPatch, "/forms/"+uuid.NewString(), ownerTok).Code)
}

func TestLoadQuestionScopedToForm(t *testing.T) {
	setupDB(t)
	owner, _ := seedUser(t, "ada@example.com")
	a := models.Form{Title: "A", OwnerID: owner.ID}
	b := models.Form{Title: "B", OwnerID: owner.ID}
	require.NoError(t, config.DB.Create(&a).Error)
	require.NoError(t, config.DB.Create(&b).Error)
	q := models.Question{FormID: a.ID, Text: "Name", Type: models.QuestionShortText}
	require.NoError(t, config.DB.Create(&q).Error)

	r := gin.New()
	r.GET("/forms/:id/questions/:qid", LoadForm(), LoadQuestion(), func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet(CtxQuestion).(models.Question).Text)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/forms/"+a.ID+"/questions/"+q.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/forms/"+b.ID+"/questions/"+q.ID, "").Code)
}
