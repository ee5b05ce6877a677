package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnkhanh/forms-app/config"
	"github.com/vnkhanh/forms-app/middleware"
	"github.com/vnkhanh/forms-app/models"
	"github.com/vnkhanh/forms-app/utils"
)

func setupRouter(t *testing.T) *gin.Engine {
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

	utils.PasswordCost = bcrypt.MinCost
	limiter := middleware.NewIPRateLimiter(6000, 1000, time.Minute)
	t.Cleanup(limiter.Stop)
	middleware.FormsCreateLimiter = limiter
	r := gin.New()
	SetupRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, gjson.Result) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, gjson.ParseBytes(w.Body.Bytes())
}

// signup registers a user and returns its token and id.
func signup(t *testing.T, r http.Handler, name, email string) (string, string) {
	t.Helper()
	w, res := do(t, r, http.MethodPost, "/users", "", map[string]string{
		"name": name, "email": email, "password": "Secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return res.Get("token").String(), res.Get("user.id").String()
}

func createForm(t *testing.T, r http.Handler, token, title string) string {
	t.Helper()
	w, res := do(t, r, http.MethodPost, "/forms", token, map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return res.Get("id").String()
}

func addQuestion(t *testing.T, r http.Handler, token, formID string, q map[string]any) string {
	t.Helper()
	w, res := do(t, r, http.MethodPost, "/forms/"+formID+"/questions", token, q)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return res.Get("id").String()
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRouter(t)
	token, id := signup(t, r, "Ada", "Ada@Example.com")
	assert.NotEmpty(t, token)

	w, res := do(t, r, http.MethodPost, "/sessions", "", map[string]string{"email": "ada@example.com", "password": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, res.Get("token").String())
	assert.Equal(t, id, res.Get("userId").String())
	assert.Equal(t, "ada@example.com", res.Get("user.email").String())
	assert.False(t, res.Get("user.passwordHash").Exists())
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := setupRouter(t)
	signup(t, r, "Ada", "ada@example.com")

	w, res := do(t, r, http.MethodPost, "/sessions", "", map[string]string{"email": "ada@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.CodeInvalidCredentials, res.Get("code").String())
	assert.Contains(t, res.Get("message").String(), models.InvalidCredentialsMarker)
}

func TestLoginValidation(t *testing.T) {
	r := setupRouter(t)
	w, res := do(t, r, http.MethodPost, "/sessions", "", map[string]string{"email": "not-an-email", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", res.Get("field").String())
}

func TestRegisterConflictAndValidation(t *testing.T) {
	r := setupRouter(t)
	signup(t, r, "Ada", "ada@example.com")

	w, res := do(t, r, http.MethodPost, "/users", "", map[string]string{"name": "Other", "email": "ada@example.com", "password": "Secret123"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email", res.Get("field").String())

	w, res = do(t, r, http.MethodPost, "/users", "", map[string]string{"name": "Bob", "email": "bob@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password", res.Get("field").String())
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r := setupRouter(t)
	w, _ := do(t, r, http.MethodPost, "/forms", "", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodGet, "/users", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFormOwnership(t *testing.T) {
	r := setupRouter(t)
	owner, ownerID := signup(t, r, "Ada", "ada@example.com")
	other, _ := signup(t, r, "Bob", "bob@example.com")
	formID := createForm(t, r, owner, "Survey")

	w, res := do(t, r, http.MethodGet, "/forms/"+formID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ownerID, res.Get("userId").String())

	w, _ = do(t, r, http.MethodPatch, "/forms/"+formID, other, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, res = do(t, r, http.MethodPatch, "/forms/"+formID, owner, map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Renamed", res.Get("title").String())

	w, _ = do(t, r, http.MethodPatch, "/forms/"+formID, owner, map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, res = do(t, r, http.MethodGet, "/forms", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, res.Array(), 1)

	w, _ = do(t, r, http.MethodGet, "/forms/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateFormIgnoresBodyOwner(t *testing.T) {
	r := setupRouter(t)
	token, id := signup(t, r, "Ada", "ada@example.com")
	w, res := do(t, r, http.MethodPost, "/forms", token, map[string]string{"title": "Mine", "userId": "someone-else"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, id, res.Get("userId").String())
}

func TestQuestions(t *testing.T) {
	r := setupRouter(t)
	token, _ := signup(t, r, "Ada", "ada@example.com")
	formID := createForm(t, r, token, "Survey")

	w, res := do(t, r, http.MethodPost, "/forms/"+formID+"/questions", token, map[string]any{"text": "Pick", "type": "dropdown"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "options", res.Get("field").String())

	w, res = do(t, r, http.MethodPost, "/forms/"+formID+"/questions", token, map[string]any{"text": "Pick", "type": "rating"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type", res.Get("field").String())

	q1 := addQuestion(t, r, token, formID, map[string]any{"text": "Name", "type": "shorttext", "options": []string{"stale"}})
	q2 := addQuestion(t, r, token, formID, map[string]any{"text": "Size", "type": "dropdown", "options": []string{"S", "M"}})
	q3 := addQuestion(t, r, token, formID, map[string]any{"text": "Bio", "type": "paragraph"})

	w, res = do(t, r, http.MethodGet, "/forms/"+formID+"/questions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{q1, q2, q3}, idsOf(res))
	assert.Equal(t, []int64{0, 1, 2}, intsOf(res, "position"))
	assert.False(t, res.Get("0.options").Exists(), "text questions carry no options")

	w, res = do(t, r, http.MethodPatch, "/forms/"+formID+"/questions/"+q2, token, map[string]any{"options": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "options", res.Get("field").String())

	w, res = do(t, r, http.MethodPatch, "/forms/"+formID+"/questions/"+q2, token, map[string]any{"text": "Shirt size", "required": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shirt size", res.Get("text").String())
	assert.True(t, res.Get("required").Bool())
	assert.Equal(t, "M", res.Get("options.1").String())

	w, _ = do(t, r, http.MethodDelete, "/forms/"+formID+"/questions/"+q1, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, res = do(t, r, http.MethodGet, "/forms/"+formID+"/questions", "", nil)
	assert.Equal(t, []string{q2, q3}, idsOf(res))
	assert.Equal(t, []int64{0, 1}, intsOf(res, "position"))

	w, _ = do(t, r, http.MethodGet, "/forms/"+formID+"/questions/"+q1, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResponses(t *testing.T) {
	r := setupRouter(t)
	owner, _ := signup(t, r, "Ada", "ada@example.com")
	other, _ := signup(t, r, "Bob", "bob@example.com")
	formID := createForm(t, r, owner, "Survey")
	name := addQuestion(t, r, owner, formID, map[string]any{"text": "Name", "type": "shorttext", "required": true})
	tops := addQuestion(t, r, owner, formID, map[string]any{"text": "Toppings", "type": "checkbox", "required": true, "options": []string{"A", "B", "C"}})

	w, res := do(t, r, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{
		"answers": []map[string]any{{"questionId": name, "answer": ""}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, res.Get("errors."+name).Exists())
	assert.True(t, res.Get("errors."+tops).Exists())

	w, res = do(t, r, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{
		"answers": []map[string]any{{"questionId": "ghost", "answer": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, res.Get("errors.ghost").Exists())

	w, _ = do(t, r, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{
		"answers": []map[string]any{
			{"questionId": name, "answer": "Anon"},
			{"questionId": tops, "answer": "Z", "selections": []string{"Z"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown option")

	w, res = do(t, r, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{
		"answers": []map[string]any{
			{"questionId": tops, "answer": "A, C", "selections": []string{"A", "C"}},
			{"questionId": name, "answer": "Anon"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, name, res.Get("answers.0.questionId").String(), "answers stored in question order")
	assert.Equal(t, "A, C", res.Get("answers.1.answer").String())
	assert.False(t, res.Get("respondentName").Exists())

	w, res = do(t, r, http.MethodPost, "/forms/"+formID+"/responses", other, map[string]any{
		"answers": []map[string]any{
			{"questionId": name, "answer": "Bob"},
			{"questionId": tops, "answer": "B"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Bob", res.Get("respondentName").String())
	respID := res.Get("id").String()

	w, _ = do(t, r, http.MethodGet, "/forms/"+formID+"/responses", other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, res = do(t, r, http.MethodGet, "/forms/"+formID+"/responses", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, res.Array(), 2)

	w, res = do(t, r, http.MethodPatch, "/forms/"+formID+"/responses/"+respID, owner, map[string]any{
		"answers": []map[string]any{
			{"questionId": name, "answer": "Robert"},
			{"questionId": tops, "selections": []string{"A", "B"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "A, B", res.Get("answers.1.answer").String())

	w, _ = do(t, r, http.MethodDelete, "/forms/"+formID+"/responses/"+respID, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/forms/"+formID+"/responses/"+respID, owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResponseOptionMembership(t *testing.T) {
	r := setupRouter(t)
	owner, _ := signup(t, r, "Ada", "ada@example.com")
	formID := createForm(t, r, owner, "Sizes")
	size := addQuestion(t, r, owner, formID, map[string]any{"text": "Size", "type": "dropdown", "required": true, "options": []string{"A", "B"}})
	extras := addQuestion(t, r, owner, formID, map[string]any{"text": "Extras", "type": "checkbox", "options": []string{"X", "Y"}})

	submit := func(answers ...map[string]any) (int, gjson.Result) {
		w, res := do(t, r, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{"answers": answers})
		return w.Code, res
	}

	code, res := submit(map[string]any{"questionId": size, "answer": "C"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, res.Get("errors."+size).Exists())

	code, res = submit(map[string]any{"questionId": size, "answer": "NOT-AN-OPTION", "selections": []string{"A"}})
	assert.Equal(t, http.StatusBadRequest, code, "selections cannot vouch for a different answer")
	assert.True(t, res.Get("errors."+size).Exists())

	code, res = submit(
		map[string]any{"questionId": size, "answer": "A"},
		map[string]any{"questionId": extras, "answer": "X, Z", "selections": []string{"X", "Z"}},
	)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, res.Get("errors."+extras).String(), "Z")

	code, res = submit(
		map[string]any{"questionId": size, "answer": "B", "selections": []string{"B"}},
		map[string]any{"questionId": extras, "selections": []string{"Y"}},
	)
	require.Equal(t, http.StatusCreated, code, res.Raw)
	assert.Equal(t, "B", res.Get("answers.0.answer").String())
	assert.Equal(t, "Y", res.Get("answers.1.answer").String())
}

func TestDeleteFormCascades(t *testing.T) {
	r := setupRouter(t)
	token, _ := signup(t, r, "Ada", "ada@example.com")
	formID := createForm(t, r, token, "Survey")
	q := addQuestion(t, r, token, formID, map[string]any{"text": "Name", "type": "shorttext"})
	w, _ := do(t, r, http.MethodPost, "/forms/"+formID+"/responses", "", map[string]any{
		"answers": []map[string]any{{"questionId": q, "answer": "x"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/forms/"+formID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var questions, responses int64
	config.DB.Model(&models.Question{}).Where("form_id = ?", formID).Count(&questions)
	config.DB.Model(&models.Response{}).Where("form_id = ?", formID).Count(&responses)
	assert.Zero(t, questions)
	assert.Zero(t, responses)
}

func TestUsers(t *testing.T) {
	r := setupRouter(t)
	token, id := signup(t, r, "Ada", "ada@example.com")
	other, _ := signup(t, r, "Bob", "bob@example.com")

	w, res := do(t, r, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, res.Get("id").String())

	w, _ = do(t, r, http.MethodPatch, "/users/"+id, other, map[string]string{"name": "Hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodPatch, "/users/me", token, map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, res = do(t, r, http.MethodPatch, "/users/me", token, map[string]string{"password": "NewSecret1", "currentPassword": "wrong"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "currentPassword", res.Get("field").String())

	w, _ = do(t, r, http.MethodPatch, "/users/me", token, map[string]string{"password": "NewSecret1", "currentPassword": "Secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodPost, "/sessions", "", map[string]string{"email": "ada@example.com", "password": "NewSecret1"})
	assert.Equal(t, http.StatusOK, w.Code)

	formID := createForm(t, r, token, "Doomed")
	w, _ = do(t, r, http.MethodDelete, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/forms/"+formID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)
	w, res := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", res.Get("status").String())
	assert.Equal(t, "ok", res.Get("db").String())
	assert.True(t, res.Get("latencyMs").Exists())
}

func idsOf(res gjson.Result) []string {
	var out []string
	for _, v := range res.Array() {
		out = append(out, v.Get("id").String())
	}
	return out
}

func intsOf(res gjson.Result, key string) []int64 {
	var out []int64
	for _, v := range res.Array() {
		out = append(out, v.Get(key).Int())
	}
	return out
}
