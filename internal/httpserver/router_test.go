package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nmoreau/daylist/internal/handlers"
	"github.com/nmoreau/daylist/internal/hash"
	"github.com/nmoreau/daylist/internal/middleware"
	"github.com/nmoreau/daylist/internal/models"
	"github.com/nmoreau/daylist/internal/repo"
	"github.com/nmoreau/daylist/internal/service"
	"github.com/nmoreau/daylist/internal/token"
)

type testEnv struct {
	T *testing.T
	E *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}, &models.Note{}))

	r := repo.New(db)
	signer := token.NewJWTSigner([]byte("test-secret"), time.Hour)
	hasher := hash.Bcrypt{Cost: 4}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:   &handlers.AuthHandler{Svc: &service.AuthService{Repo: r, Hasher: hasher, Signer: signer}},
		TaskHandler:   &handlers.TaskHandler{Repo: r},
		NoteHandler:   &handlers.NoteHandler{Repo: r},
		SearchHandler: &handlers.SearchHandler{},
		AuthMW:        middleware.NewAuth(signer, r),
	})

	return &testEnv{T: t, E: e}
}

func (env *testEnv) do(method, path, tok string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec, decoded
}

func (env *testEnv) register(username, email, password string) (token, userID string) {
	env.T.Helper()

	rec, body := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code)
	require.NotEmpty(env.T, body["token"])

	user := body["user"].(map[string]interface{})
	return body["token"].(string), user["id"].(string)
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	_, aliceID := env.register("alice", "a@x.com", "secret1")

	rec, body := env.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	loginTok := body["token"].(string)
	user := body["user"].(map[string]interface{})
	require.Equal(t, aliceID, user["id"])
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "light", user["theme"])
	require.NotContains(t, user, "password_hash")

	rec, body = env.do(http.MethodGet, "/auth/me", loginTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := body["user"].(map[string]interface{})
	require.Equal(t, aliceID, me["id"])
}

func TestRegisterValidationAndConflict(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env.register("alice", "a@x.com", "secret1")

	rec, _ = env.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "other@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "a@x.com", "secret1")

	rec, _ := env.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/auth/me", "/tasks", "/notes"} {
		rec, _ := env.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestTaskFlowAndOwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)

	aliceTok, aliceID := env.register("alice", "a@x.com", "secret1")
	bobTok, _ := env.register("bob", "b@x.com", "secret2")

	rec, body := env.do(http.MethodPost, "/tasks", aliceTok, map[string]interface{}{
		"title": "buy milk",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "buy milk", body["title"])
	require.Equal(t, aliceID, body["user_id"])
	require.Equal(t, false, body["completed"])
	taskID := body["id"].(string)

	rec, _ = env.do(http.MethodGet, "/tasks", aliceTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var aliceTasks []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aliceTasks))
	require.Len(t, aliceTasks, 1)

	// Bob sees an empty list, and alice's task id behaves for him as if it
	// did not exist.
	rec, _ = env.do(http.MethodGet, "/tasks", bobTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bobTasks []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bobTasks))
	require.Empty(t, bobTasks)

	rec, _ = env.do(http.MethodPut, "/tasks/"+taskID, bobTok, map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.do(http.MethodDelete, "/tasks/"+taskID, bobTok, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Partial update by the owner keeps the title.
	rec, body = env.do(http.MethodPut, "/tasks/"+taskID, aliceTok, map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["completed"])
	require.Equal(t, "buy milk", body["title"])

	rec, _ = env.do(http.MethodDelete, "/tasks/"+taskID, aliceTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(http.MethodDelete, "/tasks/"+taskID, aliceTok, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.register("alice", "a@x.com", "secret1")

	rec, _ := env.do(http.MethodPost, "/tasks", tok, map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(http.MethodPut, "/tasks/not-a-uuid", tok, map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNoteFlow(t *testing.T) {
	env := newTestEnv(t)
	tok, userID := env.register("alice", "a@x.com", "secret1")

	rec, body := env.do(http.MethodPost, "/notes", tok, map[string]interface{}{
		"title":   "groceries",
		"content": "milk",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, userID, body["user_id"])
	noteID := body["id"].(string)

	rec, body = env.do(http.MethodPut, "/notes/"+noteID, tok, map[string]interface{}{
		"content": "milk, eggs",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "groceries", body["title"])
	require.Equal(t, "milk, eggs", body["content"])

	rec, _ = env.do(http.MethodDelete, "/notes/"+noteID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchUnconfigured(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.register("alice", "a@x.com", "secret1")

	rec, _ := env.do(http.MethodGet, "/search?q=milk", tok, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
