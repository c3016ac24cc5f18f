package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/middleware"
	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/services"
	"github.com/v3blogs/api-go/testutil"
	"github.com/v3blogs/api-go/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type resetMailer struct {
	token string
}

func (m *resetMailer) SendPasswordReset(_ context.Context, _ *models.User, token string) error {
	m.token = token
	return nil
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	mailer   *resetMailer
	profiles *services.ProfileService
	secret   []byte
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := testutil.Config()
	cfg.PostsPerPage = 2
	db := testutil.NewDB(t)
	logs := &bytes.Buffer{}
	log := logger.NewWithWriter("test", "info", logs)
	m := &resetMailer{}

	auth := services.NewAuthService(db, cfg, m)
	graph := services.NewGraphService(db)
	feed := services.NewFeedService(db)
	profiles := services.NewProfileService(db, nil)

	ac := NewAuthController(auth, profiles, cfg, log)
	uc := NewUserController(profiles, graph, feed, log, cfg.PostsPerPage)
	ic := NewInteractionController(graph, profiles, log, cfg.PostsPerPage)
	fc := NewFeedController(feed, profiles, log, cfg.PostsPerPage)
	pc := NewPostController(feed, profiles, log)
	upc := NewUploadController(profiles, log)
	vc := NewValidationController(auth, log)

	r := gin.New()
	r.POST("/register", ac.Register)
	r.POST("/login", ac.Login)
	r.POST("/reset-password-request", ac.ResetPasswordRequest)
	r.POST("/reset-password/:token", ac.ResetPassword)
	r.GET("/validation/username/:username", vc.ValidateUsername)

	p := r.Group("", middleware.AuthMiddleware([]byte(cfg.SecretKey), profiles, log))
	p.GET("/feed", fc.GetUserFeed)
	p.GET("/explore", fc.Explore)
	p.POST("/posts", pc.CreatePost)
	p.GET("/profile", uc.GetProfile)
	p.PUT("/profile", uc.UpdateProfile)
	p.PUT("/profile/avatar", upc.UploadAvatar)
	p.DELETE("/profile", uc.DeleteAccount)
	p.GET("/users/:username", uc.GetUserProfile)
	p.POST("/users/:username/follow", ic.FollowUser)
	p.POST("/users/:username/unfollow", ic.UnfollowUser)
	p.GET("/users/:username/followers", ic.GetUserFollowers)

	return &testEnv{db: db, router: r, mailer: m, profiles: profiles, secret: []byte(cfg.SecretKey), logs: logs}
}

func (e *testEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	tok, err := utils.GenerateAccessToken(user.ID, e.secret, time.Hour, time.Now())
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
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
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/register", "", gin.H{
		"username": "susan", "email": "susan@example.com",
		"password": "cat", "confirmPassword": "cat",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	w, _ = env.do(t, http.MethodPost, "/register", "", gin.H{
		"username": "susan", "email": "other@example.com",
		"password": "cat", "confirmPassword": "cat",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = env.do(t, http.MethodPost, "/register", "", gin.H{
		"username": "john", "email": "john@example.com",
		"password": "cat", "confirmPassword": "dog",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = env.do(t, http.MethodPost, "/login", "", gin.H{"username": "susan", "password": "cat"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer", body["token_type"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	w, body = env.do(t, http.MethodGet, "/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "susan", data["username"])
	assert.Equal(t, "susan@example.com", data["email"])

	w, body = env.do(t, http.MethodPost, "/login", "", gin.H{"username": "susan", "password": "dog"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", body["error"])

	w, body = env.do(t, http.MethodGet, "/validation/username/susan", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["exists"])
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/register", "", gin.H{
		"username": "susan", "email": "susan@example.com",
		"password": "cat", "confirmPassword": "cat",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = env.do(t, http.MethodPost, "/reset-password-request", "", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(t, http.MethodPost, "/reset-password-request", "", gin.H{"email": "susan@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, env.mailer.token)

	reset := gin.H{"password": "dog", "confirmPassword": "dog"}
	w, _ = env.do(t, http.MethodPost, "/reset-password/"+env.mailer.token, "", reset)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = env.do(t, http.MethodPost, "/reset-password/"+env.mailer.token, "", reset)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPost, "/login", "", gin.H{"username": "susan", "password": "dog"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFollowAndFeed(t *testing.T) {
	env := newTestEnv(t)
	john := testutil.CreateUser(t, env.db, "john")
	susan := testutil.CreateUser(t, env.db, "susan")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"s1", "s2", "s3"} {
		testutil.CreatePost(t, env.db, susan, body, base.Add(time.Duration(i)*time.Minute))
	}
	tok := env.token(t, john)

	w, body := env.do(t, http.MethodGet, "/feed", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])

	w, body = env.do(t, http.MethodPost, "/users/susan/follow", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["following"])

	w, _ = env.do(t, http.MethodPost, "/users/john/follow", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = env.do(t, http.MethodPost, "/users/john/unfollow", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = env.do(t, http.MethodPost, "/users/ghost/follow", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = env.do(t, http.MethodGet, "/feed", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := body["data"].([]interface{})
	require.Len(t, posts, 2)
	assert.Equal(t, "s3", posts[0].(map[string]interface{})["body"])
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, true, pagination["hasNext"])
	assert.Equal(t, float64(3), pagination["totalItems"])

	w, body = env.do(t, http.MethodGet, "/feed?page=2", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].([]interface{}), 1)

	w, body = env.do(t, http.MethodGet, "/users/susan", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, true, profile["isFollowing"])
	assert.Equal(t, float64(1), profile["followersCount"])
	assert.NotContains(t, profile, "email")

	w, body = env.do(t, http.MethodGet, "/users/susan/followers", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	followers := body["data"].([]interface{})
	require.Len(t, followers, 1)
	assert.Equal(t, "john", followers[0].(map[string]interface{})["username"])

	w, _ = env.do(t, http.MethodPost, "/users/susan/unfollow", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, body = env.do(t, http.MethodGet, "/feed", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])
}

func TestCreatePostAndExplore(t *testing.T) {
	env := newTestEnv(t)
	john := testutil.CreateUser(t, env.db, "john")
	tok := env.token(t, john)

	w, body := env.do(t, http.MethodPost, "/posts", tok, gin.H{"body": "hello"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := body["data"].(map[string]interface{})
	assert.Equal(t, "hello", post["body"])
	assert.Equal(t, "john", post["author"].(map[string]interface{})["username"])

	long := bytes.Repeat([]byte("x"), 141)
	w, _ = env.do(t, http.MethodPost, "/posts", tok, gin.H{"body": string(long)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = env.do(t, http.MethodGet, "/explore", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"].([]interface{}), 1)
}

func TestUpdateAndDeleteProfile(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "taken")
	john := testutil.CreateUser(t, env.db, "john")
	tok := env.token(t, john)

	w, body := env.do(t, http.MethodPut, "/profile", tok, gin.H{"aboutMe": "hi there"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hi there", body["data"].(map[string]interface{})["aboutMe"])

	w, body = env.do(t, http.MethodPut, "/profile", tok, gin.H{"username": "taken", "aboutMe": ""})
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "john", data["username"])
	assert.Nil(t, data["aboutMe"])

	w, _ = env.do(t, http.MethodDelete, "/profile", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/profile", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadAvatar_StorageDisabled(t *testing.T) {
	env := newTestEnv(t)
	john := testutil.CreateUser(t, env.db, "john")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.token(t, john))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRespondError_HidesUnexpectedErrors(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewWithWriter("test", "info", &logs)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/feed", nil)

	respondError(c, log, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, logs.String(), "connection refused")
}
