package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/technews/backend/internal/config"
	"github.com/emilythestrangee/technews/backend/internal/database"
	"github.com/emilythestrangee/technews/backend/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		Port:          3001,
		DBDriver:      config.DriverSQLite,
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
		SessionCookie: "technews_sid",
		CORSOrigins:   []string{"*"},
	}
	log := testutil.Logger()
	s := New(cfg, database.Wrap(db, cfg.DBDriver, log), log)
	return &client{t: t, router: s.RegisterRoutes()}
}

// do sends a request carrying the client's cookie and keeps any cookie the
// response sets.
func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "technews_sid" {
			if ck.MaxAge < 0 {
				c.cookie = nil
			} else {
				c.cookie = ck
			}
		}
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func register(c *client, name string) map[string]any {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/users", gin.H{
		"username": name,
		"email":    name + "@example.com",
		"password": "secret1",
	})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](c.t, rec)
}

func TestHealth(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]string](t, rec)
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, config.DriverSQLite, stats["driver"])
}

func TestRegisterLoginPostUpvote(t *testing.T) {
	c := newClient(t)

	alice := register(c, "alice")
	assert.NotEqual(t, "secret1", alice["password"])
	require.NotNil(t, c.cookie, "registering starts a session")

	c.cookie = nil
	rec := c.do(http.MethodPost, "/api/users/login", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[map[string]any](t, rec)
	assert.Equal(t, "You are now logged in!", login["message"])
	require.NotNil(t, c.cookie)

	rec = c.do(http.MethodPost, "/api/posts", gin.H{"title": "Go 1.25", "post_url": "https://go.dev/blog"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	post := decode[map[string]any](t, rec)
	assert.Equal(t, alice["id"], post["user_id"])

	rec = c.do(http.MethodPut, "/api/posts/upvote", gin.H{"post_id": post["id"]})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["vote_count"])

	rec = c.do(http.MethodPut, "/api/posts/upvote", gin.H{"post_id": post["id"]})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, rec)["vote_count"])

	rec = c.do(http.MethodGet, fmt.Sprintf("/api/posts/%v", post["id"]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, got["vote_count"])
	assert.Equal(t, map[string]any{"username": "alice"}, got["user"])

	rec = c.do(http.MethodGet, fmt.Sprintf("/api/users/%v", alice["id"]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[map[string]any](t, rec)
	assert.NotContains(t, profile, "password")
	assert.Len(t, profile["posts"], 1)
	assert.Len(t, profile["voted_posts"], 1)
}

func TestLoginFailures(t *testing.T) {
	c := newClient(t)
	register(c, "alice")
	c.cookie = nil

	rec := c.do(http.MethodPost, "/api/users/login", gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect password!")
	assert.Empty(t, rec.Result().Cookies())

	rec = c.do(http.MethodPost, "/api/users/login", gin.H{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No user with that email address!")

	rec = c.do(http.MethodPost, "/api/users/login", gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterErrors(t *testing.T) {
	c := newClient(t)
	register(c, "alice")

	rec := c.do(http.MethodPost, "/api/users", gin.H{"username": "bob", "email": "not-an-email", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")

	rec = c.do(http.MethodPost, "/api/users", gin.H{"username": "bob", "email": "bob@example.com", "password": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/users", gin.H{"username": "alice2", "email": "alice@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/api/users", gin.H{"username": "bob", "email": "bob@example.com", "password": strings.Repeat("x", 80)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be at most 72 bytes")
}

func TestGuardedRoutesRequireSession(t *testing.T) {
	c := newClient(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodPut, "/api/posts/upvote"},
		{http.MethodPut, "/api/posts/1"},
		{http.MethodDelete, "/api/posts/1"},
		{http.MethodPost, "/api/comments"},
		{http.MethodDelete, "/api/comments/1"},
	} {
		rec := c.do(tc.method, tc.path, gin.H{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestMissingResources(t *testing.T) {
	c := newClient(t)
	register(c, "alice")

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/users/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/users/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/posts/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/posts/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/comments/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPut, "/api/posts/upvote", gin.H{"post_id": 999}).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/posts/abc", nil).Code)
}

func TestCommentsAndDependents(t *testing.T) {
	c := newClient(t)
	alice := register(c, "alice")

	rec := c.do(http.MethodPost, "/api/posts", gin.H{"title": "Go", "post_url": "https://go.dev"})
	require.Equal(t, http.StatusOK, rec.Code)
	post := decode[map[string]any](t, rec)

	rec = c.do(http.MethodPost, "/api/comments", gin.H{"comment_text": "nice", "post_id": post["id"]})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	comment := decode[map[string]any](t, rec)

	rec = c.do(http.MethodGet, "/api/comments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, fmt.Sprintf("/api/users/%v", alice["id"]), nil).Code)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, fmt.Sprintf("/api/posts/%v", post["id"]), nil).Code)

	rec = c.do(http.MethodDelete, fmt.Sprintf("/api/comments/%v", comment["id"]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":1}`, rec.Body.String())

	rec = c.do(http.MethodDelete, fmt.Sprintf("/api/posts/%v", post["id"]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":1}`, rec.Body.String())
}

func TestUpdateRoutes(t *testing.T) {
	c := newClient(t)
	alice := register(c, "alice")

	rec := c.do(http.MethodPut, fmt.Sprintf("/api/users/%v", alice["id"]), gin.H{"username": "alicia"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())

	rec = c.do(http.MethodPut, "/api/users/999", gin.H{"username": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPut, fmt.Sprintf("/api/users/%v", alice["id"]), gin.H{"password": strings.Repeat("x", 80)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Failed to update user", body["message"])
	assert.Equal(t, map[string]any{"password": "must be at most 72 bytes"}, body["fields"])

	bob := register(c, "bob")
	rec = c.do(http.MethodPut, fmt.Sprintf("/api/users/%v", bob["id"]), gin.H{"email": "alice@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Failed to update user", decode[map[string]any](t, rec)["message"])

	rec = c.do(http.MethodPost, "/api/posts", gin.H{"title": "Go", "post_url": "https://go.dev"})
	require.Equal(t, http.StatusOK, rec.Code)
	post := decode[map[string]any](t, rec)

	rec = c.do(http.MethodPut, fmt.Sprintf("/api/posts/%v", post["id"]), gin.H{"title": "Go!"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())

	rec = c.do(http.MethodPut, fmt.Sprintf("/api/posts/%v", post["id"]), gin.H{"post_url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPut, fmt.Sprintf("/api/posts/%v", post["id"]), gin.H{"post_url": "javascript:alert(1)"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePostRejectsNonHTTPLinks(t *testing.T) {
	c := newClient(t)
	register(c, "alice")

	rec := c.do(http.MethodPost, "/api/posts", gin.H{"title": "xss", "post_url": "javascript:alert(1)"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be an http or https URL")

	rec = c.do(http.MethodGet, "/api/posts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestReloginRevokesPreviousSession(t *testing.T) {
	c := newClient(t)
	register(c, "alice")
	first := c.cookie
	require.NotNil(t, first)

	rec := c.do(http.MethodPost, "/api/users/login", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, c.cookie)
	assert.NotEqual(t, first.Value, c.cookie.Value)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/users/logout", nil).Code)

	c.cookie = first
	rec = c.do(http.MethodPost, "/api/posts", gin.H{"title": "Go", "post_url": "https://go.dev"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	c := newClient(t)
	register(c, "alice")

	rec := c.do(http.MethodPost, "/api/users/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, c.cookie)

	rec = c.do(http.MethodPost, "/api/users/logout", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/api/posts", gin.H{"title": "Go", "post_url": "https://go.dev"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestViews(t *testing.T) {
	c := newClient(t)

	rec := c.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	register(c, "alice")
	rec = c.do(http.MethodPost, "/api/posts", gin.H{"title": "Hello Gophers", "post_url": "https://www.go.dev/blog"})
	require.Equal(t, http.StatusOK, rec.Code)
	post := decode[map[string]any](t, rec)

	rec = c.do(http.MethodGet, "/login", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello Gophers")
	assert.Contains(t, rec.Body.String(), "(go.dev)")

	rec = c.do(http.MethodGet, fmt.Sprintf("/post/%v", post["id"]), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "upvote-btn")

	rec = c.do(http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello Gophers")

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/post/999", nil).Code)
}
