package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/technews/backend/internal/middleware"
	"github.com/emilythestrangee/technews/backend/internal/store"
)

// PageHandler renders the server-side HTML views.
type PageHandler struct {
	posts *store.PostStore
	log   *slog.Logger
}

func NewPageHandler(posts *store.PostStore, log *slog.Logger) *PageHandler {
	return &PageHandler{posts: posts, log: log}
}

func loggedIn(c *gin.Context) bool {
	_, ok := middleware.UserID(c)
	return ok
}

func (h *PageHandler) renderError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	} else {
		h.log.ErrorContext(c.Request.Context(), msg, "error", err, "path", c.Request.URL.Path)
	}
	c.String(status, http.StatusText(status))
}

func (h *PageHandler) Home(c *gin.Context) {
	posts, err := h.posts.FindAllWithVotesAndAuthor(c.Request.Context(), store.PostFilter{})
	if err != nil {
		h.renderError(c, "render homepage", err)
		return
	}
	c.HTML(http.StatusOK, "homepage", gin.H{
		"posts":    posts,
		"loggedIn": loggedIn(c),
	})
}

// Login shows the login form, or sends logged in users home.
func (h *PageHandler) Login(c *gin.Context) {
	if loggedIn(c) {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login", gin.H{"title": "Login"})
}

func (h *PageHandler) SinglePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}

	post, err := h.posts.FindOneWithVotesAndAuthor(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, "render post", err)
		return
	}
	c.HTML(http.StatusOK, "single-post", gin.H{
		"post":     post,
		"title":    post.Title,
		"loggedIn": loggedIn(c),
	})
}

// Dashboard lists the session user's own posts.
func (h *PageHandler) Dashboard(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	posts, err := h.posts.FindAllWithVotesAndAuthor(c.Request.Context(), store.PostFilter{UserID: &userID})
	if err != nil {
		h.renderError(c, "render dashboard", err)
		return
	}
	c.HTML(http.StatusOK, "dashboard", gin.H{
		"posts":    posts,
		"title":    "Dashboard",
		"loggedIn": true,
	})
}
