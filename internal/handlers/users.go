package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/technews/backend/internal/models"
	"github.com/emilythestrangee/technews/backend/internal/session"
	"github.com/emilythestrangee/technews/backend/internal/store"
)

type UserHandler struct {
	users    *store.UserStore
	sessions *session.Manager
	log      *slog.Logger
}

func NewUserHandler(users *store.UserStore, sessions *session.Manager, log *slog.Logger) *UserHandler {
	return &UserHandler{users: users, sessions: sessions, log: log}
}

// GetUsers lists every user without password hashes
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.users.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to fetch users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a user's profile with their posts, comments and votes
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	profile, err := h.users.Profile(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// CreateUser registers a user and logs them in
func (h *UserHandler) CreateUser(c *gin.Context) {
	var input models.NewUser
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.users.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.log, "Failed to create user", err)
		return
	}

	if _, err := h.sessions.Start(c.Writer, c.Request, user.ID); err != nil {
		respondError(c, h.log, "Failed to start session", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser applies a partial profile edit
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input models.UserUpdate
	if !bindJSON(c, &input) {
		return
	}

	n, err := h.users.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, h.log, "Failed to update user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	n, err := h.users.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Failed to delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
