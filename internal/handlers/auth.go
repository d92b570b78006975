package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/technews/backend/internal/models"
	"github.com/emilythestrangee/technews/backend/internal/session"
	"github.com/emilythestrangee/technews/backend/internal/store"
)

type AuthHandler struct {
	users    *store.UserStore
	sessions *session.Manager
	log      *slog.Logger
}

func NewAuthHandler(users *store.UserStore, sessions *session.Manager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, log: log}
}

// Login checks the credentials and starts a session
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No user with that email address!"})
		return
	}
	if err != nil {
		respondError(c, h.log, "Failed to log in", err)
		return
	}

	if !user.CheckPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Incorrect password!"})
		return
	}

	if _, err := h.sessions.Start(c.Writer, c.Request, user.ID); err != nil {
		respondError(c, h.log, "Failed to start session", err)
		return
	}

	h.log.InfoContext(c.Request.Context(), "user logged in", "user_id", user.ID)
	user.Password = ""
	c.JSON(http.StatusOK, models.LoginResponse{User: *user, Message: "You are now logged in!"})
}

// Logout destroys the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.sessions.End(c.Writer, c.Request)
	if errors.Is(err, session.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(c, h.log, "Failed to log out", err)
		return
	}
	c.Status(http.StatusNoContent)
}
