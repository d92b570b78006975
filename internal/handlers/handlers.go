package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/technews/backend/internal/session"
	"github.com/emilythestrangee/technews/backend/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Post    *PostHandler
	Comment *CommentHandler
	Page    *PageHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, sessions *session.Manager, log *slog.Logger) *Handler {
	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	comments := store.NewCommentStore(db)

	return &Handler{
		Auth:    NewAuthHandler(users, sessions, log),
		User:    NewUserHandler(users, sessions, log),
		Post:    NewPostHandler(posts, log),
		Comment: NewCommentHandler(comments, log),
		Page:    NewPageHandler(posts, log),
	}
}

// respondError logs err and maps it to a status code and JSON body.
func respondError(c *gin.Context, log *slog.Logger, msg string, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"message": msg, "error": err.Error()}

	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body["fields"] = verr.Fields
	case errors.Is(err, store.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, store.ErrHasDependents):
		status = http.StatusConflict
	}

	if status >= http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), msg, "error", err, "path", c.Request.URL.Path)
	} else {
		log.WarnContext(c.Request.Context(), msg, "error", err, "status", status)
	}
	c.JSON(status, body)
}

// paramID parses the :id path parameter. It writes a 400 and returns false
// when the value is not a positive integer.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": err.Error()})
		return false
	}
	return true
}
