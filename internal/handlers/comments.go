package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/technews/backend/internal/middleware"
	"github.com/emilythestrangee/technews/backend/internal/models"
	"github.com/emilythestrangee/technews/backend/internal/store"
)

type CommentHandler struct {
	comments *store.CommentStore
	log      *slog.Logger
}

func NewCommentHandler(comments *store.CommentStore, log *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

type createCommentRequest struct {
	CommentText string `json:"comment_text" binding:"required"`
	PostID      int    `json:"post_id" binding:"required,gt=0"`
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.comments.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to fetch comments", err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment by the session user
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req createCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), models.NewComment{
		CommentText: req.CommentText,
		PostID:      req.PostID,
		UserID:      userID,
	})
	if err != nil {
		respondError(c, h.log, "Failed to create comment", err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	n, err := h.comments.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Failed to delete comment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
