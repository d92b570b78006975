package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/technews/backend/internal/middleware"
	"github.com/emilythestrangee/technews/backend/internal/models"
	"github.com/emilythestrangee/technews/backend/internal/store"
)

type PostHandler struct {
	posts *store.PostStore
	log   *slog.Logger
}

func NewPostHandler(posts *store.PostStore, log *slog.Logger) *PostHandler {
	return &PostHandler{posts: posts, log: log}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required"`
	PostURL string `json:"post_url" binding:"required"`
}

// GetPosts returns all posts, newest first
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.posts.FindAllWithVotesAndAuthor(c.Request.Context(), store.PostFilter{})
	if err != nil {
		respondError(c, h.log, "Failed to fetch posts", err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	post, err := h.posts.FindOneWithVotesAndAuthor(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Failed to fetch post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost creates a post owned by the session user
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req createPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), models.NewPost{
		Title:   req.Title,
		PostURL: req.PostURL,
		UserID:  userID,
	})
	if err != nil {
		respondError(c, h.log, "Failed to create post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpvotePost records the session user's vote and returns the refreshed post
func (h *PostHandler) UpvotePost(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req models.UpvoteRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.posts.Upvote(c.Request.Context(), userID, req.PostID)
	if err != nil {
		respondError(c, h.log, "Failed to upvote post", err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var input models.PostUpdate
	if !bindJSON(c, &input) {
		return
	}

	n, err := h.posts.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, h.log, "Failed to update post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	n, err := h.posts.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Failed to delete post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
