package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/technews/backend/internal/models"
)

type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a comment. A missing post or user yields ErrNotFound.
func (s *CommentStore) Create(ctx context.Context, in models.NewComment) (*models.Comment, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		CommentText: in.CommentText,
		PostID:      in.PostID,
		UserID:      in.UserID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, writeErr("create comment", err)
	}
	return comment, nil
}

// FindAll lists every comment, newest first, with the commenter's username.
func (s *CommentStore) FindAll(ctx context.Context) ([]models.CommentView, error) {
	comments := []models.CommentView{}
	err := commentsQuery(s.db.WithContext(ctx)).
		Order("comments.created_at DESC, comments.id DESC").
		Scan(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	fillCommentAuthors(comments)
	return comments, nil
}

func (s *CommentStore) Delete(ctx context.Context, id int) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return 0, deleteErr("delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("delete comment %d: %w", id, ErrNotFound)
	}
	return res.RowsAffected, nil
}
