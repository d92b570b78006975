package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/technews/backend/internal/models"
)

const voteCountColumn = "(SELECT COUNT(*) FROM votes WHERE votes.post_id = posts.id) AS vote_count"

type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// PostFilter narrows FindAllWithVotesAndAuthor. The zero value lists every post.
type PostFilter struct {
	UserID *int
}

func (s *PostStore) Create(ctx context.Context, in models.NewPost) (*models.Post, error) {
	if err := check(in); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   in.Title,
		PostURL: in.PostURL,
		UserID:  in.UserID,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, writeErr("create post", err)
	}
	return post, nil
}

// postsQuery selects posts joined with the author's username and the live
// vote count.
func postsQuery(db *gorm.DB) *gorm.DB {
	return db.Table("posts").
		Select("posts.id, posts.title, posts.post_url, posts.user_id, posts.created_at, posts.updated_at, users.username AS username, " + voteCountColumn).
		Joins("JOIN users ON users.id = posts.user_id")
}

// commentsQuery selects comments joined with the commenter's username and the
// title of the post they belong to.
func commentsQuery(db *gorm.DB) *gorm.DB {
	return db.Table("comments").
		Select("comments.id, comments.comment_text, comments.post_id, comments.user_id, comments.created_at, users.username AS username, posts.title AS post_title").
		Joins("JOIN users ON users.id = comments.user_id").
		Joins("JOIN posts ON posts.id = comments.post_id")
}

func fillCommentAuthors(comments []models.CommentView) {
	for i := range comments {
		comments[i].User = models.Author{Username: comments[i].Username}
	}
}

// attachComments loads the comments of every post in views with one query.
func attachComments(db *gorm.DB, views []models.PostView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]int, len(views))
	byID := make(map[int]*models.PostView, len(views))
	for i := range views {
		views[i].User = models.Author{Username: views[i].Username}
		views[i].Comments = []models.CommentView{}
		ids[i] = views[i].ID
		byID[views[i].ID] = &views[i]
	}

	var comments []models.CommentView
	err := commentsQuery(db).
		Where("comments.post_id IN ?", ids).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	fillCommentAuthors(comments)

	for _, c := range comments {
		c.PostTitle = ""
		if v, ok := byID[c.PostID]; ok {
			v.Comments = append(v.Comments, c)
		}
	}
	return nil
}

// FindAllWithVotesAndAuthor lists posts newest first with their vote count,
// author and comments.
func (s *PostStore) FindAllWithVotesAndAuthor(ctx context.Context, filter PostFilter) ([]models.PostView, error) {
	db := s.db.WithContext(ctx)

	q := postsQuery(db).Order("posts.created_at DESC, posts.id DESC")
	if filter.UserID != nil {
		q = q.Where("posts.user_id = ?", *filter.UserID)
	}

	views := []models.PostView{}
	if err := q.Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := attachComments(db, views); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *PostStore) FindOneWithVotesAndAuthor(ctx context.Context, id int) (*models.PostView, error) {
	return findOne(s.db.WithContext(ctx), id)
}

func findOne(db *gorm.DB, id int) (*models.PostView, error) {
	var views []models.PostView
	if err := postsQuery(db).Where("posts.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err := attachComments(db, views); err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update applies the non-nil fields of in.
func (s *PostStore) Update(ctx context.Context, id int, in models.PostUpdate) (int64, error) {
	if err := check(in); err != nil {
		return 0, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.PostURL != nil {
		fields["post_url"] = *in.PostURL
	}
	if len(fields) == 0 {
		return 0, &ValidationError{Fields: map[string]string{"title": "nothing to update"}}
	}

	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, writeErr("update post", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("update post %d: %w", id, ErrNotFound)
	}
	return res.RowsAffected, nil
}

// Delete removes a post. Posts that still have comments or votes are kept and
// ErrHasDependents is returned.
func (s *PostStore) Delete(ctx context.Context, id int) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return 0, deleteErr("delete post", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("delete post %d: %w", id, ErrNotFound)
	}
	return res.RowsAffected, nil
}

// Upvote records userID's vote for postID and returns the post with its
// refreshed vote count. Both steps run in one transaction. Voting twice for
// the same post leaves a single vote.
func (s *PostStore) Upvote(ctx context.Context, userID, postID int) (*models.PostView, error) {
	var view *models.PostView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vote := models.Vote{UserID: userID, PostID: postID}
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&vote).Error
		if err != nil {
			return writeErr("upvote", err)
		}

		view, err = findOne(tx, postID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
