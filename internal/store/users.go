package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emilythestrangee/technews/backend/internal/models"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create validates the plaintext fields, hashes the password and inserts the
// user. The returned record carries the hash, not the plaintext.
func (s *UserStore) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, writeErr("create user", err)
	}
	return user, nil
}

// Update applies the non-nil fields of in. A new password is re-hashed before
// it is stored; other fields never touch the hash.
func (s *UserStore) Update(ctx context.Context, id int, in models.UserUpdate) (int64, error) {
	if err := check(in); err != nil {
		return 0, err
	}

	fields, err := userUpdateFields(in)
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		// nothing to write, but the caller still needs to know the row exists
		if _, err := s.FindByID(ctx, id); err != nil {
			return 0, err
		}
		return 0, nil
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return 0, writeErr("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("update user %d: %w", id, ErrNotFound)
	}
	return res.RowsAffected, nil
}

// userUpdateFields is the pre-persist transformation for profile edits.
func userUpdateFields(in models.UserUpdate) (map[string]any, error) {
	fields := map[string]any{}
	if in.Username != nil {
		fields["username"] = *in.Username
	}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.Password != nil {
		if err := checkPasswordLength(*in.Password); err != nil {
			return nil, err
		}
		hash, err := models.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = hash
	}
	return fields, nil
}

// checkPasswordLength rejects passwords bcrypt cannot hash. The limit counts
// bytes, not runes.
func checkPasswordLength(password string) error {
	if len(password) > models.MaxPasswordBytes {
		return &ValidationError{Fields: map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", models.MaxPasswordBytes),
		}}
	}
	return nil
}

// FindByEmail returns the full record, password hash included, for login.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns the user without the password hash.
func (s *UserStore) FindByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Omit("password").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// FindAll lists users without their password hashes.
func (s *UserStore) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Omit("password").Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Profile returns the user with the posts they wrote, their comments and the
// posts they upvoted.
func (s *UserStore) Profile(ctx context.Context, id int) (*models.UserProfile, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	profile := &models.UserProfile{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
		Posts:      []models.PostSummary{},
		Comments:   []models.CommentView{},
		VotedPosts: []models.PostSummary{},
	}

	err = db.Table("posts").
		Select("id, title, post_url, created_at").
		Where("user_id = ?", id).
		Order("created_at DESC").
		Scan(&profile.Posts).Error
	if err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}

	err = commentsQuery(db).
		Where("comments.user_id = ?", id).
		Order("comments.created_at DESC").
		Scan(&profile.Comments).Error
	if err != nil {
		return nil, fmt.Errorf("list user comments: %w", err)
	}
	fillCommentAuthors(profile.Comments)

	err = db.Table("posts").
		Select("posts.id, posts.title, posts.post_url, posts.created_at").
		Joins("JOIN votes ON votes.post_id = posts.id").
		Where("votes.user_id = ?", id).
		Order("votes.created_at DESC").
		Scan(&profile.VotedPosts).Error
	if err != nil {
		return nil, fmt.Errorf("list voted posts: %w", err)
	}

	return profile, nil
}

// Delete removes the user. Users that still own posts, comments or votes are
// kept and ErrHasDependents is returned.
func (s *UserStore) Delete(ctx context.Context, id int) (int64, error) {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return 0, deleteErr("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("delete user %d: %w", id, ErrNotFound)
	}
	return res.RowsAffected, nil
}
