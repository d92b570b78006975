package models

import "time"

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"password,omitempty"` // bcrypt hash, never plaintext

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CheckPassword reports whether candidate matches the stored hash.
func (u *User) CheckPassword(candidate string) bool {
	return ComparePassword(u.Password, candidate)
}

type NewUser struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

// UserUpdate carries the fields of a partial profile edit. Nil fields are left
// untouched.
type UserUpdate struct {
	Username *string `json:"username" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=4"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	User    User   `json:"user"`
	Message string `json:"message"`
}

// UserProfile is the public view of a user with their activity.
type UserProfile struct {
	ID         int           `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
	Posts      []PostSummary `json:"posts"`
	Comments   []CommentView `json:"comments"`
	VotedPosts []PostSummary `json:"voted_posts"`
}
