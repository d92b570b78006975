package models

import "time"

type Post struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	PostURL string `gorm:"not null" json:"post_url"`
	UserID  int    `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewPost struct {
	Title   string `json:"title" validate:"required"`
	PostURL string `json:"post_url" validate:"required,http_url"`
	UserID  int    `json:"user_id" validate:"required"`
}

type PostUpdate struct {
	Title   *string `json:"title" validate:"omitnil,min=1"`
	PostURL *string `json:"post_url" validate:"omitnil,http_url"`
}

// Author is the slice of a user exposed next to content they wrote.
type Author struct {
	Username string `json:"username"`
}

// PostView is a post joined with its author, comments and vote count. It is
// only ever read, never written.
type PostView struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	PostURL   string    `json:"post_url"`
	UserID    int       `json:"user_id"`
	VoteCount int       `json:"vote_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string        `json:"-"`
	User     Author        `gorm:"-" json:"user"`
	Comments []CommentView `gorm:"-" json:"comments"`
}

type PostSummary struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	PostURL   string    `json:"post_url"`
	CreatedAt time.Time `json:"created_at"`
}
