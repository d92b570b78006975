package models

import "time"

type Comment struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	CommentText string `gorm:"not null" json:"comment_text"`
	UserID      int    `gorm:"not null;index" json:"user_id"`
	PostID      int    `gorm:"not null;index" json:"post_id"`
	User        User   `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Post        Post   `gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewComment struct {
	CommentText string `json:"comment_text" validate:"required"`
	PostID      int    `json:"post_id" validate:"required"`
	UserID      int    `json:"user_id" validate:"required"`
}

type CommentView struct {
	ID          int       `json:"id"`
	CommentText string    `json:"comment_text"`
	PostID      int       `json:"post_id"`
	UserID      int       `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`

	Username  string `json:"-"`
	PostTitle string `json:"post_title,omitempty"`
	User      Author `gorm:"-" json:"user"`
}
