package models

import "time"

// Vote records that a user upvoted a post. A user can upvote a given post at
// most once.
type Vote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_votes_user_post" json:"user_id"`
	PostID    int       `gorm:"not null;uniqueIndex:idx_votes_user_post;index" json:"post_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type UpvoteRequest struct {
	PostID int `json:"post_id" binding:"required,gt=0"`
}
