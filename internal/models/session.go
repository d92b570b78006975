package models

import "time"

// Session is the server side half of a login. The browser only holds a signed
// reference to ID.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    int       `gorm:"not null;index"`
	LoggedIn  bool      `gorm:"not null;default:false"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
