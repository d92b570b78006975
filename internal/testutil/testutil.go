// Package testutil provides a throwaway database and fixtures for tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/technews/backend/internal/config"
	"github.com/emilythestrangee/technews/backend/internal/database"
	"github.com/emilythestrangee/technews/backend/internal/models"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "pw1234"

var seq atomic.Int64

// SetupTestDB returns a migrated sqlite database living in t.TempDir.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "technews.db")
	db, err := database.Open(config.DriverSQLite, config.SQLiteDSN(path), logger.Discard)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Logger discards everything written to it.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestUser inserts a user whose password is TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	hash, err := models.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s%d@example.com", username, seq.Add(1)),
		Password: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestPost inserts a post owned by userID.
func CreateTestPost(t *testing.T, db *gorm.DB, userID int, title string) models.Post {
	t.Helper()

	post := models.Post{
		Title:   title,
		PostURL: "https://example.com/" + fmt.Sprint(seq.Add(1)),
		UserID:  userID,
	}
	if err := db.Omit("User").Create(&post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return post
}

// CreateTestComment inserts a comment by userID on postID.
func CreateTestComment(t *testing.T, db *gorm.DB, userID, postID int, text string) models.Comment {
	t.Helper()

	comment := models.Comment{CommentText: text, UserID: userID, PostID: postID}
	if err := db.Omit("User", "Post").Create(&comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}
	return comment
}
