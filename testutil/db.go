// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/v3blogs/api-go/config"
	"github.com/v3blogs/api-go/models"
)

// NewDB opens a private in-memory SQLite database with the application schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection keeps the shared in-memory database free of lock contention.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user without a password.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	u := &models.User{Username: username, Email: username + "@example.com"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreatePost inserts a post authored by user at the given time.
func CreatePost(t testing.TB, db *gorm.DB, user *models.User, body string, at time.Time) *models.Post {
	t.Helper()

	p := &models.Post{Body: body, UserID: user.ID, Timestamp: at.UTC()}
	if err := db.Omit("Author").Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// Follow inserts a follower edge directly.
func Follow(t testing.TB, db *gorm.DB, follower, followed *models.User) {
	t.Helper()

	if err := db.Create(&models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}).Error; err != nil {
		t.Fatalf("follow: %v", err)
	}
}

// Config returns application settings suitable for tests.
func Config() *config.Config {
	return &config.Config{
		SecretKey:      "test-secret-key",
		AccessTokenTTL: time.Hour,
		ResetTokenTTL:  10 * time.Minute,
		PostsPerPage:   25,
		FrontendURL:    "http://localhost:3000",
	}
}
