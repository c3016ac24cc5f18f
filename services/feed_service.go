package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/v3blogs/api-go/models"
)

// FeedService reads and writes posts.
type FeedService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db, now: time.Now}
}

func newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").
		Order("posts.timestamp DESC").
		Order("posts.id DESC")
}

// Feed returns the posts authored by user or by anyone user follows, newest
// first. Follows are not transitive.
func (s *FeedService) Feed(ctx context.Context, user *models.User, page, pageSize int) (*Page[models.Post], error) {
	followed := s.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", user.ID)

	q := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("posts.user_id = ? OR posts.user_id IN (?)", user.ID, followed)

	p, err := paginate[models.Post](q, page, pageSize, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return p, nil
}

// Explore returns every post, newest first.
func (s *FeedService) Explore(ctx context.Context, page, pageSize int) (*Page[models.Post], error) {
	q := s.db.WithContext(ctx).Model(&models.Post{})

	p, err := paginate[models.Post](q, page, pageSize, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("explore: %w", err)
	}
	return p, nil
}

// UserPosts returns the posts authored by user, newest first.
func (s *FeedService) UserPosts(ctx context.Context, user *models.User, page, pageSize int) (*Page[models.Post], error) {
	q := s.db.WithContext(ctx).Model(&models.Post{}).Where("posts.user_id = ?", user.ID)

	p, err := paginate[models.Post](q, page, pageSize, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("user posts: %w", err)
	}
	return p, nil
}

func (s *FeedService) CreatePost(ctx context.Context, author *models.User, body string) (*models.Post, error) {
	post := &models.Post{
		Body:      strings.TrimSpace(body),
		UserID:    author.ID,
		Timestamp: s.now().UTC(),
	}
	if err := validate.Struct(post); err != nil {
		return nil, ErrInvalidPost
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = author
	return post, nil
}
