package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/v3blogs/api-go/models"
)

// GraphService maintains the directed follower relation between users.
type GraphService struct {
	db *gorm.DB
}

func NewGraphService(db *gorm.DB) *GraphService {
	return &GraphService{db: db}
}

// Follow makes follower observe followee. Repeating it is a no-op.
func (s *GraphService) Follow(ctx context.Context, follower, followee *models.User) error {
	if follower.ID == followee.ID {
		return ErrCannotFollowSelf
	}

	edge := &models.Follow{FollowerID: follower.ID, FollowedID: followee.ID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit(clause.Associations).
		Create(edge).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

// Unfollow removes the edge if present.
func (s *GraphService) Unfollow(ctx context.Context, follower, followee *models.User) error {
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", follower.ID, followee.ID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (s *GraphService) IsFollowing(ctx context.Context, follower, followee *models.User) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", follower.ID, followee.ID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return n > 0, nil
}

func (s *GraphService) FollowerCount(ctx context.Context, user *models.User) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("followed_id = ?", user.ID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return n, nil
}

func (s *GraphService) FollowingCount(ctx context.Context, user *models.User) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count following: %w", err)
	}
	return n, nil
}

// Followers lists the users following user, ordered by username.
func (s *GraphService) Followers(ctx context.Context, user *models.User, page, pageSize int) (*Page[models.User], error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN followers ON followers.follower_id = users.id").
		Where("followers.followed_id = ?", user.ID)

	p, err := paginate[models.User](q, page, pageSize, byUsername)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return p, nil
}

// Following lists the users user follows, ordered by username.
func (s *GraphService) Following(ctx context.Context, user *models.User, page, pageSize int) (*Page[models.User], error) {
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN followers ON followers.followed_id = users.id").
		Where("followers.follower_id = ?", user.ID)

	p, err := paginate[models.User](q, page, pageSize, byUsername)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return p, nil
}

func byUsername(tx *gorm.DB) *gorm.DB {
	return tx.Order("users.username ASC").Order("users.id ASC")
}
