package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/v3blogs/api-go/logger"
	"github.com/v3blogs/api-go/models"
	"github.com/v3blogs/api-go/storage"
)

const (
	AboutMeMaxLength = 140
	MaxAvatarSize    = 5 << 20
)

type ProfileService struct {
	db    *gorm.DB
	store storage.ObjectStore
	log   *logger.Logger
	now   func() time.Time
}

// NewProfileService builds the service. A nil store disables avatar uploads;
// avatars then always resolve to Gravatar.
func NewProfileService(db *gorm.DB, store storage.ObjectStore) *ProfileService {
	return &ProfileService{
		db:    db,
		store: store,
		log:   logger.NewWithWriter("profiles", "error", io.Discard),
		now:   time.Now,
	}
}

// WithLogger sets the logger used to report storage cleanup failures.
func (s *ProfileService) WithLogger(log *logger.Logger) *ProfileService {
	if log != nil {
		s.log = log
	}
	return s
}

// removeObject deletes key from the store. A failure leaves an orphaned
// object, so it is logged and not returned.
func (s *ProfileService) removeObject(ctx context.Context, userID uint, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.WithUserID(userID).WithError(err).WithField("key", key).Warn("failed to delete avatar object")
	}
}

func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}

func (s *ProfileService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateAboutMe replaces the profile text. An empty string clears it.
func (s *ProfileService) UpdateAboutMe(ctx context.Context, user *models.User, aboutMe string) error {
	aboutMe = strings.TrimSpace(aboutMe)
	if err := validate.Var(aboutMe, fmt.Sprintf("max=%d", AboutMeMaxLength)); err != nil {
		return ErrInvalidProfile
	}

	var value *string
	if aboutMe != "" {
		value = &aboutMe
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("about_me", value).Error; err != nil {
		return fmt.Errorf("update about me: %w", err)
	}
	user.AboutMe = value
	return nil
}

func (s *ProfileService) TouchLastSeen(ctx context.Context, user *models.User) error {
	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("last_seen", now).Error; err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	user.LastSeen = &now
	return nil
}

func (s *ProfileService) Avatar(user *models.User, size int) string {
	if user.AvatarKey != nil && *user.AvatarKey != "" && s.store != nil {
		return s.store.URL(*user.AvatarKey)
	}
	return user.GravatarURL(size)
}

// UploadAvatar stores a new avatar image and returns its public URL. The
// previous object, if any, is removed once the new key is recorded.
func (s *ProfileService) UploadAvatar(ctx context.Context, user *models.User, filename, contentType string, size int64, body io.Reader) (string, error) {
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	ext, ok := storage.AvatarExtension(contentType, filename)
	if !ok || size <= 0 || size > MaxAvatarSize {
		return "", ErrInvalidAvatar
	}

	key := storage.AvatarKey(user.ID, ext, s.now())
	if err := s.store.Put(ctx, key, contentType, io.LimitReader(body, size), size); err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("avatar_key", key).Error; err != nil {
		s.removeObject(ctx, user.ID, key)
		return "", fmt.Errorf("record avatar: %w", err)
	}

	old := user.AvatarKey
	user.AvatarKey = &key
	if old != nil && *old != "" {
		s.removeObject(ctx, user.ID, *old)
	}
	return s.store.URL(key), nil
}

// DeleteUser removes the user, their posts and every follow edge touching
// them in a single transaction.
func (s *ProfileService) DeleteUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).Delete(&models.Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("delete posts: %w", err)
		}
		res := tx.Delete(&models.User{}, user.ID)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if user.AvatarKey != nil && *user.AvatarKey != "" && s.store != nil {
		s.removeObject(ctx, user.ID, *user.AvatarKey)
	}
	return nil
}
