package models

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash *string    `gorm:"size:256" json:"-"` // Never exposed in JSON
	AboutMe      *string    `gorm:"size:140" json:"about_me"`
	LastSeen     *time.Time `json:"last_seen"`
	AvatarKey    *string    `gorm:"size:256" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	Posts        []Post     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) String() string {
	return fmt.Sprintf("<User %s>", u.Username)
}

// GravatarURL returns the retro-style gravatar for the user's email.
func (u *User) GravatarURL(size int) string {
	digest := md5.Sum([]byte(strings.ToLower(u.Email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=retro&s=%d", hex.EncodeToString(digest[:]), size)
}
