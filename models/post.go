package models

import (
	"fmt"
	"time"
)

const PostBodyMaxLength = 140

type Post struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Body      string    `gorm:"size:140;not null" json:"body" validate:"required,max=140"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Author    *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (p *Post) String() string {
	return fmt.Sprintf("<Posted by %d on %s>", p.UserID, p.Timestamp.Format(time.RFC3339))
}
