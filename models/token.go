package models

import "time"

// Token is an opaque API key bound to a single user.
type Token struct {
	Key       string    `gorm:"primaryKey;size:40" json:"key"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
