package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username" validate:"required,max=150"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Identity is the authenticated caller passed into cart operations.
type Identity struct {
	UserID   uint
	Username string
}

func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username}
}
