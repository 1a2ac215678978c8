package entity

import (
	"strings"
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:150;not null" json:"username"`
	FirstName string    `gorm:"size:150" json:"first-name"`
	LastName  string    `gorm:"size:150" json:"last-name"`
	Email     string    `gorm:"size:254" json:"email"`
	CreatedAt time.Time `gorm:"not null;index" json:"created-at"`
}

// FullName falls back to the username when no names were given.
func (u User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

func (u User) String() string {
	return u.Username
}
