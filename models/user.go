package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleWriter UserRole = "writer"
	RoleEditor UserRole = "editor"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Bio       string         `json:"bio"`
	Image     string         `json:"image"`
	Role      UserRole       `json:"role" gorm:"default:'writer'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Follow links a follower to the user being followed.
type Follow struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;uniqueIndex:idx_follow_pair"`
	FolloweeID uint      `json:"followee_id" gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile is the public view of a user as seen by a viewer.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

func NewProfile(u User, following bool) Profile {
	return Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
