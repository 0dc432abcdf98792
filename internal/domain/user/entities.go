package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

type Role string

const (
	RoleUser      Role = "User"
	RoleSuperUser Role = "SuperUser"
)

// Table: users
type User struct {
	ID           string    `gorm:"column:id;type:char(32);primaryKey" json:"id"`
	Username     string    `gorm:"column:username;size:64;not null;uniqueIndex:ux_users_username" json:"username"`
	Email        *string   `gorm:"column:email;size:255;uniqueIndex:ux_users_email" json:"email,omitempty"`
	DisplayName  string    `gorm:"column:display_name;size:128;not null" json:"display_name"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	Role         Role      `gorm:"column:role;size:16;not null;default:'User'" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Name is what other aggregates show for this user.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
