package models

import (
	"time"
)

// Roles understood by the administration area.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
)

// Token types stored in user_tokens.
const (
	TokenTypePasswordReset = "password_reset"
)

type User struct {
	UserID   int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserName string     `gorm:"column:user_name;size:100;unique" json:"user_name"`
	Email    string     `gorm:"column:email;size:200;unique" json:"email"`
	Phone    string     `gorm:"column:phone;size:30" json:"phone"`
	Password string     `gorm:"column:password" json:"-"`
	Role     string     `gorm:"column:role;size:30" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string { return "users" }

// IsInRole reports whether the user carries the given role.
func (u *User) IsInRole(role string) bool {
	return u != nil && u.Role == role
}

// UserToken stores hashed one-time tokens (password reset)
type UserToken struct {
	TokenID    int       `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID     int       `gorm:"column:user_id;index" json:"user_id"`
	TokenType  string    `gorm:"column:token_type;size:30" json:"token_type"`
	Token      string    `gorm:"column:token" json:"-"`
	ExpiresAt  time.Time `gorm:"column:expires_at" json:"expires_at"`
	IsRevoked  bool      `gorm:"column:is_revoked" json:"is_revoked"`
	DeviceInfo string    `gorm:"column:device_info" json:"device_info"`
	IPAddress  string    `gorm:"column:ip_address" json:"ip_address"`
	UserAgent  string    `gorm:"column:user_agent" json:"user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (UserToken) TableName() string { return "user_tokens" }
