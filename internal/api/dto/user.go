package dto

import "time"

// RegisterDTO 注册
type RegisterDTO struct {
	FullName string `json:"full_name" binding:"required" validate:"min=1,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required" validate:"min=6,max=64"`
}

// CredentialDTO 登录凭证
type CredentialDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserDTO 用户
type UserDTO struct {
	UserID         uint64     `json:"user_id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email,omitempty"`
	Bio            *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

// UpdateUserDTO 修改个人资料
type UpdateUserDTO struct {
	FullName *string `json:"full_name" validate:"omitempty,min=1,max=50"`
	Bio      *string `json:"bio" validate:"omitempty,max=200"`
}
