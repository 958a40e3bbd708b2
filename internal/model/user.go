package model

import (
	"time"
)

type User struct {
	ID        uint64  `gorm:"primaryKey"`
	Email     string  `gorm:"type:varchar(100);uniqueIndex:idx_email;not null"`
	FullName  string  `gorm:"type:varchar(50);not null"`
	Password  string  `gorm:"type:varchar(255);not null"`
	Bio       *string `gorm:"type:varchar(255);default:''"`
	AvatarURL string  `gorm:"type:varchar(512);column:avatar_url;default:'default_avatar.png'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}
