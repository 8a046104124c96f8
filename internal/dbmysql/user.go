package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	UserID       string         `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	Handle       string         `gorm:"column:handle;uniqueIndex;size:50;not null" json:"handle"`
	PasswordHash string         `gorm:"column:password_hash;size:255;not null" json:"-"`
	DisplayName  string         `gorm:"column:display_name;size:100;not null" json:"display_name"`
	Nickname     string         `gorm:"column:nickname;size:50" json:"nickname"`
	AvatarFileID string         `gorm:"column:avatar_file_id;size:36" json:"avatar_file_id"`
	Bio          string         `gorm:"column:bio;type:text" json:"bio"`
	Email        string         `gorm:"column:email;size:255" json:"email"`
	Admin        bool           `gorm:"column:admin;default:false" json:"admin"`
	Status       string         `gorm:"column:status;type:enum('active','banned','deleted');default:'active'" json:"status"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
