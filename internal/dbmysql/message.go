package dbmysql

import (
	"time"
)

type Message struct {
	ID             uint   `gorm:"primaryKey"`
	ConversationID string `gorm:"index;size:80"`
	SenderID       string `gorm:"index;size:36"`
	RecipientID    string `gorm:"index;size:36"`
	Content        string `gorm:"type:text"`
	SentAt         time.Time
	ReadAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
