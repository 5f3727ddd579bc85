package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Memory is a remembered fact about an avatar's conversations
type Memory struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AvatarID   uuid.UUID `gorm:"type:uuid;not null;index" json:"avatar_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	MemoryType string    `gorm:"type:text" json:"memory_type,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Memory) TableName() string {
	return "avatar_memories"
}

func (m *Memory) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
