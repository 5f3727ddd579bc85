package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// APIRequestLog is the audit row written for every chat turn
type APIRequestLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	APIKeyID       *uuid.UUID     `gorm:"type:uuid;index" json:"api_key_id,omitempty"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	AvatarID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"avatar_id"`
	Endpoint       string         `gorm:"type:text;not null" json:"endpoint"`
	Method         string         `gorm:"type:text;not null" json:"method"`
	StatusCode     int            `gorm:"type:integer;not null" json:"status_code"`
	ResponseTimeMs int64          `gorm:"column:response_time_ms;type:bigint" json:"response_time_ms"`
	RequestMeta    datatypes.JSON `gorm:"type:jsonb" json:"request_meta,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (APIRequestLog) TableName() string {
	return "api_request_logs"
}

func (l *APIRequestLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
