package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	ScopeChat = "chat"

	ProviderOpenAI = "openai"
)

// PlatformAPIKey is a hashed key used by external callers of the chat endpoint
type PlatformAPIKey struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string    `gorm:"type:text" json:"name"`

	KeyPrefix string         `gorm:"type:text" json:"key_prefix"`
	KeyHash   string         `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Scopes    pq.StringArray `gorm:"type:text[]" json:"scopes"`
	AvatarID  *uuid.UUID     `gorm:"type:uuid" json:"avatar_id,omitempty"` // optional restriction

	IsActive     bool       `gorm:"type:boolean;not null" json:"is_active"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	RequestCount int64      `gorm:"type:bigint;not null;default:0" json:"request_count"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PlatformAPIKey) TableName() string {
	return "platform_api_keys"
}

func (k *PlatformAPIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// HasScope checks whether the key grants scope
func (k *PlatformAPIKey) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IsExpired reports whether the key has passed its expiry
func (k *PlatformAPIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// ProviderKey is a tenant's own model-provider credential
type ProviderKey struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Provider string    `gorm:"type:text;not null" json:"provider"`
	APIKey   string    `gorm:"column:api_key;type:text;not null" json:"-"`
	IsActive bool      `gorm:"type:boolean;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProviderKey) TableName() string {
	return "user_provider_keys"
}

func (k *ProviderKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
