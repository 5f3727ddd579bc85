package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	AvatarStatusActive  = "active"
	AvatarStatusTrashed = "trashed"

	DefaultWhatsAppDelimiter = "||"
)

// Avatar is one tenant-configured chatbot
type Avatar struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	// Identity
	Name            string `gorm:"type:text;not null" json:"name"`
	CompanyName     string `gorm:"type:text" json:"company_name,omitempty"`
	Industry        string `gorm:"type:text" json:"industry,omitempty"`
	BusinessContext string `gorm:"type:text" json:"business_context,omitempty"`

	// Behaviour
	ComplianceRules    pq.StringArray `gorm:"type:text[]" json:"compliance_rules"`
	ResponseGuidelines pq.StringArray `gorm:"type:text[]" json:"response_guidelines"`
	PersonalityTraits  pq.StringArray `gorm:"type:text[]" json:"personality_traits"`
	SupportedLanguages pq.StringArray `gorm:"type:text[]" json:"supported_languages"`
	PrimaryLanguage    string         `gorm:"type:text;default:'en'" json:"primary_language"`
	PriceVisible       bool           `gorm:"type:boolean;not null" json:"price_visible"`

	// WhatsApp formatting
	WhatsAppDelimiter   string `gorm:"column:whatsapp_delimiter;type:text;default:'||'" json:"whatsapp_delimiter"`
	TypingSpeedCPM      int    `gorm:"column:typing_speed_cpm;type:integer;default:600" json:"typing_speed_cpm"`
	BatchTimeoutSeconds int    `gorm:"type:integer;default:5" json:"batch_timeout_seconds"`

	FineTunedModel string `gorm:"type:text" json:"fine_tuned_model,omitempty"`

	// Trash
	Status    string     `gorm:"type:text;not null;default:'active';index" json:"status"`
	TrashedAt *time.Time `json:"trashed_at,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Avatar) TableName() string {
	return "avatars"
}

func (a *Avatar) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = AvatarStatusActive
	}
	if a.WhatsAppDelimiter == "" {
		a.WhatsAppDelimiter = DefaultWhatsAppDelimiter
	}
	return nil
}

// Delimiter returns the reply-splitting delimiter, falling back to the platform default
func (a *Avatar) Delimiter() string {
	if a.WhatsAppDelimiter == "" {
		return DefaultWhatsAppDelimiter
	}
	return a.WhatsAppDelimiter
}

// IsTrashed reports whether the avatar sits in the trash awaiting purge
func (a *Avatar) IsTrashed() bool {
	return a.Status == AvatarStatusTrashed
}
