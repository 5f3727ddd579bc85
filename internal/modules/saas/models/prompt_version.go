package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PromptVersion is an immutable snapshot of an avatar's system instructions.
// At most one version per avatar is active; the partial unique index enforces it in storage.
type PromptVersion struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AvatarID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_prompt_versions_number,priority:1;uniqueIndex:idx_prompt_versions_one_active,where:is_active" json:"avatar_id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	VersionNumber int       `gorm:"type:integer;not null;uniqueIndex:idx_prompt_versions_number,priority:2" json:"version_number"`

	SystemPrompt       string         `gorm:"type:text" json:"system_prompt"`
	PersonalityTraits  pq.StringArray `gorm:"type:text[]" json:"personality_traits"`
	BehaviorRules      pq.StringArray `gorm:"type:text[]" json:"behavior_rules"`
	ComplianceRules    pq.StringArray `gorm:"type:text[]" json:"compliance_rules"`
	ResponseGuidelines pq.StringArray `gorm:"type:text[]" json:"response_guidelines"`
	Notes              string         `gorm:"type:text" json:"notes,omitempty"`

	IsActive bool `gorm:"type:boolean;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PromptVersion) TableName() string {
	return "avatar_prompt_versions"
}

func (v *PromptVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// CreatePromptVersionRequest is the dashboard payload for saving a new version
type CreatePromptVersionRequest struct {
	SystemPrompt       string   `json:"system_prompt"`
	PersonalityTraits  []string `json:"personality_traits,omitempty"`
	BehaviorRules      []string `json:"behavior_rules,omitempty"`
	ComplianceRules    []string `json:"compliance_rules,omitempty"`
	ResponseGuidelines []string `json:"response_guidelines,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	Activate           bool     `json:"activate,omitempty"`
}
