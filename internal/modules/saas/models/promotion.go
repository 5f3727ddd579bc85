package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"

	AppliesToAll        = "all"
	AppliesToCategories = "categories"
	AppliesToProducts   = "products"
)

// Promotion is a discount an avatar can offer. Validity window, usage cap and
// applicability scope are all optional.
type Promotion struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AvatarID uuid.UUID `gorm:"type:uuid;not null;index" json:"avatar_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Discount
	DiscountType  string  `gorm:"type:text;not null" json:"discount_type"` // percentage, fixed
	DiscountValue float64 `gorm:"type:decimal(12,2);not null;default:0" json:"discount_value"`
	PromoCode     string  `gorm:"type:text;index" json:"promo_code,omitempty"`

	// Validity
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	MaxUses     *int       `gorm:"type:integer" json:"max_uses,omitempty"`
	CurrentUses int        `gorm:"type:integer;not null;default:0" json:"current_uses"`

	// Scope
	AppliesTo            string         `gorm:"type:text;not null;default:'all'" json:"applies_to"` // all, categories, products
	ApplicableCategories pq.StringArray `gorm:"type:text[]" json:"applicable_categories,omitempty"`
	ApplicableProductIDs pq.StringArray `gorm:"column:applicable_product_ids;type:text[]" json:"applicable_product_ids,omitempty"`

	ImageURL string `gorm:"type:text" json:"image_url,omitempty"`
	IsActive bool   `gorm:"type:boolean;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Promotion) TableName() string {
	return "chatbot_promotions"
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.AppliesTo == "" {
		p.AppliesTo = AppliesToAll
	}
	return nil
}

// UsageExhausted reports whether the usage cap has been reached
func (p *Promotion) UsageExhausted() bool {
	return p.MaxUses != nil && p.CurrentUses >= *p.MaxUses
}

// NotYetStarted reports whether the validity window opens after now
func (p *Promotion) NotYetStarted(now time.Time) bool {
	return p.StartDate != nil && now.Before(*p.StartDate)
}

// Expired reports whether the validity window closed before now
func (p *Promotion) Expired(now time.Time) bool {
	return p.EndDate != nil && now.After(*p.EndDate)
}

// IsCurrentlyValid combines the active flag, date window and usage cap
func (p *Promotion) IsCurrentlyValid(now time.Time) bool {
	return p.IsActive && !p.NotYetStarted(now) && !p.Expired(now) && !p.UsageExhausted()
}

// AppliesToProduct checks the promotion's scope against a product
func (p *Promotion) AppliesToProduct(product *Product) bool {
	switch p.AppliesTo {
	case AppliesToCategories:
		for _, c := range p.ApplicableCategories {
			if c == product.Category {
				return true
			}
		}
		return false
	case AppliesToProducts:
		id := product.ID.String()
		for _, pid := range p.ApplicableProductIDs {
			if pid == id {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// DiscountFor returns the absolute reduction this promotion gives on price,
// always within [0, price]
func (p *Promotion) DiscountFor(price float64) float64 {
	var cut float64
	switch p.DiscountType {
	case DiscountTypePercentage:
		cut = price * p.DiscountValue / 100
	case DiscountTypeFixed:
		cut = p.DiscountValue
	}
	if cut <= 0 || price <= 0 {
		return 0
	}
	if cut > price {
		return price
	}
	return cut
}

// CreatePromotionRequest is the dashboard payload for a new promotion
type CreatePromotionRequest struct {
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	DiscountType         string     `json:"discount_type"`
	DiscountValue        float64    `json:"discount_value"`
	PromoCode            string     `json:"promo_code,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	MaxUses              *int       `json:"max_uses,omitempty"`
	AppliesTo            string     `json:"applies_to,omitempty"`
	ApplicableCategories []string   `json:"applicable_categories,omitempty"`
	ApplicableProductIDs []string   `json:"applicable_product_ids,omitempty"`
	ImageURL             string     `json:"image_url,omitempty"`
	// IsActive defaults to true when omitted
	IsActive *bool `json:"is_active,omitempty"`
}
