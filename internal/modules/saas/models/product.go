package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product represents a product in an avatar's catalog
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AvatarID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_avatar_sku,priority:1" json:"avatar_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	// Product Info
	SKU         string `gorm:"type:text;not null;uniqueIndex:idx_products_avatar_sku,priority:2" json:"sku"`
	Name        string `gorm:"type:text;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Category    string `gorm:"type:text;index" json:"category,omitempty"`

	// Pricing & Stock
	Price         float64 `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	InStock       bool    `gorm:"type:boolean;not null" json:"in_stock"`
	StockQuantity int     `gorm:"type:integer;not null;default:0" json:"stock_quantity"`

	// Media
	ImageURL string         `gorm:"type:text" json:"image_url,omitempty"`
	Images   pq.StringArray `gorm:"type:text[]" json:"images,omitempty"`

	IsActive bool `gorm:"type:boolean;not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "chatbot_products"
}

// BeforeCreate sets UUID before creating
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsAvailable checks if product can be offered right now
func (p *Product) IsAvailable() bool {
	return p.IsActive && p.InStock
}

// PrimaryImage returns the first displayable image reference
func (p *Product) PrimaryImage() string {
	if p.ImageURL != "" {
		return p.ImageURL
	}
	for _, img := range p.Images {
		if img != "" {
			return img
		}
	}
	return ""
}

// ImportProductItem is one row of a catalog import; SKU is the dedup key
type ImportProductItem struct {
	SKU           string   `json:"sku"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Category      string   `json:"category,omitempty"`
	Price         float64  `json:"price"`
	InStock       *bool    `json:"in_stock,omitempty"`
	StockQuantity int      `json:"stock_quantity"`
	ImageURL      string   `json:"image_url,omitempty"`
	Images        []string `json:"images,omitempty"`
}

// ImportProductsRequest represents a catalog import payload
type ImportProductsRequest struct {
	Products []ImportProductItem `json:"products"`
}

// ImportProductsResult summarises a catalog import
type ImportProductsResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ProductFilter represents product filtering options
type ProductFilter struct {
	AvatarID          uuid.UUID
	UserID            uuid.UUID
	Category          string
	SearchTerm        string // name, category, SKU, description
	IncludeOutOfStock bool
	Limit             int
}
