package agent

import (
	"math"
	"time"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

// AppliedPromotion names the promotion behind a discounted price
type AppliedPromotion struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	DiscountType  string   `json:"discount_type"`
	DiscountValue *float64 `json:"discount_value,omitempty"`
	PromoCode     string   `json:"promo_code,omitempty"`
}

// ProductView is a product as the model sees it. Numeric price fields are
// absent whenever PriceHidden is set.
type ProductView struct {
	ID               string            `json:"id"`
	SKU              string            `json:"sku"`
	Name             string            `json:"name"`
	Description      string            `json:"description,omitempty"`
	Category         string            `json:"category,omitempty"`
	InStock          bool              `json:"in_stock"`
	StockQuantity    int               `json:"stock_quantity"`
	OriginalPrice    *float64          `json:"original_price,omitempty"`
	CurrentPrice     *float64          `json:"current_price,omitempty"`
	DiscountAmount   *float64          `json:"discount_amount,omitempty"`
	AppliedPromotion *AppliedPromotion `json:"applied_promotion,omitempty"`
	PriceHidden      bool              `json:"price_hidden,omitempty"`
	ImageRef         string            `json:"image_ref,omitempty"`
	ImageMarker      string            `json:"image_marker,omitempty"`
}

// PromotionView is a promotion as the model sees it
type PromotionView struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	DiscountType         string     `json:"discount_type"`
	DiscountValue        *float64   `json:"discount_value,omitempty"`
	PromoCode            string     `json:"promo_code,omitempty"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	AppliesTo            string     `json:"applies_to"`
	ApplicableCategories []string   `json:"applicable_categories,omitempty"`
	UsesRemaining        *int       `json:"uses_remaining,omitempty"`
	ImageRef             string     `json:"image_ref,omitempty"`
	ImageMarker          string     `json:"image_marker,omitempty"`
}

// PromoValidation is the result of validate_promo_code
type PromoValidation struct {
	Valid     bool           `json:"valid"`
	Message   string         `json:"message"`
	Promotion *PromotionView `json:"promotion,omitempty"`
}

const (
	promoMsgNotFound   = "Promo code not found"
	promoMsgInactive   = "This promo code is no longer active"
	promoMsgNotYet     = "This promo code is not active yet"
	promoMsgExpired    = "This promo code has expired"
	promoMsgUsageLimit = "This promo code has reached its usage limit"
	promoMsgValid      = "Promo code is valid"
)

// ProductImageRef is the stable image reference for a product
func ProductImageRef(p *models.Product) string {
	return "product:" + p.ID.String()
}

// PromotionImageRef is the stable image reference for a promotion
func PromotionImageRef(p *models.Promotion) string {
	return "promotion:" + p.ID.String()
}

// CurrentPromotions keeps the promotions valid at now
func CurrentPromotions(promotions []models.Promotion, now time.Time) []models.Promotion {
	out := make([]models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.IsCurrentlyValid(now) {
			out = append(out, p)
		}
	}
	return out
}

// BestPromotion picks the promotion with the highest absolute reduction on
// product. Ties keep the first found. Returns nil when nothing reduces the price.
func BestPromotion(product *models.Product, promotions []models.Promotion, now time.Time) (*models.Promotion, float64) {
	var best *models.Promotion
	bestDiscount := 0.0
	for i := range promotions {
		promo := &promotions[i]
		if !promo.IsCurrentlyValid(now) || !promo.AppliesToProduct(product) {
			continue
		}
		if d := promo.DiscountFor(product.Price); d > bestDiscount {
			best = promo
			bestDiscount = d
		}
	}
	return best, bestDiscount
}

// ProcessProductsWithPromotions shapes products for the model: best discount,
// image reference and either real prices or the price_hidden flag. Surfaced
// images go to images.
func ProcessProductsWithPromotions(products []models.Product, promotions []models.Promotion, priceVisible bool, now time.Time, images *ImageCollector) []ProductView {
	views := make([]ProductView, 0, len(products))
	for i := range products {
		p := &products[i]
		view := ProductView{
			ID:            p.ID.String(),
			SKU:           p.SKU,
			Name:          p.Name,
			Description:   p.Description,
			Category:      p.Category,
			InStock:       p.InStock,
			StockQuantity: p.StockQuantity,
		}

		if img := p.PrimaryImage(); img != "" {
			collected := CollectedImage{Ref: ProductImageRef(p), URL: img, Name: p.Name}
			view.ImageRef = collected.Ref
			view.ImageMarker = collected.Marker()
			if images != nil {
				images.Add(collected)
			}
		}

		promo, discount := BestPromotion(p, promotions, now)
		if priceVisible {
			original := roundMoney(p.Price)
			current := roundMoney(p.Price - discount)
			amount := roundMoney(discount)
			view.OriginalPrice = &original
			view.CurrentPrice = &current
			view.DiscountAmount = &amount
			if promo != nil {
				view.AppliedPromotion = appliedPromotion(promo, true)
			}
		} else {
			view.PriceHidden = true
			if promo != nil {
				view.AppliedPromotion = appliedPromotion(promo, false)
			}
		}

		views = append(views, view)
	}
	return views
}

// ProcessPromotions shapes promotions for the model. Fixed amounts are money
// and disappear when prices are hidden.
func ProcessPromotions(promotions []models.Promotion, priceVisible bool, images *ImageCollector) []PromotionView {
	views := make([]PromotionView, 0, len(promotions))
	for i := range promotions {
		views = append(views, promotionView(&promotions[i], priceVisible, images))
	}
	return views
}

// ValidatePromoCode checks a looked-up promotion; promo is nil when the code matched nothing
func ValidatePromoCode(promo *models.Promotion, priceVisible bool, now time.Time, images *ImageCollector) PromoValidation {
	switch {
	case promo == nil:
		return PromoValidation{Valid: false, Message: promoMsgNotFound}
	case !promo.IsActive:
		return PromoValidation{Valid: false, Message: promoMsgInactive}
	case promo.NotYetStarted(now):
		return PromoValidation{Valid: false, Message: promoMsgNotYet}
	case promo.Expired(now):
		return PromoValidation{Valid: false, Message: promoMsgExpired}
	case promo.UsageExhausted():
		return PromoValidation{Valid: false, Message: promoMsgUsageLimit}
	}

	view := promotionView(promo, priceVisible, images)
	return PromoValidation{Valid: true, Message: promoMsgValid, Promotion: &view}
}

func promotionView(p *models.Promotion, priceVisible bool, images *ImageCollector) PromotionView {
	view := PromotionView{
		ID:                   p.ID.String(),
		Title:                p.Title,
		Description:          p.Description,
		DiscountType:         p.DiscountType,
		PromoCode:            p.PromoCode,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		AppliesTo:            p.AppliesTo,
		ApplicableCategories: p.ApplicableCategories,
	}
	if discountValueVisible(p, priceVisible) {
		v := p.DiscountValue
		view.DiscountValue = &v
	}
	if p.MaxUses != nil {
		remaining := *p.MaxUses - p.CurrentUses
		if remaining < 0 {
			remaining = 0
		}
		view.UsesRemaining = &remaining
	}
	if p.ImageURL != "" {
		collected := CollectedImage{Ref: PromotionImageRef(p), URL: p.ImageURL, Name: p.Title}
		view.ImageRef = collected.Ref
		view.ImageMarker = collected.Marker()
		if images != nil {
			images.Add(collected)
		}
	}
	return view
}

func appliedPromotion(p *models.Promotion, priceVisible bool) *AppliedPromotion {
	applied := &AppliedPromotion{
		ID:           p.ID.String(),
		Title:        p.Title,
		DiscountType: p.DiscountType,
		PromoCode:    p.PromoCode,
	}
	if discountValueVisible(p, priceVisible) {
		v := p.DiscountValue
		applied.DiscountValue = &v
	}
	return applied
}

// discountValueVisible: a percentage is not a price, a fixed amount is
func discountValueVisible(p *models.Promotion, priceVisible bool) bool {
	return priceVisible || p.DiscountType == models.DiscountTypePercentage
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
