package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

const (
	ToolBrowseFullCatalog     = "browse_full_catalog"
	ToolSearchProducts        = "search_products"
	ToolGetProductByID        = "get_product_by_id"
	ToolListProductCategories = "list_product_categories"
	ToolGetProductsByCategory = "get_products_by_category"
	ToolGetActivePromotions   = "get_active_promotions"
	ToolValidatePromoCode     = "validate_promo_code"

	searchResultLimit = 20
	uncategorized     = "Other"
)

type ProductStore interface {
	GetByID(ctx context.Context, avatarID, productID uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	Search(ctx context.Context, avatarID uuid.UUID, term string, limit int) ([]models.Product, error)
	ByCategory(ctx context.Context, avatarID uuid.UUID, category string) ([]models.Product, error)
	Categories(ctx context.Context, avatarID uuid.UUID) ([]string, error)
}

type PromotionStore interface {
	ListActive(ctx context.Context, avatarID uuid.UUID) ([]models.Promotion, error)
	FindByCode(ctx context.Context, avatarID uuid.UUID, code string) (*models.Promotion, error)
}

// ToolDefinitions is the fixed tool menu offered to the model
func ToolDefinitions() []openai.Tool {
	noParams := jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: map[string]jsonschema.Definition{},
	}

	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolBrowseFullCatalog,
				Description: "List the whole product catalog grouped by category. Preferred tool for any broad question about what is available.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"include_out_of_stock": {
							Type:        jsonschema.Boolean,
							Description: "Also list products that are out of stock. Defaults to false.",
						},
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolSearchProducts,
				Description: "Find products whose name, category, SKU or description contains the query. Use for exact lookups.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"query": {Type: jsonschema.String, Description: "Text to look for"},
					},
					Required: []string{"query"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolGetProductByID,
				Description: "Get one product by its id.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"product_id": {Type: jsonschema.String, Description: "Product id from a previous tool result"},
					},
					Required: []string{"product_id"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolListProductCategories,
				Description: "List the product categories of this store.",
				Parameters:  noParams,
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolGetProductsByCategory,
				Description: "List products in one exact category. Call list_product_categories first.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"category": {Type: jsonschema.String, Description: "Exact category name"},
					},
					Required: []string{"category"},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolGetActivePromotions,
				Description: "List promotions that are running right now.",
				Parameters:  noParams,
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolValidatePromoCode,
				Description: "Check whether a promo code given by the customer is valid right now.",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"code": {Type: jsonschema.String, Description: "The promo code"},
					},
					Required: []string{"code"},
				},
			},
		},
	}
}

// ToolExecutor runs tool calls for one turn, scoped to one avatar
type ToolExecutor struct {
	products   ProductStore
	promotions PromotionStore
	avatar     *models.Avatar
	images     *ImageCollector
	now        func() time.Time

	// debug holds the fields emitted by the most recent tool
	debug map[string]interface{}
}

func NewToolExecutor(products ProductStore, promotions PromotionStore, avatar *models.Avatar, images *ImageCollector, now func() time.Time) *ToolExecutor {
	if now == nil {
		now = time.Now
	}
	return &ToolExecutor{
		products:   products,
		promotions: promotions,
		avatar:     avatar,
		images:     images,
		now:        now,
		debug:      map[string]interface{}{},
	}
}

// Debug returns the debug fields of the last executed tool
func (e *ToolExecutor) Debug() map[string]interface{} {
	return e.debug
}

type categoryGroup struct {
	Category string        `json:"category"`
	Products []ProductView `json:"products"`
}

// Execute runs one tool call. Failures are returned to the model as
// {success:false,error} rather than aborting the turn.
func (e *ToolExecutor) Execute(ctx context.Context, name, rawArgs string) (string, ToolCallLog) {
	entry := ToolCallLog{Tool: name}

	args := map[string]interface{}{}
	if strings.TrimSpace(rawArgs) != "" {
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return e.fail(&entry, fmt.Errorf("invalid arguments: %w", err))
		}
	}
	entry.Arguments = args

	result, count, err := e.dispatch(ctx, name, args)
	if err != nil {
		return e.fail(&entry, err)
	}

	result["success"] = true
	payload, err := json.Marshal(result)
	if err != nil {
		return e.fail(&entry, fmt.Errorf("failed to encode result: %w", err))
	}

	entry.Success = true
	entry.ResultCount = count
	return string(payload), entry
}

func (e *ToolExecutor) fail(entry *ToolCallLog, err error) (string, ToolCallLog) {
	entry.Success = false
	entry.Error = err.Error()
	e.debug = map[string]interface{}{"last_tool": entry.Tool, "error": err.Error()}
	payload, _ := json.Marshal(map[string]interface{}{"success": false, "error": err.Error()})
	return string(payload), *entry
}

func (e *ToolExecutor) dispatch(ctx context.Context, name string, args map[string]interface{}) (map[string]interface{}, int, error) {
	avatarID := e.avatar.ID
	priceVisible := e.avatar.PriceVisible

	switch name {
	case ToolBrowseFullCatalog:
		includeOOS, _ := args["include_out_of_stock"].(bool)
		products, err := e.products.List(ctx, models.ProductFilter{AvatarID: avatarID, IncludeOutOfStock: includeOOS})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load catalog: %w", err)
		}
		views, err := e.shapeProducts(ctx, products)
		if err != nil {
			return nil, 0, err
		}
		groups := groupByCategory(views)
		e.debug = map[string]interface{}{
			"last_tool":            name,
			"total_products":       len(views),
			"category_count":       len(groups),
			"include_out_of_stock": includeOOS,
			"price_visible":        priceVisible,
		}
		return map[string]interface{}{
			"total_products": len(views),
			"catalog":        groups,
		}, len(views), nil

	case ToolSearchProducts:
		query := stringArg(args, "query")
		if query == "" {
			return nil, 0, errors.New("query is required")
		}
		products, err := e.products.Search(ctx, avatarID, query, searchResultLimit)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to search products: %w", err)
		}
		views, err := e.shapeProducts(ctx, products)
		if err != nil {
			return nil, 0, err
		}
		e.debug = map[string]interface{}{"last_tool": name, "query": query, "matches": len(views)}
		return map[string]interface{}{
			"query":    query,
			"count":    len(views),
			"products": views,
		}, len(views), nil

	case ToolGetProductByID:
		id, err := uuid.Parse(stringArg(args, "product_id"))
		if err != nil {
			return nil, 0, errors.New("invalid product_id")
		}
		product, err := e.products.GetByID(ctx, avatarID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, errors.New("product not found")
			}
			return nil, 0, fmt.Errorf("failed to load product: %w", err)
		}
		views, err := e.shapeProducts(ctx, []models.Product{*product})
		if err != nil {
			return nil, 0, err
		}
		e.debug = map[string]interface{}{"last_tool": name, "product_id": id.String()}
		return map[string]interface{}{"product": views[0]}, 1, nil

	case ToolListProductCategories:
		categories, err := e.products.Categories(ctx, avatarID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list categories: %w", err)
		}
		e.debug = map[string]interface{}{"last_tool": name, "category_count": len(categories)}
		return map[string]interface{}{
			"count":      len(categories),
			"categories": categories,
		}, len(categories), nil

	case ToolGetProductsByCategory:
		category := stringArg(args, "category")
		if category == "" {
			return nil, 0, errors.New("category is required")
		}
		products, err := e.products.ByCategory(ctx, avatarID, category)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load category: %w", err)
		}
		views, err := e.shapeProducts(ctx, products)
		if err != nil {
			return nil, 0, err
		}
		e.debug = map[string]interface{}{"last_tool": name, "category": category, "matches": len(views)}
		return map[string]interface{}{
			"category": category,
			"count":    len(views),
			"products": views,
		}, len(views), nil

	case ToolGetActivePromotions:
		promotions, err := e.currentPromotions(ctx)
		if err != nil {
			return nil, 0, err
		}
		views := ProcessPromotions(promotions, priceVisible, e.images)
		e.debug = map[string]interface{}{"last_tool": name, "active_promotions": len(views)}
		return map[string]interface{}{
			"count":      len(views),
			"promotions": views,
		}, len(views), nil

	case ToolValidatePromoCode:
		code := stringArg(args, "code")
		if code == "" {
			return nil, 0, errors.New("code is required")
		}
		promo, err := e.promotions.FindByCode(ctx, avatarID, code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, fmt.Errorf("failed to look up promo code: %w", err)
		}
		validation := ValidatePromoCode(promo, priceVisible, e.now(), e.images)
		e.debug = map[string]interface{}{"last_tool": name, "code": code, "valid": validation.Valid}
		result := map[string]interface{}{
			"valid":   validation.Valid,
			"message": validation.Message,
		}
		if validation.Promotion != nil {
			result["promotion"] = validation.Promotion
		}
		return result, 1, nil

	default:
		return nil, 0, fmt.Errorf("unknown tool: %s", name)
	}
}

func (e *ToolExecutor) currentPromotions(ctx context.Context) ([]models.Promotion, error) {
	promotions, err := e.promotions.ListActive(ctx, e.avatar.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load promotions: %w", err)
	}
	return CurrentPromotions(promotions, e.now()), nil
}

func (e *ToolExecutor) shapeProducts(ctx context.Context, products []models.Product) ([]ProductView, error) {
	promotions, err := e.currentPromotions(ctx)
	if err != nil {
		return nil, err
	}
	return ProcessProductsWithPromotions(products, promotions, e.avatar.PriceVisible, e.now(), e.images), nil
}

// groupByCategory keeps the first-seen category order
func groupByCategory(views []ProductView) []categoryGroup {
	groups := []categoryGroup{}
	index := map[string]int{}
	for _, v := range views {
		category := v.Category
		if category == "" {
			category = uncategorized
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, categoryGroup{Category: category})
		}
		groups[i].Products = append(groups[i].Products, v)
	}
	return groups
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}
