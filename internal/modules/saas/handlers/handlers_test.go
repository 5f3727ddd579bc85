package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/agent"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/repositories"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
)

type fakeEngine struct {
	resp   *agent.ChatResponse
	err    error
	caller agent.Caller
	req    *agent.ChatRequest
	calls  int
}

func (f *fakeEngine) HandleTurn(ctx context.Context, caller agent.Caller, req *agent.ChatRequest) (*agent.ChatResponse, error) {
	f.calls++
	f.caller = caller
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	avatar *models.Avatar
	token  string
	apiKey string
	// readKey is active but lacks the chat scope
	readKey string
	engine  *fakeEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.Avatar{},
		&models.PromptVersion{},
		&models.Product{},
		&models.Promotion{},
		&models.KnowledgeFile{},
		&models.PlatformAPIKey{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	ctx := context.Background()
	avatarRepo := repositories.NewAvatarRepo(db)
	avatar := &models.Avatar{
		UserID:       uuid.New(),
		Name:         "Aina",
		CompanyName:  "Gadget Hub",
		PriceVisible: true,
	}
	if err := avatarRepo.Create(ctx, avatar); err != nil {
		t.Fatalf("failed to seed avatar: %v", err)
	}

	apiKeyRepo := repositories.NewAPIKeyRepo(db)
	rawKey, prefix, err := auth.GenerateAPIKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	if err := apiKeyRepo.Create(ctx, &models.PlatformAPIKey{
		UserID:    avatar.UserID,
		Name:      "widget",
		KeyPrefix: prefix,
		KeyHash:   auth.HashAPIKey(rawKey),
		Scopes:    []string{models.ScopeChat},
		IsActive:  true,
	}); err != nil {
		t.Fatalf("failed to seed api key: %v", err)
	}
	readKey, readPrefix, err := auth.GenerateAPIKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	if err := apiKeyRepo.Create(ctx, &models.PlatformAPIKey{
		UserID:    avatar.UserID,
		Name:      "reporting",
		KeyPrefix: readPrefix,
		KeyHash:   auth.HashAPIKey(readKey),
		Scopes:    []string{"read"},
		IsActive:  true,
	}); err != nil {
		t.Fatalf("failed to seed api key: %v", err)
	}

	jwtService := auth.NewJWTService("handler-test-secret")
	token, _, err := jwtService.GenerateSessionToken(avatar.UserID)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	avatarService := services.NewAvatarService(avatarRepo)
	engine := &fakeEngine{resp: &agent.ChatResponse{Success: true, AvatarID: avatar.ID.String(), Message: "Hai!"}}

	app := fiber.New()
	RegisterRoutes(app, Handlers{
		Chat:          NewChatHandler(engine),
		PromptVersion: NewPromptVersionHandler(services.NewPromptVersionService(avatarService, repositories.NewPromptVersionRepo(db))),
		Product:       NewProductHandler(services.NewProductService(avatarService, repositories.NewProductRepo(db))),
		Promotion:     NewPromotionHandler(services.NewPromotionService(avatarService, repositories.NewPromotionRepo(db))),
		Avatar:        NewAvatarHandler(avatarService),
		Knowledge:     NewKnowledgeHandler(services.NewKnowledgeService(avatarService, repositories.NewKnowledgeRepo(db))),
	}, auth.NewAuthenticator(apiKeyRepo, jwtService))

	return &testEnv{app: app, db: db, avatar: avatar, token: token, apiKey: rawKey, readKey: readKey, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp.StatusCode, data
}

func (e *testEnv) session() map[string]string {
	return map[string]string{"Authorization": "Bearer " + e.token}
}

func (e *testEnv) avatarPath(suffix string) string {
	return "/avatars/" + e.avatar.ID.String() + suffix
}

func decodeError(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("body is not an error payload: %s", body)
	}
	return payload.Error
}

func TestChatEndpointAuthAndStatus(t *testing.T) {
	chatBody := fiber.Map{"avatar_id": uuid.New().String(), "message": "hi"}

	tests := []struct {
		name       string
		headers    func(e *testEnv) map[string]string
		engineErr  error
		body       interface{}
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{
			name:       "missing key",
			headers:    func(e *testEnv) map[string]string { return nil },
			body:       chatBody,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Missing API key",
		},
		{
			name:       "unknown key",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": "ak_live_nope"} },
			body:       chatBody,
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid API key",
		},
		{
			name:       "key without chat scope",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": e.readKey} },
			body:       chatBody,
			wantStatus: http.StatusForbidden,
			wantError:  auth.ErrMissingScope.Error(),
		},
		{
			name:       "valid key",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": e.apiKey} },
			body:       chatBody,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name: "test mode session",
			headers: func(e *testEnv) map[string]string {
				return map[string]string{"x-api-key": auth.TestModeKey, "Authorization": "Bearer " + e.token}
			},
			body:       chatBody,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "invalid body",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": e.apiKey} },
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "avatar not allowed",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": e.apiKey} },
			engineErr:  agent.ErrAvatarNotAllowed,
			body:       chatBody,
			wantStatus: http.StatusForbidden,
			wantError:  agent.ErrAvatarNotAllowed.Message,
			wantCalls:  1,
		},
		{
			name:       "avatar not found",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": e.apiKey} },
			engineErr:  agent.ErrAvatarNotFound,
			body:       chatBody,
			wantStatus: http.StatusNotFound,
			wantError:  "Avatar not found",
			wantCalls:  1,
		},
		{
			name:       "missing provider key",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": e.apiKey} },
			engineErr:  agent.ErrNoProviderKey,
			body:       chatBody,
			wantStatus: http.StatusBadRequest,
			wantError:  agent.ErrNoProviderKey.Message,
			wantCalls:  1,
		},
		{
			name:       "unclassified failure",
			headers:    func(e *testEnv) map[string]string { return map[string]string{"x-api-key": e.apiKey} },
			engineErr:  errors.New("connection reset"),
			body:       chatBody,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.engine.err = tt.engineErr

			status, body := env.do(t, http.MethodPost, "/functions/v1/avatar-chat", tt.body, tt.headers(env))
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", status, tt.wantStatus, body)
			}
			if tt.wantError != "" {
				if got := decodeError(t, body); got != tt.wantError {
					t.Errorf("error = %q, want %q", got, tt.wantError)
				}
			}
			if env.engine.calls != tt.wantCalls {
				t.Errorf("engine calls = %d, want %d", env.engine.calls, tt.wantCalls)
			}
		})
	}
}

func TestChatEndpointPassesCaller(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/v1/chat",
		fiber.Map{"avatar_id": env.avatar.ID.String(), "message": "ada iPhone?"},
		map[string]string{"x-api-key": env.apiKey})
	if status != http.StatusOK {
		t.Fatalf("status = %d (body %s)", status, body)
	}

	var resp agent.ChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Hai!" {
		t.Errorf("unexpected response %+v", resp)
	}

	caller := env.engine.caller
	if caller.UserID != env.avatar.UserID {
		t.Errorf("caller user = %s, want %s", caller.UserID, env.avatar.UserID)
	}
	if caller.APIKeyID == nil {
		t.Error("api key callers must carry the key id")
	}
	if caller.Endpoint != "/v1/chat" || caller.Method != http.MethodPost {
		t.Errorf("caller endpoint = %s %s", caller.Method, caller.Endpoint)
	}
	if env.engine.req.Message != "ada iPhone?" {
		t.Errorf("message = %q", env.engine.req.Message)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodGet, env.avatarPath("/products"), nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("no session: status = %d, want 401", status)
	}

	status, _ = env.do(t, http.MethodGet, env.avatarPath("/products"), nil,
		map[string]string{"Authorization": "Bearer not-a-token"})
	if status != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", status)
	}

	status, body := env.do(t, http.MethodGet, "/avatars/not-a-uuid/products", nil, env.session())
	if status != http.StatusBadRequest {
		t.Errorf("bad avatar id: status = %d, want 400", status)
	}
	if got := decodeError(t, body); got != "Invalid avatar ID" {
		t.Errorf("error = %q", got)
	}

	status, _ = env.do(t, http.MethodGet, "/avatars/"+uuid.New().String()+"/products", nil, env.session())
	if status != http.StatusNotFound {
		t.Errorf("foreign avatar: status = %d, want 404", status)
	}
}

func TestPromptVersionRoutes(t *testing.T) {
	env := newTestEnv(t)
	path := env.avatarPath("/prompt-versions")

	status, body := env.do(t, http.MethodPost, path, fiber.Map{"system_prompt": "   "}, env.session())
	if status != http.StatusBadRequest {
		t.Fatalf("blank prompt: status = %d (body %s)", status, body)
	}

	var first, second models.PromptVersion
	status, body = env.do(t, http.MethodPost, path, fiber.Map{"system_prompt": "Be friendly", "activate": true}, env.session())
	if status != http.StatusCreated {
		t.Fatalf("create first: status = %d (body %s)", status, body)
	}
	if err := json.Unmarshal(body, &first); err != nil {
		t.Fatalf("decode first: %v", err)
	}

	status, body = env.do(t, http.MethodPost, path, fiber.Map{"system_prompt": "Be formal", "activate": true}, env.session())
	if status != http.StatusCreated {
		t.Fatalf("create second: status = %d (body %s)", status, body)
	}
	if err := json.Unmarshal(body, &second); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if second.VersionNumber != first.VersionNumber+1 {
		t.Errorf("version numbers %d then %d", first.VersionNumber, second.VersionNumber)
	}

	status, body = env.do(t, http.MethodPost, path+"/"+first.ID.String()+"/activate", nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("activate: status = %d (body %s)", status, body)
	}

	status, body = env.do(t, http.MethodGet, path, nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("list: status = %d (body %s)", status, body)
	}
	var versions []models.PromptVersion
	if err := json.Unmarshal(body, &versions); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	active := 0
	for _, v := range versions {
		if v.IsActive {
			active++
			if v.ID != first.ID {
				t.Errorf("active version = %s, want %s", v.ID, first.ID)
			}
		}
	}
	if active != 1 {
		t.Errorf("active versions = %d, want exactly 1", active)
	}

	status, _ = env.do(t, http.MethodPost, path+"/"+uuid.New().String()+"/activate", nil, env.session())
	if status != http.StatusNotFound {
		t.Errorf("unknown version: status = %d, want 404", status)
	}
	status, _ = env.do(t, http.MethodPost, path+"/nope/activate", nil, env.session())
	if status != http.StatusBadRequest {
		t.Errorf("malformed version id: status = %d, want 400", status)
	}
}

func TestProductImportAndList(t *testing.T) {
	env := newTestEnv(t)

	outOfStock := false
	status, body := env.do(t, http.MethodPost, env.avatarPath("/products/import"), fiber.Map{
		"products": []fiber.Map{
			{"sku": "IP15", "name": "iPhone 15", "category": "Phones", "price": 3500},
			{"sku": "IP15", "name": "iPhone 15", "category": "Phones", "price": 3000},
			{"sku": "CASE", "name": "Case", "category": "Accessories", "price": 50, "in_stock": outOfStock},
			{"sku": "", "name": "No SKU", "price": 10},
			{"sku": "NONAME", "name": "", "price": 10},
		},
	}, env.session())
	if status != http.StatusOK {
		t.Fatalf("import: status = %d (body %s)", status, body)
	}

	var result models.ImportProductsResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 3 || len(result.Errors) != 2 {
		t.Errorf("result = %+v, want 2 imported, 3 skipped, 2 errors", result)
	}

	status, body = env.do(t, http.MethodGet, env.avatarPath("/products"), nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("list: status = %d (body %s)", status, body)
	}
	var products []models.Product
	if err := json.Unmarshal(body, &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 || products[0].SKU != "IP15" || products[0].Price != 3000 {
		t.Errorf("in-stock catalog = %+v, want only IP15 at 3000", products)
	}

	status, body = env.do(t, http.MethodGet, env.avatarPath("/products?include_out_of_stock=true"), nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("list all: status = %d", status)
	}
	if err := json.Unmarshal(body, &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 2 {
		t.Errorf("full catalog has %d products, want 2", len(products))
	}

	status, _ = env.do(t, http.MethodPost, env.avatarPath("/products/import"), fiber.Map{"products": []fiber.Map{}}, env.session())
	if status != http.StatusBadRequest {
		t.Errorf("empty import: status = %d, want 400", status)
	}
}

func TestPromoCodeValidation(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, env.avatarPath("/promotions"), fiber.Map{
		"title":          "Raya Sale",
		"discount_type":  models.DiscountTypePercentage,
		"discount_value": 20,
		"promo_code":     "RAYA20",
	}, env.session())
	if status != http.StatusCreated {
		t.Fatalf("create promotion: status = %d (body %s)", status, body)
	}
	var created models.Promotion
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.IsActive || created.AppliesTo != models.AppliesToAll {
		t.Errorf("created promotion = %+v, want active and applying to all", created)
	}

	tests := []struct {
		code      string
		wantValid bool
	}{
		{"RAYA20", true},
		{"raya20", true},
		{"NOPE", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, env.avatarPath("/promotions/validate"), fiber.Map{"code": tt.code}, env.session())
			if status != http.StatusOK {
				t.Fatalf("status = %d (body %s)", status, body)
			}
			var v agent.PromoValidation
			if err := json.Unmarshal(body, &v); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if v.Valid != tt.wantValid {
				t.Errorf("valid = %v, want %v (%s)", v.Valid, tt.wantValid, v.Message)
			}
		})
	}

	status, _ = env.do(t, http.MethodPost, env.avatarPath("/promotions/validate"), fiber.Map{"code": ""}, env.session())
	if status != http.StatusBadRequest {
		t.Errorf("blank code: status = %d, want 400", status)
	}

	status, body = env.do(t, http.MethodGet, env.avatarPath("/promotions"), nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("list: status = %d", status)
	}
	var promotions []models.Promotion
	if err := json.Unmarshal(body, &promotions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(promotions) != 1 {
		t.Errorf("promotions = %d, want 1", len(promotions))
	}
}

func TestCreatePromotionRejectsOutOfRangeDiscounts(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body fiber.Map
		want int
	}{
		{"percentage above 100", fiber.Map{"title": "Oops", "discount_type": "percentage", "discount_value": 150}, http.StatusBadRequest},
		{"negative percentage", fiber.Map{"title": "Oops", "discount_type": "percentage", "discount_value": -10}, http.StatusBadRequest},
		{"zero fixed", fiber.Map{"title": "Oops", "discount_type": "fixed", "discount_value": 0}, http.StatusBadRequest},
		{"unknown type", fiber.Map{"title": "Oops", "discount_type": "bogo", "discount_value": 10}, http.StatusBadRequest},
		{"missing title", fiber.Map{"discount_type": "fixed", "discount_value": 10}, http.StatusBadRequest},
		{"categories without list", fiber.Map{"title": "Audio", "discount_type": "fixed", "discount_value": 10, "applies_to": "categories"}, http.StatusBadRequest},
		{"bad product id", fiber.Map{"title": "One", "discount_type": "fixed", "discount_value": 10, "applies_to": "products", "applicable_product_ids": []string{"nope"}}, http.StatusBadRequest},
		{"full percentage", fiber.Map{"title": "Free", "discount_type": "percentage", "discount_value": 100}, http.StatusCreated},
		{"fixed amount", fiber.Map{"title": "RM50 off", "discount_type": "fixed", "discount_value": 50, "is_active": false}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, env.avatarPath("/promotions"), tt.body, env.session())
			if status != tt.want {
				t.Errorf("status = %d, want %d (body %s)", status, tt.want, body)
			}
		})
	}

	var stored []models.Promotion
	if err := env.db.Find(&stored).Error; err != nil {
		t.Fatalf("load promotions: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored %d promotions, want 2", len(stored))
	}
}

func TestAvatarTrashAndRestore(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodDelete, env.avatarPath(""), nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("trash: status = %d (body %s)", status, body)
	}

	status, _ = env.do(t, http.MethodGet, env.avatarPath("/products"), nil, env.session())
	if status != http.StatusNotFound {
		t.Errorf("trashed avatar still reachable: status = %d", status)
	}

	status, _ = env.do(t, http.MethodDelete, env.avatarPath(""), nil, env.session())
	if status != http.StatusNotFound {
		t.Errorf("second trash: status = %d, want 404", status)
	}

	status, body = env.do(t, http.MethodPost, env.avatarPath("/restore"), nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("restore: status = %d (body %s)", status, body)
	}

	status, _ = env.do(t, http.MethodGet, env.avatarPath("/products"), nil, env.session())
	if status != http.StatusOK {
		t.Errorf("restored avatar: status = %d, want 200", status)
	}
}

func TestKnowledgeFileRegistration(t *testing.T) {
	env := newTestEnv(t)
	path := env.avatarPath("/knowledge-files")

	status, _ := env.do(t, http.MethodPost, path, fiber.Map{"file_name": "faq.pdf"}, env.session())
	if status != http.StatusBadRequest {
		t.Errorf("missing text: status = %d, want 400", status)
	}

	status, body := env.do(t, http.MethodPost, path, fiber.Map{
		"file_name":      "faq.pdf",
		"extracted_text": "We ship to Malaysia and Singapore.",
	}, env.session())
	if status != http.StatusAccepted {
		t.Fatalf("register: status = %d (body %s)", status, body)
	}
	var file models.KnowledgeFile
	if err := json.Unmarshal(body, &file); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if file.ProcessingStatus != models.KnowledgeStatusPending || !file.IsLinked {
		t.Errorf("file = %+v, want pending and linked", file)
	}

	status, body = env.do(t, http.MethodGet, path, nil, env.session())
	if status != http.StatusOK {
		t.Fatalf("list: status = %d", status)
	}
	var files []models.KnowledgeFile
	if err := json.Unmarshal(body, &files); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(files) != 1 || files[0].FileName != "faq.pdf" {
		t.Errorf("files = %+v", files)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantStatus int
	}{
		{
			name:       "all healthy",
			checks:     map[string]HealthCheck{"database": func(context.Context) error { return nil }},
			wantStatus: http.StatusOK,
		},
		{
			name: "redis down",
			checks: map[string]HealthCheck{
				"database": func(context.Context) error { return nil },
				"redis":    func(context.Context) error { return errors.New("connection refused") },
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewHealthHandler("saas-api", tt.checks).GetHealth)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
