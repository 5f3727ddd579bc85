package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/auth"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/kb"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/bootstrap"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/handlers"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/services"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/metrics"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/utils"

	_ "github.com/MuhamadAgungGumelar/avatar-chat-be/cmd/saas-api/docs"
)

// @title Avatar Chat API
// @version 1.0
// @description Tenant-configured sales assistants: chat endpoint and dashboard API
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
func main() {
	utils.InitLogger()

	// Load config
	cfg := config.LoadConfig()
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("🚀 Starting saas-api")

	if cfg.SessionJWTSecret == "" {
		log.Warn().Msg("⚠️ SESSION_JWT_SECRET is empty, dashboard and test-mode logins will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init database
	db := database.NewDB(cfg.DatabaseURL, cfg.Env)
	defer db.Close()

	core := bootstrap.NewCore(ctx, cfg, db.GORM)
	defer core.Close()

	metrics.Register()

	// Init services
	avatarService := services.NewAvatarService(core.Avatars)
	versionService := services.NewPromptVersionService(avatarService, core.PromptVersions)
	productService := services.NewProductService(avatarService, core.Products)
	promotionService := services.NewPromotionService(avatarService, core.Promotions)
	knowledgeService := services.NewKnowledgeService(avatarService, core.Knowledge)

	// Health checks
	checks := map[string]handlers.HealthCheck{
		"database": db.PingContext,
	}
	if core.Cache != nil {
		checks["redis"] = core.Cache.Ping
	}

	authn := auth.NewAuthenticator(core.APIKeys, auth.NewJWTService(cfg.SessionJWTSecret))

	// Background jobs
	sched := scheduler.New()
	retention := time.Duration(cfg.TrashRetentionDays) * 24 * time.Hour
	if err := sched.Add(scheduler.JobTrashPurge, cfg.PurgeSchedule, scheduler.TrashPurgeJob(core.Avatars, retention, nil)); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule trash purge")
	}
	processor := kb.NewProcessor(core.Knowledge, core.ProviderKeys, core.Clients)
	if err := sched.Add(scheduler.JobKnowledgeIngest, cfg.IngestSchedule, scheduler.KnowledgeIngestJob(processor)); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule knowledge ingestion")
	}
	sched.Start()
	defer sched.Stop()

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Avatar Chat API",
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-api-key",
	}))

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Metrics
	app.Get("/metrics", metrics.Handler())

	handlers.RegisterRoutes(app, handlers.Handlers{
		Chat:          handlers.NewChatHandler(core.Engine),
		PromptVersion: handlers.NewPromptVersionHandler(versionService),
		Product:       handlers.NewProductHandler(productService),
		Promotion:     handlers.NewPromotionHandler(promotionService),
		Avatar:        handlers.NewAvatarHandler(avatarService),
		Knowledge:     handlers.NewKnowledgeHandler(knowledgeService),
		Health:        handlers.NewHealthHandler("saas-api", checks),
	}, authn)

	go func() {
		<-ctx.Done()
		log.Info().Msg("🛑 Shutting down saas-api...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("❌ Shutdown failed")
		}
	}()

	utils.LogInfo("✅ saas-api running", map[string]interface{}{
		"port":    cfg.Port,
		"swagger": "http://localhost:" + cfg.Port + "/swagger/",
		"jobs":    sched.Names(),
	})
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("❌ Server stopped")
	}
}
