package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/bootstrap"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/metrics"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/utils"
)

func main() {
	utils.InitLogger()

	cfg := config.LoadConfig()
	log.Info().Str("env", cfg.Env).Msg("🚀 Starting WhatsApp avatar bot")

	avatarID, err := uuid.Parse(cfg.BotAvatarID)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ BOT_AVATAR_ID must be a valid UUID")
	}
	userID, err := uuid.Parse(cfg.BotUserID)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ BOT_USER_ID must be a valid UUID")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := database.NewDB(cfg.DatabaseURL, cfg.Env)
	defer db.Close()

	core := bootstrap.NewCore(ctx, cfg, db.GORM)
	defer core.Close()

	// engine emits turn metrics; the bot has no /metrics route but the collectors must exist
	metrics.Register()

	avatar, err := core.Avatars.GetByID(ctx, avatarID, userID)
	if err != nil {
		log.Fatal().Err(err).Str("avatar_id", avatarID.String()).Msg("❌ Bot avatar not found")
	}

	waClient := whatsapp.NewClient(cfg.WhatsAppStoreURL)
	if err := waClient.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to connect WhatsApp client")
	}
	defer waClient.Disconnect()

	bridge := whatsapp.NewBridge(core.Engine, core.Avatars, whatsapp.NewDeliverer(waClient), avatarID, userID)

	err = waClient.OnMessage(func(msg whatsapp.IncomingMessage) {
		// jangan block event loop whatsmeow
		go bridge.Handle(ctx, msg)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start listening")
	}

	go waClient.StartKeepAlive(ctx)

	sched := scheduler.New()
	if err := sched.Add(scheduler.JobBridgeSweep, cfg.BotSweepSchedule, scheduler.ConversationSweepJob(bridge, cfg.BotIdleTimeout)); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule conversation sweep")
	}
	sched.Start()
	defer sched.Stop()

	log.Info().
		Str("avatar", avatar.Name).
		Str("delimiter", avatar.Delimiter()).
		Int("typing_speed_cpm", avatar.TypingSpeedCPM).
		Msg("✅ Bot is listening")

	<-ctx.Done()
	log.Info().Msg("Shutting down... Goodbye 👋")
}
