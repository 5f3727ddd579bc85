package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	JobTrashPurge      = "trash_purge"
	JobKnowledgeIngest = "knowledge_ingest"
	JobBridgeSweep     = "bridge_sweep"
)

type TrashPurger interface {
	PurgeTrashed(ctx context.Context, cutoff time.Time) (int64, error)
}

type KnowledgeIngester interface {
	ProcessPending(ctx context.Context) (int, error)
}

type ConversationSweeper interface {
	Sweep(idle time.Duration) int
}

// TrashPurgeJob hard-deletes avatars that stayed in the trash longer than retention
func TrashPurgeJob(avatars TrashPurger, retention time.Duration, now func() time.Time) Job {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		cutoff := now().UTC().Add(-retention)
		purged, err := avatars.PurgeTrashed(ctx, cutoff)
		if err != nil {
			return err
		}
		if purged > 0 {
			log.Info().Int64("purged", purged).Time("cutoff", cutoff).Msg("🗑️ Purged trashed avatars")
		}
		return nil
	}
}

// KnowledgeIngestJob embeds pending knowledge files
func KnowledgeIngestJob(ingester KnowledgeIngester) Job {
	return func(ctx context.Context) error {
		n, err := ingester.ProcessPending(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int("files", n).Msg("📚 Knowledge ingestion run complete")
		}
		return nil
	}
}

// ConversationSweepJob drops in-memory chat state for customers idle longer than idle
func ConversationSweepJob(sweeper ConversationSweeper, idle time.Duration) Job {
	return func(ctx context.Context) error {
		if n := sweeper.Sweep(idle); n > 0 {
			log.Info().Int("customers", n).Dur("idle", idle).Msg("🧹 Forgot idle conversations")
		}
		return nil
	}
}
