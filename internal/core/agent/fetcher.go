package agent

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

const (
	knowledgePassageLimit = 5
	knowledgeThreshold    = 0.7
	memoryLimit           = 10
)

type AvatarStore interface {
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Avatar, error)
}

type PromptVersionStore interface {
	GetByID(ctx context.Context, avatarID, versionID uuid.UUID) (*models.PromptVersion, error)
	GetActive(ctx context.Context, avatarID uuid.UUID) (*models.PromptVersion, error)
}

type MemoryStore interface {
	Recent(ctx context.Context, avatarID, userID uuid.UUID, limit int) ([]models.Memory, error)
}

type ProviderKeyStore interface {
	GetActiveKey(ctx context.Context, userID uuid.UUID, provider string) (string, error)
}

// KnowledgeSearcher finds passages similar to a query for one avatar.
// apiKey is the tenant key used to embed the query.
type KnowledgeSearcher interface {
	Search(ctx context.Context, apiKey string, avatarID uuid.UUID, query string, threshold float64, limit int) ([]models.KnowledgePassage, error)
}

// ContextFetcher resolves everything a turn reads from storage
type ContextFetcher struct {
	avatars   AvatarStore
	versions  PromptVersionStore
	memories  MemoryStore
	keys      ProviderKeyStore
	knowledge KnowledgeSearcher
}

func NewContextFetcher(
	avatars AvatarStore,
	versions PromptVersionStore,
	memories MemoryStore,
	keys ProviderKeyStore,
	knowledge KnowledgeSearcher,
) *ContextFetcher {
	return &ContextFetcher{
		avatars:   avatars,
		versions:  versions,
		memories:  memories,
		keys:      keys,
		knowledge: knowledge,
	}
}

// Base resolves the avatar and the tenant's provider key
func (f *ContextFetcher) Base(ctx context.Context, avatarID, userID uuid.UUID) (*TurnContext, error) {
	avatar, err := f.avatars.GetByID(ctx, avatarID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, err
	}

	apiKey, err := f.keys.GetActiveKey(ctx, userID, models.ProviderOpenAI)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if apiKey == "" {
		return nil, ErrNoProviderKey
	}

	return &TurnContext{Avatar: avatar, ProviderKey: apiKey}, nil
}

// Enrich loads the prompt version, knowledge passages and memories concurrently.
// A knowledge-search failure degrades to zero passages.
func (f *ContextFetcher) Enrich(ctx context.Context, tc *TurnContext, message, versionID string) error {
	avatar := tc.Avatar
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		version, fromAvatar, err := f.resolveVersion(gctx, avatar, versionID)
		if err != nil {
			return err
		}
		tc.PromptVersion = version
		tc.VersionFromAvatar = fromAvatar
		return nil
	})

	g.Go(func() error {
		if f.knowledge == nil || message == "" {
			return nil
		}
		passages, err := f.knowledge.Search(gctx, tc.ProviderKey, avatar.ID, message, knowledgeThreshold, knowledgePassageLimit)
		if err != nil {
			log.Warn().Err(err).Str("avatar_id", avatar.ID.String()).Msg("⚠️ Knowledge search failed, continuing without passages")
			return nil
		}
		tc.Passages = passages
		return nil
	})

	g.Go(func() error {
		memories, err := f.memories.Recent(gctx, avatar.ID, avatar.UserID, memoryLimit)
		if err != nil {
			return err
		}
		tc.Memories = memories
		return nil
	})

	return g.Wait()
}

// resolveVersion: explicit id, then the active version, then one built from the avatar row
func (f *ContextFetcher) resolveVersion(ctx context.Context, avatar *models.Avatar, versionID string) (*models.PromptVersion, bool, error) {
	if versionID != "" {
		id, err := uuid.Parse(versionID)
		if err == nil {
			version, err := f.versions.GetByID(ctx, avatar.ID, id)
			if err == nil {
				return version, false, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, err
			}
		}
		log.Warn().Str("prompt_version_id", versionID).Msg("⚠️ Requested prompt version not found, using active version")
	}

	version, err := f.versions.GetActive(ctx, avatar.ID)
	if err == nil {
		return version, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	return versionFromAvatar(avatar), true, nil
}

// versionFromAvatar builds an unsaved version so an avatar without one still answers
func versionFromAvatar(avatar *models.Avatar) *models.PromptVersion {
	return &models.PromptVersion{
		AvatarID:           avatar.ID,
		UserID:             avatar.UserID,
		PersonalityTraits:  avatar.PersonalityTraits,
		ComplianceRules:    avatar.ComplianceRules,
		ResponseGuidelines: avatar.ResponseGuidelines,
	}
}
