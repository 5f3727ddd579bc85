package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

const (
	apiKeyPrefix = "ak_live_"

	// TestModeKey lets the dashboard call the chat endpoint with a session token
	TestModeKey = "test-mode"
)

var (
	ErrInvalidAPIKey  = errors.New("invalid API key")
	ErrAPIKeyInactive = errors.New("API key is inactive")
	ErrAPIKeyExpired  = errors.New("API key has expired")
	ErrMissingScope   = errors.New("API key does not have chat scope")
)

type APIKeyStore interface {
	FindByHash(ctx context.Context, keyHash string) (*models.PlatformAPIKey, error)
}

// HashAPIKey returns the hex SHA-256 of a raw key; only hashes are stored
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GenerateAPIKey creates a new raw key and its display prefix
func GenerateAPIKey() (raw, prefix string, err error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate key: %w", err)
	}
	raw = apiKeyPrefix + hex.EncodeToString(buf)
	return raw, raw[:len(apiKeyPrefix)+6], nil
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID             uuid.UUID
	APIKeyID           *uuid.UUID
	RestrictedAvatarID *uuid.UUID
	TestMode           bool
}

// Authenticator resolves chat credentials into a Principal
type Authenticator struct {
	keys APIKeyStore
	jwt  *JWTService
	now  func() time.Time
}

func NewAuthenticator(keys APIKeyStore, jwtService *JWTService) *Authenticator {
	return &Authenticator{keys: keys, jwt: jwtService, now: time.Now}
}

// AuthenticateAPIKey checks a raw key: known hash, active, unexpired, chat scope
func (a *Authenticator) AuthenticateAPIKey(ctx context.Context, raw string) (*Principal, error) {
	key, err := a.keys.FindByHash(ctx, HashAPIKey(raw))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("failed to look up API key: %w", err)
	}

	switch {
	case !key.IsActive:
		return nil, ErrAPIKeyInactive
	case key.IsExpired(a.now()):
		return nil, ErrAPIKeyExpired
	case !key.HasScope(models.ScopeChat):
		return nil, ErrMissingScope
	}

	id := key.ID
	return &Principal{
		UserID:             key.UserID,
		APIKeyID:           &id,
		RestrictedAvatarID: key.AvatarID,
	}, nil
}

// AuthenticateSession checks a dashboard session token
func (a *Authenticator) AuthenticateSession(token string) (*Principal, error) {
	userID, err := a.jwt.ValidateSessionToken(token)
	if err != nil {
		return nil, err
	}
	return &Principal{UserID: userID, TestMode: true}, nil
}
