package whatsapp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/agent"
	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/modules/saas/models"
)

const (
	bridgeEndpoint = "whatsapp"
	turnTimeout    = 2 * time.Minute
	errorReply     = "Sorry, something went wrong on our side. Please try again in a moment."
)

type TurnHandler interface {
	HandleTurn(ctx context.Context, caller agent.Caller, req *agent.ChatRequest) (*agent.ChatResponse, error)
}

type AvatarStore interface {
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Avatar, error)
}

type outbound interface {
	Deliver(ctx context.Context, to, reply, delimiter string, cpm int) error
}

// Bridge connects inbound WhatsApp messages to one avatar
type Bridge struct {
	turns     TurnHandler
	avatars   AvatarStore
	deliverer outbound
	avatarID  uuid.UUID
	userID    uuid.UUID

	mu      sync.Mutex
	history map[string][]agent.HistoryTurn
	// one turn at a time per customer keeps history ordered
	locks    map[string]*sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

func NewBridge(turns TurnHandler, avatars AvatarStore, deliverer *Deliverer, avatarID, userID uuid.UUID) *Bridge {
	return newBridge(turns, avatars, deliverer, avatarID, userID)
}

func newBridge(turns TurnHandler, avatars AvatarStore, deliverer outbound, avatarID, userID uuid.UUID) *Bridge {
	return &Bridge{
		turns:     turns,
		avatars:   avatars,
		deliverer: deliverer,
		avatarID:  avatarID,
		userID:    userID,
		history:   make(map[string][]agent.HistoryTurn),
		locks:     make(map[string]*sync.Mutex),
		lastSeen:  make(map[string]time.Time),
		now:       time.Now,
	}
}

// Handle runs one inbound message through the orchestrator and delivers the reply
func (b *Bridge) Handle(ctx context.Context, msg IncomingMessage) {
	lock := b.lockFor(msg.From)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	avatar, err := b.avatars.GetByID(ctx, b.avatarID, b.userID)
	if err != nil {
		log.Error().Err(err).Str("avatar_id", b.avatarID.String()).Msg("❌ Bridge avatar not available")
		return
	}

	resp, err := b.turns.HandleTurn(ctx, agent.Caller{
		UserID:   b.userID,
		Endpoint: bridgeEndpoint,
		Method:   "MESSAGE",
	}, &agent.ChatRequest{
		AvatarID:            b.avatarID.String(),
		Message:             msg.Text,
		MessageType:         agent.MessageTypeText,
		UserIdentifier:      msg.From,
		ConversationHistory: b.historyFor(msg.From),
	})

	reply := errorReply
	if err != nil {
		log.Error().Err(err).Str("from", msg.From).Msg("❌ Chat turn failed")
	} else {
		reply = resp.Message
		b.remember(msg.From, msg.Text, reply)
	}

	if err := b.deliverer.Deliver(ctx, msg.From, reply, avatar.Delimiter(), avatar.TypingSpeedCPM); err != nil {
		log.Error().Err(err).Str("to", msg.From).Msg("❌ Failed to deliver reply")
	}
}

func (b *Bridge) lockFor(from string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.locks[from]
	if !ok {
		l = &sync.Mutex{}
		b.locks[from] = l
	}
	b.lastSeen[from] = b.now()
	return l
}

// Sweep forgets customers idle for longer than idle and returns how many went.
// A customer whose turn is still running is kept.
func (b *Bridge) Sweep(idle time.Duration) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now().Add(-idle)
	evicted := 0
	for from, seen := range b.lastSeen {
		if seen.After(cutoff) {
			continue
		}
		l := b.locks[from]
		if l != nil && !l.TryLock() {
			continue
		}
		delete(b.locks, from)
		delete(b.history, from)
		delete(b.lastSeen, from)
		if l != nil {
			l.Unlock()
		}
		evicted++
	}
	return evicted
}

// Customers returns how many conversations the bridge is holding
func (b *Bridge) Customers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lastSeen)
}

func (b *Bridge) historyFor(from string) []agent.HistoryTurn {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]agent.HistoryTurn(nil), b.history[from]...)
}

func (b *Bridge) remember(from, userText, reply string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	turns := append(b.history[from],
		agent.HistoryTurn{Role: "user", Content: userText},
		agent.HistoryTurn{Role: "assistant", Content: reply},
	)
	if len(turns) > agent.MaxHistoryTurns {
		turns = turns[len(turns)-agent.MaxHistoryTurns:]
	}
	b.history[from] = turns
}
