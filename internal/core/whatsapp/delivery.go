package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/core/agent"
)

const (
	defaultTypingCPM = 600
	minTypingDelay   = 800 * time.Millisecond
	maxTypingDelay   = 6 * time.Second
)

// Sender is the outbound side of a WhatsApp connection
type Sender interface {
	SendText(ctx context.Context, to, text string) error
	SendImage(ctx context.Context, to, url, caption string) error
	StartTyping(ctx context.Context, to string) error
	StopTyping(ctx context.Context, to string) error
}

// Part is one outbound message: either text or an image
type Part struct {
	Text  string
	Image *agent.ImageMarker
}

// SplitReply cuts a reply into messages on delimiter. Image markers inside a
// segment become their own parts, after the segment's text.
func SplitReply(reply, delimiter string) []Part {
	if delimiter == "" {
		delimiter = "||"
	}

	var parts []Part
	for _, segment := range strings.Split(reply, delimiter) {
		text, markers := agent.ExtractImageMarkers(segment)
		if text != "" {
			parts = append(parts, Part{Text: text})
		}
		for i := range markers {
			if markers[i].URL == "" {
				continue
			}
			parts = append(parts, Part{Image: &markers[i]})
		}
	}
	return parts
}

// TypingDelay is how long a person typing at cpm characters per minute needs for text
func TypingDelay(text string, cpm int) time.Duration {
	if cpm <= 0 {
		cpm = defaultTypingCPM
	}
	d := time.Duration(utf8.RuneCountInString(text)) * time.Minute / time.Duration(cpm)
	if d < minTypingDelay {
		return minTypingDelay
	}
	if d > maxTypingDelay {
		return maxTypingDelay
	}
	return d
}

// Deliverer sends a reply as a sequence of chat-like messages
type Deliverer struct {
	sender Sender
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewDeliverer(sender Sender) *Deliverer {
	return &Deliverer{sender: sender, sleep: sleepCtx}
}

// Deliver sends each part in order, showing a typing indicator before text parts
func (d *Deliverer) Deliver(ctx context.Context, to, reply, delimiter string, cpm int) error {
	parts := SplitReply(reply, delimiter)
	for i, part := range parts {
		if part.Image != nil {
			if err := d.sender.SendImage(ctx, to, part.Image.URL, part.Image.Caption); err != nil {
				// a broken image should not swallow the rest of the reply
				log.Warn().Err(err).Str("to", to).Str("url", part.Image.URL).Msg("⚠️ Failed to send image")
			}
			continue
		}

		if err := d.sender.StartTyping(ctx, to); err != nil {
			log.Debug().Err(err).Msg("typing indicator failed")
		}
		if err := d.sleep(ctx, TypingDelay(part.Text, cpm)); err != nil {
			return err
		}
		_ = d.sender.StopTyping(ctx, to)

		if err := d.sender.SendText(ctx, to, part.Text); err != nil {
			return fmt.Errorf("failed to send part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
