// internal/core/whatsapp/whatsmeow.go
package whatsapp

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	qrcode "github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

const (
	maxImageBytes = 16 << 20
	qrImagePath   = "whatsapp-qr.png"
)

// IncomingMessage is an inbound text message from a private chat
type IncomingMessage struct {
	From string // phone number without server part
	Text string
}

// Client wraps a single whatsmeow device session
type Client struct {
	client     *whatsmeow.Client
	storeURL   string
	httpClient *http.Client
}

func NewClient(storeURL string) *Client {
	return &Client{
		storeURL:   storeURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (w *Client) initStore(ctx context.Context) (*sqlstore.Container, error) {
	dbLog := waLog.Stdout("Database", "ERROR", true)

	if w.storeURL != "" {
		log.Info().Msg("🌐 Using PostgreSQL database for WhatsApp store")
		container, err := sqlstore.New(ctx, "postgres", w.storeURL, dbLog)
		if err != nil {
			return nil, fmt.Errorf("failed to init PostgreSQL store: %w", err)
		}
		if err := container.Upgrade(ctx); err != nil {
			return nil, fmt.Errorf("failed to upgrade PostgreSQL schema: %w", err)
		}
		return container, nil
	}

	log.Info().Msg("💾 Using local SQLite store (store.db)")
	rawDB, err := sql.Open("sqlite", "file:store.db?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	container := sqlstore.NewWithDB(rawDB, "sqlite", dbLog)
	if err := container.Upgrade(ctx); err != nil {
		return nil, fmt.Errorf("failed to upgrade SQLite schema: %w", err)
	}
	return container, nil
}

// Connect restores the device session or pairs a new one through a QR code
// written to whatsapp-qr.png
func (w *Client) Connect(ctx context.Context) error {
	container, err := w.initStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to init store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return fmt.Errorf("failed to get device: %w", err)
	}

	w.client = whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", "INFO", true))

	if w.client.Store.ID != nil {
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
		log.Info().Msg("✅ Reconnected to WhatsApp")
		return nil
	}

	qrChan, _ := w.client.GetQRChannel(ctx)
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			if err := qrcode.WriteFile(evt.Code, qrcode.Medium, 256, qrImagePath); err != nil {
				log.Error().Err(err).Msg("❌ Failed to write QR image")
			} else {
				log.Info().Str("file", qrImagePath).Msg("🔗 Scan the QR code in WhatsApp")
			}
		case "success":
			log.Info().Msg("✅ Login berhasil!")
			return nil
		case "timeout":
			return fmt.Errorf("QR code timeout")
		}
	}
	return nil
}

func (w *Client) Disconnect() {
	if w.client != nil {
		w.client.Disconnect()
		log.Info().Msg("🔌 WhatsApp client disconnected")
	}
}

func (w *Client) IsConnected() bool {
	return w.client != nil && w.client.IsConnected()
}

// OnMessage calls handler for every private text message. Group chats,
// broadcasts and own messages are ignored.
func (w *Client) OnMessage(handler func(msg IncomingMessage)) error {
	if w.client == nil {
		return fmt.Errorf("client not initialized")
	}
	w.client.AddEventHandler(func(evt interface{}) {
		m, ok := evt.(*events.Message)
		if !ok || m.Info.IsFromMe || m.Info.IsGroup || m.Info.Chat.Server != types.DefaultUserServer {
			return
		}
		text := m.Message.GetConversation()
		if text == "" {
			text = m.Message.GetExtendedTextMessage().GetText()
		}
		if strings.TrimSpace(text) == "" {
			return
		}
		handler(IncomingMessage{From: m.Info.Chat.User, Text: text})
	})
	return nil
}

func (w *Client) SendText(ctx context.Context, to, text string) error {
	if w.client == nil {
		return fmt.Errorf("client not initialized")
	}
	msg := &waProto.Message{Conversation: proto.String(text)}
	_, err := w.client.SendMessage(ctx, types.NewJID(to, types.DefaultUserServer), msg)
	return err
}

// SendImage downloads url and sends it as an image message with caption
func (w *Client) SendImage(ctx context.Context, to, url, caption string) error {
	if w.client == nil {
		return fmt.Errorf("client not initialized")
	}

	data, mimeType, err := w.download(ctx, url)
	if err != nil {
		return err
	}

	uploaded, err := w.client.Upload(ctx, data, whatsmeow.MediaImage)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	msg := &waProto.Message{
		ImageMessage: &waProto.ImageMessage{
			Caption:       proto.String(caption),
			Mimetype:      proto.String(mimeType),
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
		},
	}
	_, err = w.client.SendMessage(ctx, types.NewJID(to, types.DefaultUserServer), msg)
	return err
}

func (w *Client) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image url: %w", err)
	}
	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func (w *Client) StartTyping(ctx context.Context, to string) error {
	if !w.IsConnected() {
		return fmt.Errorf("whatsmeow client not connected")
	}
	return w.client.SendChatPresence(ctx, types.NewJID(to, types.DefaultUserServer), types.ChatPresenceComposing, types.ChatPresenceMediaText)
}

func (w *Client) StopTyping(ctx context.Context, to string) error {
	if !w.IsConnected() {
		return fmt.Errorf("whatsmeow client not connected")
	}
	return w.client.SendChatPresence(ctx, types.NewJID(to, types.DefaultUserServer), types.ChatPresencePaused, types.ChatPresenceMediaText)
}

// StartKeepAlive mengirim presence update periodic untuk menjaga session tetap aktif
func (w *Client) StartKeepAlive(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("🛑 Keep-alive stopped")
			return
		case <-ticker.C:
			if w.IsConnected() {
				if err := w.client.SendPresence(ctx, types.PresenceAvailable); err != nil {
					log.Warn().Err(err).Msg("⚠️ Keep-alive ping failed")
				}
			}
		}
	}
}
