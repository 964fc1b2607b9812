// Package telegram pushes lifecycle events to the kitchen's Telegram chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"backoffice/internal/core/domain/model/event"
	"backoffice/internal/core/domain/model/notification"
	"backoffice/internal/core/ports"

	"gopkg.in/telebot.v3"
)

const Name = "telegram"

var (
	ErrSenderIsRequired           = errors.New("telegram sender is required")
	ErrKitchenDirectoryIsRequired = errors.New("kitchen directory is required")
)

var _ ports.Channel = (*Channel)(nil)

// Sender is the part of *telebot.Bot the channel needs.
type Sender interface {
	Send(to telebot.Recipient, what any, opts ...any) (*telebot.Message, error)
}

// Channel sends the rendered notification text. Kitchens without a chat
// id have nothing to deliver, which counts as delivered.
type Channel struct {
	sender   Sender
	kitchens ports.KitchenDirectory
}

func NewChannel(sender Sender, kitchens ports.KitchenDirectory) (*Channel, error) {
	if sender == nil {
		return nil, ErrSenderIsRequired
	}
	if kitchens == nil {
		return nil, ErrKitchenDirectoryIsRequired
	}
	return &Channel{sender: sender, kitchens: kitchens}, nil
}

func (c *Channel) Name() string {
	return Name
}

// Send ignores ctx: telebot has no context support, the dispatcher bounds the call.
func (c *Channel) Send(_ context.Context, ev event.Event) error {
	chatID := c.kitchens.Settings(ev.KitchenID()).TelegramChatID
	if chatID == 0 {
		return nil
	}

	content := notification.Render(ev)
	text := fmt.Sprintf("%s\n%s", content.Title, content.Message)
	if _, err := c.sender.Send(&telebot.Chat{ID: chatID}, text, &telebot.SendOptions{DisableWebPagePreview: true}); err != nil {
		return fmt.Errorf("failed to send telegram message to chat %d: %w", chatID, err)
	}
	return nil
}

// NewBot creates a bot used only for sending; Start is never called.
func NewBot(token string) (*telebot.Bot, error) {
	return telebot.NewBot(telebot.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 10 * time.Second},
	})
}
