// Package notify pushes new-lead alerts to the team chat.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"welux-admin/internal/domain"
)

// Notifier is told about every lead the watcher has not seen before.
type Notifier interface {
	NewLead(ctx context.Context, l domain.Lead) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) NewLead(context.Context, domain.Lead) error { return nil }

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authenticates the bot token. endpoint may be empty for the
// public Bot API; it follows tgbotapi.APIEndpoint's format.
func NewTelegram(token string, chatID int64, endpoint string, hc *http.Client) (*Telegram, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram: missing bot token")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram: missing chat id")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if hc == nil {
		hc = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, hc)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) NewLead(ctx context.Context, l domain.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatLead(l))
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// FormatLead is the plain-text alert body for l.
func FormatLead(l domain.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New inquiry from %s\n", strings.TrimSpace(l.FullName))
	if l.EventType != "" {
		b.WriteString("Event: " + l.EventType)
		if l.EventDate != "" {
			b.WriteString(" on " + l.EventDate)
		}
		if l.GuestCount > 0 {
			fmt.Fprintf(&b, " (%d guests)", l.GuestCount)
		}
		b.WriteString("\n")
	}
	b.WriteString("Email: " + l.Email + "\n")
	if l.Phone != "" {
		b.WriteString("Phone: " + l.Phone + "\n")
	}
	if msg := strings.TrimSpace(l.Message); msg != "" {
		const limit = 300
		if r := []rune(msg); len(r) > limit {
			msg = string(r[:limit]) + "..."
		}
		b.WriteString("\n" + msg)
	}
	return strings.TrimRight(b.String(), "\n")
}
