package notify

import (
	"context"
	"fmt"
	"strings"

	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/announcements"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Sender is the part of the bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram forwards newly posted announcements to the mess channel.
type Telegram struct {
	sender  Sender
	chatID  int64
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewTelegram creates a notifier that posts to chatID. Telegram allows about
// one message per second into a single chat.
func NewTelegram(sender Sender, chatID int64, logger *zerolog.Logger) *Telegram {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Telegram{
		sender:  sender,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		logger:  logger,
	}
}

// NewBot connects to the bot API with token.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// AnnouncementFilter selects the events Run forwards: active announcements
// as they are inserted.
func AnnouncementFilter() realtime.Filter {
	f, _ := realtime.ParseFilter(announcements.TableName, "is_active=eq.true", realtime.Insert)
	return f
}

// Run posts every announcement arriving on sub until ctx ends or the
// subscription closes.
func (t *Telegram) Run(ctx context.Context, sub *realtime.Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-sub.C():
			if !ok {
				return
			}
			var a announcements.Announcement
			if err := e.Decode(&a); err != nil {
				t.logger.Warn().Err(err).Str("record", e.RecordID).Msg("undecodable announcement event")
				continue
			}
			if err := t.Post(ctx, a); err != nil {
				t.logger.Warn().Err(err).Str("announcement", a.ID).Msg("telegram post failed")
			}
		}
	}
}

// Post sends one announcement, waiting for the send budget.
func (t *Telegram) Post(ctx context.Context, a announcements.Announcement) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, Format(a))
	msg.DisableWebPagePreview = true
	if _, err := t.sender.Send(msg); err != nil {
		return fmt.Errorf("send to chat %d: %w", t.chatID, err)
	}
	return nil
}

// Format renders a as plain text.
func Format(a announcements.Announcement) string {
	var sb strings.Builder
	switch a.Priority {
	case announcements.PriorityUrgent:
		sb.WriteString("🚨 URGENT: ")
	case announcements.PriorityImportant:
		sb.WriteString("📌 ")
	default:
		sb.WriteString("📢 ")
	}
	sb.WriteString(a.Title)
	sb.WriteString("\n\n")
	sb.WriteString(a.Content)
	if a.ExpiresAt != nil {
		fmt.Fprintf(&sb, "\n\nValid until %s", a.ExpiresAt.Format("02 Jan 2006 15:04"))
	}
	return sb.String()
}
