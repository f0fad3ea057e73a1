package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"MessAPI/internal/realtime"
	"MessAPI/internal/v0/announcements"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
	sent chan tgbotapi.MessageConfig
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	if msg, ok := c.(tgbotapi.MessageConfig); ok && m.sent != nil {
		m.sent <- msg
	}
	return tgbotapi.Message{}, args.Error(0)
}

func TestFormat(t *testing.T) {
	exp := time.Date(2025, 4, 12, 20, 0, 0, 0, time.UTC)
	text := Format(announcements.Announcement{
		Title:     "Water supply cut",
		Content:   "No water in the mess kitchen until noon.",
		Priority:  announcements.PriorityUrgent,
		ExpiresAt: &exp,
	})
	assert.Equal(t, "🚨 URGENT: Water supply cut\n\nNo water in the mess kitchen until noon.\n\nValid until 12 Apr 2025 20:00", text)

	text = Format(announcements.Announcement{Title: "Feast", Content: "Sunday", Priority: announcements.PriorityNormal})
	assert.Equal(t, "📢 Feast\n\nSunday", text)
}

func TestPostWrapsSendError(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything).Return(errors.New("forbidden")).Once()

	tg := NewTelegram(sender, -100123, nil)
	err := tg.Post(context.Background(), announcements.Announcement{Title: "x", Content: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-100123")
	sender.AssertExpectations(t)
}

func TestRunForwardsActiveInserts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub(nil)
	sub := hub.Subscribe(AnnouncementFilter(), 0)
	defer sub.Close()

	sender := &mockSender{sent: make(chan tgbotapi.MessageConfig, 4)}
	sender.On("Send", mock.Anything).Return(nil)
	tg := NewTelegram(sender, 42, nil)

	done := make(chan struct{})
	go func() {
		tg.Run(ctx, sub)
		close(done)
	}()

	publish := func(typ realtime.EventType, a announcements.Announcement, active string) {
		e, err := realtime.NewEvent(announcements.TableName, typ, a.ID, a, map[string]string{"is_active": active})
		require.NoError(t, err)
		require.NoError(t, hub.Publish(ctx, e))
	}
	publish(realtime.Insert, announcements.Announcement{ID: "draft", Title: "Draft", Content: "hidden"}, "false")
	publish(realtime.Update, announcements.Announcement{ID: "edit", Title: "Edited", Content: "changed"}, "true")
	publish(realtime.Insert, announcements.Announcement{ID: "a1", Title: "Holiday", Content: "Mess closed Monday"}, "true")

	select {
	case msg := <-sender.sent:
		assert.Equal(t, int64(42), msg.ChatID)
		assert.Contains(t, msg.Text, "Holiday")
	case <-time.After(2 * time.Second):
		t.Fatal("announcement was not forwarded")
	}

	cancel()
	<-done
	sender.AssertNumberOfCalls(t, "Send", 1)
}
