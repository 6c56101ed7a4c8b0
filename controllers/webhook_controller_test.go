package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekzodm/qrkod-bot/models"
	"github.com/bekzodm/qrkod-bot/services"
)

// fakeBot records pipeline invocations
type fakeBot struct {
	handled []*models.IncomingMessage
	err     error
}

func (b *fakeBot) HandleMessage(msg *models.IncomingMessage) error {
	b.handled = append(b.handled, msg)
	return b.err
}

func post(t *testing.T, ctrl *WebhookController, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ctrl.Receive(rec, req)
	return rec
}

func TestWebhookReceiveText(t *testing.T) {
	bot := &fakeBot{}
	ctrl := NewWebhookController(&services.Services{Bot: bot})

	rec := post(t, ctrl, `{
		"update_id": 10,
		"message": {
			"message_id": 5,
			"from": {"id": 42, "first_name": "John", "last_name": "Doe", "username": "jdoe"},
			"chat": {"id": 42},
			"text": "hello there"
		}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"ok":true}`, rec.Body.String())

	require.Len(t, bot.handled, 1)
	msg := bot.handled[0]
	assert.Equal(t, int64(42), msg.Sender.ID)
	assert.Equal(t, "John", msg.Sender.FirstName)
	assert.Equal(t, "Doe", msg.Sender.LastName)
	assert.Equal(t, "jdoe", msg.Sender.Username)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "hello there", msg.Text)
	assert.False(t, msg.IsCommand())
}

func TestWebhookReceiveCommand(t *testing.T) {
	bot := &fakeBot{}
	ctrl := NewWebhookController(&services.Services{Bot: bot})

	rec := post(t, ctrl, `{
		"update_id": 11,
		"message": {
			"message_id": 6,
			"from": {"id": 999, "first_name": "Admin"},
			"chat": {"id": 999},
			"text": "/allow 555",
			"entities": [{"type": "bot_command", "offset": 0, "length": 6}]
		}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, bot.handled, 1)
	msg := bot.handled[0]
	assert.Equal(t, "allow", msg.Command)
	assert.Equal(t, []string{"555"}, msg.Args)
}

func TestWebhookReceiveBadPayload(t *testing.T) {
	bot := &fakeBot{}
	ctrl := NewWebhookController(&services.Services{Bot: bot})

	rec := post(t, ctrl, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, bot.handled)
}

func TestWebhookReceiveNonMessageUpdate(t *testing.T) {
	bot := &fakeBot{}
	ctrl := NewWebhookController(&services.Services{Bot: bot})

	rec := post(t, ctrl, `{"update_id": 12, "edited_message": {"message_id": 7}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, bot.handled)
}

func TestWebhookReceiveAcksPipelineFailure(t *testing.T) {
	bot := &fakeBot{err: assert.AnError}
	ctrl := NewWebhookController(&services.Services{Bot: bot})

	rec := post(t, ctrl, `{
		"update_id": 13,
		"message": {
			"message_id": 8,
			"from": {"id": 42, "first_name": "John"},
			"chat": {"id": 42},
			"text": "hello"
		}
	}`)

	// Non-200 would make Telegram redeliver; failures are not retried
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, bot.handled, 1)
}
