package controllers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/bekzodm/qrkod-bot/models"
	"github.com/bekzodm/qrkod-bot/services"
)

// WebhookController handles inbound Telegram webhook requests
type WebhookController struct {
	services *services.Services
}

// NewWebhookController creates a new webhook controller
func NewWebhookController(services *services.Services) *WebhookController {
	return &WebhookController{
		services: services,
	}
}

// Receive handles POST /{token}: decodes one Telegram update, runs it
// through the bot pipeline and acknowledges. Pipeline failures are logged
// but still acknowledged with 200 — Telegram redelivers on non-200, and a
// failed message must not be replayed.
func (c *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid update payload", http.StatusBadRequest)
		return
	}

	// Updates without a message (edits, channel posts, ...) are not ours
	if update.Message == nil || update.Message.From == nil {
		writeOK(w)
		return
	}

	if err := c.services.Bot.HandleMessage(mapMessage(update.Message)); err != nil {
		log.Printf("Failed to process update %d: %v", update.UpdateID, err)
	}
	writeOK(w)
}

// mapMessage converts a Telegram message to the transport-independent shape
func mapMessage(m *tgbotapi.Message) *models.IncomingMessage {
	msg := &models.IncomingMessage{
		Sender: models.Sender{
			ID:        m.From.ID,
			FirstName: m.From.FirstName,
			LastName:  m.From.LastName,
			Username:  m.From.UserName,
		},
		ChatID: m.Chat.ID,
		Text:   m.Text,
	}
	if m.IsCommand() {
		msg.Command = m.Command()
		msg.Args = strings.Fields(m.CommandArguments())
	}
	return msg
}

// writeOK acknowledges the update
func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"ok":true}`)
}
