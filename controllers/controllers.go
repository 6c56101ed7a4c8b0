package controllers

import (
	"github.com/bekzodm/qrkod-bot/services"
)

// Controllers holds all controller instances
type Controllers struct {
	Webhook *WebhookController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Webhook: NewWebhookController(services),
	}
}
