// Package telegram wraps the outbound half of the Telegram Bot API:
// sending replies, photos and documents, and registering the webhook.
package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client sends outbound messages through the Telegram Bot API.
type Client struct {
	api *tgbotapi.BotAPI
}

// NewClient creates a new Telegram client for the given bot token.
func NewClient(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram client: %w", err)
	}
	return &Client{api: api}, nil
}

// Username returns the bot's own username, as reported by Telegram.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// SendText sends a plain text message to the chat.
func (c *Client) SendText(chatID int64, text string) error {
	if _, err := c.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendPhoto sends a PNG image with an HTML-formatted caption.
func (c *Client) SendPhoto(chatID int64, png []byte, captionHTML string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "qr.png", Bytes: png})
	photo.Caption = captionHTML
	photo.ParseMode = tgbotapi.ModeHTML
	if _, err := c.api.Send(photo); err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

// SendDocument sends a file from disk as a document attachment.
func (c *Client) SendDocument(chatID int64, path string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	if _, err := c.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send document: %w", err)
	}
	return nil
}

// RegisterWebhook points Telegram's update delivery at url. The secret, if
// non-empty, is echoed back by Telegram in the
// X-Telegram-Bot-Api-Secret-Token header of every webhook request.
func (c *Client) RegisterWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	if secret != "" {
		params["secret_token"] = secret
	}

	if _, err := c.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	return nil
}
