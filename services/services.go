package services

import (
	"github.com/bekzodm/qrkod-bot/qr"
	"github.com/bekzodm/qrkod-bot/repositories"
)

// Messenger is the outbound side of the transport layer. The Telegram
// client satisfies it in production; tests use a recording fake.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendPhoto(chatID int64, png []byte, captionHTML string) error
	SendDocument(chatID int64, path string) error
}

// Services holds all service instances
type Services struct {
	Access     AccessService
	Submission SubmissionService
	Bot        BotService
}

// NewServices creates and initializes all service instances. The allow
// list is loaded into memory here, once, at process start.
func NewServices(repos *repositories.Repositories, messenger Messenger, encoder qr.Encoder, superAdminID int64) (*Services, error) {
	access, err := NewAccessService(repos.AllowList, superAdminID)
	if err != nil {
		return nil, err
	}
	submission := NewSubmissionService(repos.Ledger, encoder)

	return &Services{
		Access:     access,
		Submission: submission,
		Bot:        NewBotService(access, submission, repos.Ledger, repos.Activity, messenger, superAdminID),
	}, nil
}
