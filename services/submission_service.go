package services

import (
	"fmt"

	"github.com/bekzodm/qrkod-bot/models"
	"github.com/bekzodm/qrkod-bot/qr"
	"github.com/bekzodm/qrkod-bot/repositories"
)

// SubmissionService interface defines the accepted-code flow: validate,
// persist, encode. The ledger append happens before the image is
// generated so a validated submission is never lost to a later failure.
type SubmissionService interface {
	// Submit validates text and, when accepted, appends it to the
	// sender's ledger for today (UTC) and returns the QR PNG.
	// Rejections surface as models.ErrWrongLength or
	// models.ErrInvalidCharacters; nothing is persisted for them.
	Submit(senderID int64, text string) ([]byte, error)
}

// submissionService implements SubmissionService interface
type submissionService struct {
	ledger  repositories.LedgerRepository
	encoder qr.Encoder
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(ledger repositories.LedgerRepository, encoder qr.Encoder) SubmissionService {
	return &submissionService{ledger: ledger, encoder: encoder}
}

// Submit runs validate → append → encode for one code
func (s *submissionService) Submit(senderID int64, text string) ([]byte, error) {
	if err := models.ValidateCode(text); err != nil {
		return nil, err
	}

	if err := s.ledger.Append(senderID, text, models.UTCToday()); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	png, err := s.encoder.EncodePNG(text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}
	return png, nil
}
