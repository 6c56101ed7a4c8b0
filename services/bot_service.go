package services

import (
	"errors"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"

	"github.com/bekzodm/qrkod-bot/models"
	"github.com/bekzodm/qrkod-bot/repositories"
)

// logChunkSize caps each /show_users reply so it fits Telegram's
// per-message limit.
const logChunkSize = 3500

// User-facing reply texts
const (
	msgGreeting     = "✅ Hello! Send a 38-character code."
	msgWrongLength  = "❌ The code must be exactly 38 characters."
	msgBadFormat    = "❌ The code format is invalid."
	msgInvalidID    = "❌ Invalid ID."
	msgNotInList    = "⚠️ This ID is not in the list."
	msgLogMissing   = "📄 No log available."
	msgNoLedgerData = "📂 No data."
)

// BotService interface defines the per-message pipeline: authorize,
// validate, persist, encode, reply.
type BotService interface {
	// HandleMessage processes one inbound message to its terminal state.
	HandleMessage(msg *models.IncomingMessage) error
}

// botService implements BotService interface
type botService struct {
	access       AccessService
	submission   SubmissionService
	ledger       repositories.LedgerRepository
	activity     repositories.ActivityLogRepository
	messenger    Messenger
	superAdminID int64
}

// NewBotService creates a new bot service
func NewBotService(
	access AccessService,
	submission SubmissionService,
	ledger repositories.LedgerRepository,
	activity repositories.ActivityLogRepository,
	messenger Messenger,
	superAdminID int64,
) BotService {
	return &botService{
		access:       access,
		submission:   submission,
		ledger:       ledger,
		activity:     activity,
		messenger:    messenger,
		superAdminID: superAdminID,
	}
}

// HandleMessage routes one inbound message
func (s *botService) HandleMessage(msg *models.IncomingMessage) error {
	if msg.IsCommand() {
		switch msg.Command {
		case "start":
			return s.handleStart(msg)
		case "allow":
			return s.handleAllow(msg)
		case "remove":
			return s.handleRemove(msg)
		case "users_count":
			return s.handleUsersCount(msg)
		case "show_users":
			return s.handleShowUsers(msg)
		case "getdata":
			return s.handleGetData(msg)
		default:
			// Unknown commands are ignored
			return nil
		}
	}
	return s.handleSubmission(msg)
}

// handleStart greets an authorized sender and records the login
func (s *botService) handleStart(msg *models.IncomingMessage) error {
	if !s.access.IsAllowed(msg.Sender.ID) {
		return s.denyUnknownSender(msg)
	}

	if err := s.activity.Append(fmt.Sprintf("START | %d | %s | %s",
		msg.Sender.ID, msg.Sender.FullName(), msg.Sender.Handle())); err != nil {
		return err
	}
	return s.messenger.SendText(msg.ChatID, msgGreeting)
}

// handleSubmission runs the code pipeline for ordinary text
func (s *botService) handleSubmission(msg *models.IncomingMessage) error {
	if !s.access.IsAllowed(msg.Sender.ID) {
		return s.denyUnknownSender(msg)
	}

	text := strings.TrimSpace(msg.Text)
	png, err := s.submission.Submit(msg.Sender.ID, text)
	switch {
	case errors.Is(err, models.ErrWrongLength):
		return s.messenger.SendText(msg.ChatID, msgWrongLength)
	case errors.Is(err, models.ErrInvalidCharacters):
		return s.messenger.SendText(msg.ChatID, msgBadFormat)
	case err != nil:
		return err
	}

	caption := "<code>" + html.EscapeString(text) + "</code>"
	if err := s.messenger.SendPhoto(msg.ChatID, png, caption); err != nil {
		return err
	}
	return s.activity.Append(fmt.Sprintf("QR | %d | %s", msg.Sender.ID, text))
}

// denyUnknownSender replies with the denial notice and surfaces the
// sender to the super admin for a manual grant. Fires on every message
// from an unknown sender; repeated probing is deliberately not
// suppressed.
func (s *botService) denyUnknownSender(msg *models.IncomingMessage) error {
	details := fmt.Sprintf("🆔 %d\n👤 %s\n🔗 %s",
		msg.Sender.ID, msg.Sender.FullName(), msg.Sender.Handle())

	if err := s.messenger.SendText(msg.ChatID, "🚫 You are not authorized.\n"+details); err != nil {
		return err
	}
	return s.messenger.SendText(s.superAdminID, "⚠️ Unauthorized user:\n"+details)
}

// handleAllow adds an id to the allow list (admin only)
func (s *botService) handleAllow(msg *models.IncomingMessage) error {
	if !s.access.IsAdmin(msg.Sender.ID) {
		return nil
	}

	id, err := parseIDArg(msg.Args)
	if err != nil {
		return s.messenger.SendText(msg.ChatID, msgInvalidID)
	}
	if err := s.access.Grant(msg.Sender.ID, id); err != nil {
		return err
	}
	return s.messenger.SendText(msg.ChatID, fmt.Sprintf("✅ %d added.", id))
}

// handleRemove removes an id from the allow list (admin only)
func (s *botService) handleRemove(msg *models.IncomingMessage) error {
	if !s.access.IsAdmin(msg.Sender.ID) {
		return nil
	}

	id, err := parseIDArg(msg.Args)
	if err != nil {
		return s.messenger.SendText(msg.ChatID, msgInvalidID)
	}

	err = s.access.Revoke(msg.Sender.ID, id)
	if errors.Is(err, ErrNotInList) {
		return s.messenger.SendText(msg.ChatID, msgNotInList)
	}
	if err != nil {
		return err
	}
	return s.messenger.SendText(msg.ChatID, fmt.Sprintf("❌ %d removed.", id))
}

// handleUsersCount reports the allow list size and all ids (admin only)
func (s *botService) handleUsersCount(msg *models.IncomingMessage) error {
	if !s.access.IsAdmin(msg.Sender.ID) {
		return nil
	}

	ids := s.access.List()
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = strconv.FormatInt(id, 10)
	}
	reply := fmt.Sprintf("📌 Authorized users: %d\n\n%s", len(ids), strings.Join(lines, "\n"))
	return s.messenger.SendText(msg.ChatID, reply)
}

// handleShowUsers streams the activity log in order (admin only)
func (s *botService) handleShowUsers(msg *models.IncomingMessage) error {
	if !s.access.IsAdmin(msg.Sender.ID) {
		return nil
	}

	content, err := s.activity.ReadAll()
	if errors.Is(err, repositories.ErrLogNotFound) {
		return s.messenger.SendText(msg.ChatID, msgLogMissing)
	}
	if err != nil {
		return err
	}

	for _, chunk := range splitChunks(content, logChunkSize) {
		if err := s.messenger.SendText(msg.ChatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// handleGetData exports a sender's ledger as a zip document (admin only)
func (s *botService) handleGetData(msg *models.IncomingMessage) error {
	if !s.access.IsAdmin(msg.Sender.ID) {
		return nil
	}

	id, err := parseIDArg(msg.Args)
	if err != nil {
		return s.messenger.SendText(msg.ChatID, msgInvalidID)
	}

	zipPath, err := s.ledger.ExportAll(id)
	if errors.Is(err, repositories.ErrNoData) {
		return s.messenger.SendText(msg.ChatID, msgNoLedgerData)
	}
	if err != nil {
		return err
	}
	// The bundle is transient: remove it whether or not the send worked
	defer os.Remove(zipPath)

	return s.messenger.SendDocument(msg.ChatID, zipPath)
}

// parseIDArg extracts the integer id argument of an admin command
func parseIDArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing id argument")
	}
	return strconv.ParseInt(args[0], 10, 64)
}

// splitChunks slices s into pieces of at most max bytes, cutting at the
// last newline inside each window when one exists. Only a single line
// longer than max is ever split mid-line.
func splitChunks(s string, max int) []string {
	var chunks []string
	for len(s) > max {
		cut := max
		if idx := strings.LastIndexByte(s[:max], '\n'); idx > 0 {
			cut = idx + 1
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}
	return chunks
}
