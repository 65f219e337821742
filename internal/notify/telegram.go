// Package notify provides transport-agnostic job-completion announcements.
// coordinator.Coordinator never depends on this package directly; a caller
// wires an AnnounceFunc into its own Job callbacks.
package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AnnounceFunc sends a message about a finished job. jobID identifies which
// job finished; msg is a human-readable summary.
type AnnounceFunc func(jobID, msg string) error

// sender is the subset of *bot.Bot that Telegram needs. Accepting it as an
// interface keeps Telegram testable against a fake, without a live bot
// client or network access.
type sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Telegram builds an AnnounceFunc that posts to a single chat via the given
// bot client.
func Telegram(b sender, chatID int64) AnnounceFunc {
	return func(jobID, msg string) error {
		_, err := b.SendMessage(context.Background(), &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("[%s] %s", jobID, msg),
		})
		return err
	}
}
