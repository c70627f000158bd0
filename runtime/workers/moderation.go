package workers

import (
	"context"
	"log/slog"

	"creator-chat/domain/event"
	"creator-chat/moderation"

	"github.com/abadojack/whatlanggo"
)

// ModerationWorker sits between the dispatcher and the fanout: delivered
// messages get their content censored and tagged with a detected
// language, every other event passes through untouched.
type ModerationWorker struct {
	moderator moderation.Moderator
	in        chan event.DomainEvent
	out       chan event.DomainEvent
	log       *slog.Logger
}

func NewModerationWorker(moderator moderation.Moderator,
	in, out chan event.DomainEvent, log *slog.Logger) *ModerationWorker {
	return &ModerationWorker{moderator: moderator, in: in, out: out, log: log}
}

func (w *ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.in:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case w.out <- w.moderate(e):
			}
		}
	}
}

func (w *ModerationWorker) moderate(e event.DomainEvent) event.DomainEvent {
	delivered, ok := e.(event.MessageDelivered)
	if !ok {
		return e
	}

	info := whatlanggo.Detect(delivered.Message.Content)
	delivered.Language = info.Lang.Iso6391()

	sanitized, foundWords := w.moderator.Censor(delivered.Message.Content)
	if len(foundWords) > 0 {
		w.log.Warn("Censored message content",
			"room", delivered.Message.Room,
			"sender", delivered.Message.SenderID,
			"words", len(foundWords),
			"lang", delivered.Language)
		delivered.Message.Content = sanitized
		delivered.Censored = true
	}
	return delivered
}
