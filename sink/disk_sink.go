package sink

import (
	"context"
	"fmt"
	"log/slog"

	"creator-chat/contract"
	"creator-chat/domain"
	"creator-chat/domain/event"
	"creator-chat/errors"
	"creator-chat/runtime"
)

// DiskSink persists delivered messages. It is registered as a permanent
// sink so it sees every pipeline event regardless of who is online.
//
// Persistence is one consuming context like any other: the sink dedupes
// by message id so a flush replay after a live delivery is stored once.
type DiskSink struct {
	repository contract.MessageStore
	log        *slog.Logger
	seen       *runtime.Deduper
}

func NewDiskSink(repository contract.MessageStore, log *slog.Logger) *DiskSink {
	return &DiskSink{repository: repository, log: log, seen: runtime.NewDeduper()}
}

func (d *DiskSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageDelivered:
		return d.store(evt.Message)
	case event.ChatAutoCreated:
		// The seeding message of an auto-created chat is history too.
		return d.store(evt.SeededMessage)
	default:
		d.log.Debug(fmt.Sprintf("Not a persisted event : %T", evt))
		return nil
	}
}

func (d *DiskSink) store(message domain.Message) error {
	if d.seen.Admit(message.ID) == runtime.Duplicate {
		return nil
	}
	if err := d.repository.StoreMessage(message); err != nil {
		// Persistence trouble never blocks live traffic; it only costs history.
		d.log.Error("Failed to persist message", "id", message.ID, "room", message.Room, "error", err)
		return errors.ErrPersistence
	}
	return nil
}
