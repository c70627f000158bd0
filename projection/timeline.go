// Package projection builds read models out of the event stream.
package projection

import (
	"context"
	"sort"
	"sync"

	"creator-chat/domain"
	"creator-chat/domain/event"
)

// Timeline is a per-user projection of delivered messages, kept in
// chronological order and deduped by id. It mirrors what a client that
// consumed its socket stream correctly would display.
type Timeline struct {
	Owner string

	mu       sync.Mutex
	messages []domain.Message
	seen     map[string]struct{}
}

func NewTimeline(owner string) *Timeline {
	return &Timeline{
		Owner: owner,
		seen:  make(map[string]struct{}),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageDelivered:
		t.append(evt.Message)
	case event.ChatAutoCreated:
		t.append(evt.SeededMessage)
	}
	return nil
}

func (t *Timeline) append(message domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.seen[message.ID]; dup {
		return
	}
	t.seen[message.ID] = struct{}{}
	t.messages = append(t.messages, message)
	// Flushed history can arrive after fresher live traffic; keep the
	// display order chronological regardless of arrival order.
	sort.SliceStable(t.messages, func(i, j int) bool {
		return t.messages[i].CreatedAt.Before(t.messages[j].CreatedAt)
	})
}

// Messages snapshots the timeline.
func (t *Timeline) Messages() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// ForRoom filters the timeline down to one room.
func (t *Timeline) ForRoom(room domain.RoomID) []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []domain.Message
	for _, m := range t.messages {
		if m.Room == room {
			out = append(out, m)
		}
	}
	return out
}
