package runtime

import (
	"fmt"
	"log/slog"
	"sync"

	"creator-chat/contract"
	"creator-chat/domain"
	"github.com/samber/lo"
)

// OfflineQueue buffers messages addressed to users with no active room
// membership and replays them on the next join. Entries are held in
// memory for the hot path and mirrored to a durable store so a queued
// message survives a restart of the process.
//
// An entry is delivered at most once: Flush removes what it returns, and
// flushed messages pass through the dedup layer again before display.
type OfflineQueue struct {
	mu          sync.Mutex
	log         *slog.Logger
	byRecipient map[string][]domain.PendingMessage
	store       contract.PendingStore // nil disables durability
}

func NewOfflineQueue(log *slog.Logger, store contract.PendingStore) *OfflineQueue {
	return &OfflineQueue{
		log:         log,
		byRecipient: make(map[string][]domain.PendingMessage),
		store:       store,
	}
}

func (q *OfflineQueue) Enqueue(pending domain.PendingMessage) {
	q.mu.Lock()
	q.byRecipient[pending.Recipient] = append(q.byRecipient[pending.Recipient], pending)
	q.mu.Unlock()

	if q.store != nil {
		if err := q.store.StorePending(pending); err != nil {
			// The in-memory copy still delivers; only restart durability is lost.
			q.log.Error("Failed to mirror pending message", "id", pending.ID, "error", err)
		}
	}
}

// Flush returns and removes every message queued for the recipient in a
// given room, in original arrival order. Entries for other rooms stay
// queued until the recipient joins those rooms too.
func (q *OfflineQueue) Flush(recipient string, room domain.RoomID) []domain.PendingMessage {
	q.mu.Lock()
	defer q.mu.Unlock()

	merged := q.merged(recipient)

	var flushed, kept []domain.PendingMessage
	for _, p := range merged {
		if p.Room == room {
			flushed = append(flushed, p)
		} else {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		delete(q.byRecipient, recipient)
	} else {
		q.byRecipient[recipient] = kept
	}

	if q.store != nil && len(flushed) > 0 {
		ids := lo.Map(flushed, func(p domain.PendingMessage, _ int) string { return p.ID })
		if err := q.store.DeletePending(recipient, ids); err != nil {
			q.log.Error(fmt.Sprintf("Failed to drop %d flushed entries for %s", len(ids), recipient), "error", err)
		}
	}
	return flushed
}

// PendingFor reports the queued messages for a recipient grouped by room
// without removing them. Used to synthesize conversation entries when the
// recipient comes back online.
func (q *OfflineQueue) PendingFor(recipient string) map[domain.RoomID][]domain.PendingMessage {
	q.mu.Lock()
	defer q.mu.Unlock()

	res := make(map[domain.RoomID][]domain.PendingMessage)
	for _, p := range q.merged(recipient) {
		res[p.Room] = append(res[p.Room], p)
	}
	return res
}

// merged reconciles the in-memory queue with the durable mirror, deduped
// by message id. Durable entries come first: they predate anything that
// only exists in memory. Must be called with the lock held.
func (q *OfflineQueue) merged(recipient string) []domain.PendingMessage {
	inMemory := q.byRecipient[recipient]
	if q.store == nil {
		return inMemory
	}

	stored, err := q.store.LoadPending(recipient)
	if err != nil {
		q.log.Error(fmt.Sprintf("Failed to load pending messages for %s", recipient), "error", err)
		return inMemory
	}
	if len(stored) == 0 {
		return inMemory
	}

	known := make(Set, len(stored))
	for _, p := range stored {
		known[p.ID] = struct{}{}
	}
	res := stored
	for _, p := range inMemory {
		if _, ok := known[p.ID]; !ok {
			res = append(res, p)
		}
	}
	q.byRecipient[recipient] = res
	return res
}
