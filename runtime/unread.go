package runtime

import (
	"fmt"
	"log/slog"
	"sync"

	"creator-chat/contract"
	"creator-chat/domain"
)

// UnreadCounter keeps per-user, per-room unread counts. Counts are
// mirrored to a durable store on every change, reloaded at session start
// and merged rather than replaced: the merge keeps the larger of the two
// values so a reconnect gap can never under-count.
//
// Which room the user is actively viewing is client-local UI state; the
// caller passes it in, the counter never tracks it.
type UnreadCounter struct {
	mu     sync.Mutex
	log    *slog.Logger
	counts map[string]map[domain.RoomID]int
	store  contract.UnreadStore // nil disables the durable mirror
}

func NewUnreadCounter(log *slog.Logger, store contract.UnreadStore) *UnreadCounter {
	return &UnreadCounter{
		log:    log,
		counts: make(map[string]map[domain.RoomID]int),
		store:  store,
	}
}

// Increment bumps the count and returns the new value.
func (u *UnreadCounter) Increment(userID string, room domain.RoomID) int {
	u.mu.Lock()
	if _, ok := u.counts[userID]; !ok {
		u.counts[userID] = make(map[domain.RoomID]int)
	}
	u.counts[userID][room]++
	count := u.counts[userID][room]
	u.mu.Unlock()

	u.persist(userID, room, count)
	return count
}

// Reset zeroes the count when the user activates the room.
// Resetting a room that was never messaged is a no-op.
func (u *UnreadCounter) Reset(userID string, room domain.RoomID) {
	u.mu.Lock()
	rooms, ok := u.counts[userID]
	if ok {
		if _, ok = rooms[room]; ok {
			rooms[room] = 0
		}
	}
	u.mu.Unlock()

	if ok {
		u.persist(userID, room, 0)
	}
}

func (u *UnreadCounter) Get(userID string, room domain.RoomID) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.counts[userID][room]
}

// Counts snapshots every non-zero count the user has.
func (u *UnreadCounter) Counts(userID string) map[domain.RoomID]int {
	u.mu.Lock()
	defer u.mu.Unlock()

	res := make(map[domain.RoomID]int)
	for room, count := range u.counts[userID] {
		if count > 0 {
			res[room] = count
		}
	}
	return res
}

// LoadUser merges the durable counts for a user into memory, keeping the
// larger value per room. Called when the user's session starts.
func (u *UnreadCounter) LoadUser(userID string) {
	if u.store == nil {
		return
	}
	stored, err := u.store.LoadCounts(userID)
	if err != nil {
		u.log.Error(fmt.Sprintf("Failed to load unread counts for %s", userID), "error", err)
		return
	}
	u.Reconcile(userID, stored)
}

// Reconcile merges externally reported counts, favouring the larger value
// per room over a blind overwrite.
func (u *UnreadCounter) Reconcile(userID string, reported map[domain.RoomID]int) {
	u.mu.Lock()
	if _, ok := u.counts[userID]; !ok {
		u.counts[userID] = make(map[domain.RoomID]int)
	}
	changed := make(map[domain.RoomID]int)
	for room, count := range reported {
		if count > u.counts[userID][room] {
			u.counts[userID][room] = count
			changed[room] = count
		}
	}
	u.mu.Unlock()

	for room, count := range changed {
		u.persist(userID, room, count)
	}
}

func (u *UnreadCounter) persist(userID string, room domain.RoomID, count int) {
	if u.store == nil {
		return
	}
	if err := u.store.SaveCount(userID, room, count); err != nil {
		// The in-memory count stays correct for this session.
		u.log.Error("Failed to mirror unread count", "user", userID, "room", room, "error", err)
	}
}
