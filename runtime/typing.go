package runtime

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"creator-chat/domain"
)

// TypingExpiry is the receiver-side safety net: a typing entry with no
// stop signal is expired locally after this long, which defends against
// lost stop events. Senders emit their own explicit stop earlier.
const TypingExpiry = 3 * time.Second

type typingEntry struct {
	userName    string
	startedAt   time.Time
	refreshedAt time.Time
	timer       *time.Timer
}

// TypingTracker holds the per-room, per-user ephemeral typing state.
// Transitions are IDLE -> TYPING on a start signal or keystroke and back
// to IDLE on an explicit stop or on expiry, whichever comes first.
// Every active entry owns exactly one timer; refreshing or clearing the
// entry resets or cancels it so no timer ever fires into a stale context.
type TypingTracker struct {
	mu       sync.Mutex
	log      *slog.Logger
	expiry   time.Duration
	entries  map[domain.RoomID]map[string]*typingEntry
	onExpire func(room domain.RoomID, userID, userName string)
}

// NewTypingTracker builds a tracker. onExpire runs outside the lock when
// an entry times out without an explicit stop; it may be nil.
func NewTypingTracker(log *slog.Logger, expiry time.Duration,
	onExpire func(room domain.RoomID, userID, userName string)) *TypingTracker {
	if expiry <= 0 {
		expiry = TypingExpiry
	}
	return &TypingTracker{
		log:      log,
		expiry:   expiry,
		entries:  make(map[domain.RoomID]map[string]*typingEntry),
		onExpire: onExpire,
	}
}

// SetTyping marks the user as typing and restarts their expiry timer.
// It returns true when this is a fresh IDLE -> TYPING transition rather
// than a refresh of an already typing user.
func (t *TypingTracker) SetTyping(room domain.RoomID, userID, userName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[room]; !ok {
		t.entries[room] = make(map[string]*typingEntry)
	}
	if entry, ok := t.entries[room][userID]; ok {
		entry.timer.Reset(t.expiry)
		entry.userName = userName
		entry.refreshedAt = time.Now()
		return false
	}

	now := time.Now()
	entry := &typingEntry{userName: userName, startedAt: now, refreshedAt: now}
	entry.timer = time.AfterFunc(t.expiry, func() { t.expire(room, userID) })
	t.entries[room][userID] = entry
	return true
}

// ClearTyping removes the entry immediately and cancels its timer.
// It returns false when the user was not typing, so callers can skip
// emitting a redundant stop event.
func (t *TypingTracker) ClearTyping(room domain.RoomID, userID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remove(room, userID)
}

// ClearUser drops the user's typing state in every room, used on
// disconnect so no indicator outlives its connection.
func (t *TypingTracker) ClearUser(userID string) []domain.RoomID {
	t.mu.Lock()
	defer t.mu.Unlock()

	var cleared []domain.RoomID
	for room := range t.entries {
		if t.remove(room, userID) {
			cleared = append(cleared, room)
		}
	}
	return cleared
}

// StopAll cancels every outstanding timer. Called on engine shutdown so
// no expiry callback fires into a torn-down pipeline.
func (t *TypingTracker) StopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for room, users := range t.entries {
		for userID := range users {
			users[userID].timer.Stop()
		}
		delete(t.entries, room)
	}
}

// CloseRoom cancels every timer of a room on teardown.
func (t *TypingTracker) CloseRoom(room domain.RoomID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for userID := range t.entries[room] {
		t.remove(room, userID)
	}
}

// Typists returns the active typing states of a room ordered by when each
// user started typing, so labels render stably.
func (t *TypingTracker) Typists(room domain.RoomID) []domain.TypingState {
	t.mu.Lock()
	defer t.mu.Unlock()

	type keyed struct {
		state   domain.TypingState
		started time.Time
	}
	var all []keyed
	for userID, entry := range t.entries[room] {
		all = append(all, keyed{
			started: entry.startedAt,
			state: domain.TypingState{
				Room:      room,
				UserID:    userID,
				UserName:  entry.userName,
				ExpiresAt: entry.refreshedAt.Add(t.expiry),
			},
		})
	}
	// Insertion sort by start time, the slice is tiny.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].started.Before(all[j-1].started); j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	states := make([]domain.TypingState, 0, len(all))
	for _, k := range all {
		states = append(states, k.state)
	}
	return states
}

func (t *TypingTracker) expire(room domain.RoomID, userID string) {
	t.mu.Lock()
	entry, ok := t.entries[room][userID]
	if ok {
		delete(t.entries[room], userID)
		if len(t.entries[room]) == 0 {
			delete(t.entries, room)
		}
	}
	t.mu.Unlock()

	if !ok {
		// Explicit clear raced the timer; the stop was already handled.
		return
	}
	t.log.Debug(fmt.Sprintf("Typing state expired for %s in %s", userID, room))
	if t.onExpire != nil {
		t.onExpire(room, userID, entry.userName)
	}
}

// remove must be called with the lock held.
func (t *TypingTracker) remove(room domain.RoomID, userID string) bool {
	entry, ok := t.entries[room][userID]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(t.entries[room], userID)
	if len(t.entries[room]) == 0 {
		delete(t.entries, room)
	}
	return true
}

// TypingLabel renders the indicator shown to other room members.
func TypingLabel(states []domain.TypingState) string {
	switch len(states) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s is typing...", states[0].UserName)
	case 2:
		return fmt.Sprintf("%s and %s are typing...", states[0].UserName, states[1].UserName)
	default:
		return fmt.Sprintf("%s and %d others are typing...", states[0].UserName, len(states)-1)
	}
}
