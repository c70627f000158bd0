package runtime

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"creator-chat/domain"
)

func TestTypingLabel(t *testing.T) {
	states := func(names ...string) []domain.TypingState {
		var res []domain.TypingState
		for _, n := range names {
			res = append(res, domain.TypingState{UserName: n})
		}
		return res
	}

	tests := []struct {
		description string
		states      []domain.TypingState
		expected    string
	}{
		{"No typist renders nothing", states(), ""},
		{"One typist", states("Alice"), "Alice is typing..."},
		{"Two typists", states("Alice", "Bob"), "Alice and Bob are typing..."},
		{"Three typists collapse to a count", states("Alice", "Bob", "Clara"), "Alice and 2 others are typing..."},
		{"Five typists", states("Alice", "Bob", "Clara", "Dan", "Eve"), "Alice and 4 others are typing..."},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			require.Equal(t, tt.expected, TypingLabel(tt.states))
		})
	}
}

func TestTypingTracker_FreshVersusRefresh(t *testing.T) {
	req := require.New(t)
	tracker := NewTypingTracker(slog.Default(), time.Minute, nil)
	room := domain.RoomID("community_general")

	// Given a first keystroke
	req.True(tracker.SetTyping(room, "u1", "Alice"))
	// Then further keystrokes only refresh the entry
	req.False(tracker.SetTyping(room, "u1", "Alice"))

	req.Len(tracker.Typists(room), 1)
}

func TestTypingTracker_ExplicitStopBeatsTheTimer(t *testing.T) {
	req := require.New(t)

	var mu sync.Mutex
	expired := 0
	tracker := NewTypingTracker(slog.Default(), 50*time.Millisecond,
		func(room domain.RoomID, userID, userName string) {
			mu.Lock()
			expired++
			mu.Unlock()
		})
	room := domain.RoomID("community_general")

	tracker.SetTyping(room, "u1", "Alice")
	req.True(tracker.ClearTyping(room, "u1"))
	// Clearing twice reports nothing to stop
	req.False(tracker.ClearTyping(room, "u1"))

	// Then no expiry callback fires for the cancelled timer
	time.Sleep(120 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	req.Zero(expired)
}

func TestTypingTracker_ExpiresWithoutStopSignal(t *testing.T) {
	req := require.New(t)

	done := make(chan string, 1)
	tracker := NewTypingTracker(slog.Default(), 50*time.Millisecond,
		func(room domain.RoomID, userID, userName string) {
			done <- userID
		})
	room := domain.RoomID("community_general")

	// Given a typist whose stop signal is lost
	tracker.SetTyping(room, "u1", "Alice")

	// Then the receiver-side expiry clears the state on its own
	select {
	case userID := <-done:
		req.Equal("u1", userID)
	case <-time.After(time.Second):
		req.Fail("Typing entry never expired")
	}
	req.Empty(tracker.Typists(room))
}

func TestTypingTracker_RefreshPostponesExpiry(t *testing.T) {
	req := require.New(t)

	done := make(chan struct{}, 1)
	tracker := NewTypingTracker(slog.Default(), 80*time.Millisecond,
		func(room domain.RoomID, userID, userName string) {
			done <- struct{}{}
		})
	room := domain.RoomID("community_general")

	tracker.SetTyping(room, "u1", "Alice")
	// Keystrokes keep arriving faster than the expiry window
	for i := 0; i < 3; i++ {
		time.Sleep(40 * time.Millisecond)
		tracker.SetTyping(room, "u1", "Alice")
		select {
		case <-done:
			req.Fail("Entry expired despite refreshes")
		default:
		}
	}

	// Once the keystrokes stop, expiry fires
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Typing entry never expired after refreshes stopped")
	}
}

func TestTypingTracker_ClearUserSpansRooms(t *testing.T) {
	req := require.New(t)
	tracker := NewTypingTracker(slog.Default(), time.Minute, nil)

	tracker.SetTyping("community_general", "u1", "Alice")
	tracker.SetTyping("community_deals", "u1", "Alice")
	tracker.SetTyping("community_general", "u2", "Bob")

	cleared := tracker.ClearUser("u1")
	req.Len(cleared, 2)
	req.Len(tracker.Typists("community_general"), 1)
	req.Empty(tracker.Typists("community_deals"))
}

func TestTypingTracker_TypistsOrderedByStart(t *testing.T) {
	req := require.New(t)
	tracker := NewTypingTracker(slog.Default(), time.Minute, nil)
	room := domain.RoomID("community_general")

	tracker.SetTyping(room, "u1", "Alice")
	time.Sleep(5 * time.Millisecond)
	tracker.SetTyping(room, "u2", "Bob")
	time.Sleep(5 * time.Millisecond)
	// Alice keeps typing; a refresh must not push her behind Bob
	tracker.SetTyping(room, "u1", "Alice")

	typists := tracker.Typists(room)
	req.Len(typists, 2)
	req.Equal("Alice", typists[0].UserName)
	req.Equal("Bob", typists[1].UserName)
	req.Equal("Alice and Bob are typing...", TypingLabel(typists))
}
