package event

import (
	"time"

	"creator-chat/domain"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

// MessageDelivered is a message that passed dedup and moderation and is
// being fanned out. An empty Target means every live member connection of
// the room; a set Target restricts delivery to that user's connections,
// which is how queue flushes replay without re-broadcasting.
type MessageDelivered struct {
	Message  domain.Message
	Target   string
	Language string // ISO 639-1 tag from moderation, "" when undetected
	Censored bool
}

func (e MessageDelivered) RoomID() domain.RoomID { return e.Message.Room }

// MessageQueued is emitted when a recipient has no live membership and
// the message went to the offline queue instead.
type MessageQueued struct {
	Pending domain.PendingMessage
}

func (e MessageQueued) RoomID() domain.RoomID { return e.Pending.Room }

// ChatAutoCreated notifies a recipient that a first message from a
// stranger synthesized a direct room on their behalf.
type ChatAutoCreated struct {
	Room          domain.RoomID
	TargetUserID  string
	PeerUserID    string
	PeerUserName  string
	SeededMessage domain.Message
	InitialUnread int
}

func (e ChatAutoCreated) RoomID() domain.RoomID { return e.Room }

// PresenceChanged is advisory. Delivery is never gated on it.
type PresenceChanged struct {
	UserID   string
	UserName string
	Online   bool
	At       time.Time
}

func (e PresenceChanged) RoomID() domain.RoomID { return "" }

// TypingChanged reports a typing start, refresh or stop for one
// (room, user) pair.
type TypingChanged struct {
	Room     domain.RoomID
	UserID   string
	UserName string
	Typing   bool
}

func (e TypingChanged) RoomID() domain.RoomID { return e.Room }

// UnreadChanged carries the new unread count after an increment, reset
// or reconcile merge.
type UnreadChanged struct {
	Room   domain.RoomID
	UserID string
	Count  int
}

func (e UnreadChanged) RoomID() domain.RoomID { return e.Room }

// ViewerCount reports the live member count of a stream room.
type ViewerCount struct {
	Room  domain.RoomID
	Count int
}

func (e ViewerCount) RoomID() domain.RoomID { return e.Room }
