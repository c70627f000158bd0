package domain

import (
	"time"
)

type Command interface {
	RoomID() RoomID
}

// SendMessageCommand carries one message sending intent into the engine.
// TargetUserID is set for direct messages so the dispatcher can resolve
// or auto-create the shared room.
type SendMessageCommand struct {
	Message      Message
	TargetUserID string
}

func (c SendMessageCommand) RoomID() RoomID { return c.Message.Room }

// JoinRoomCommand subscribes a user to a room. Idempotent.
type JoinRoomCommand struct {
	Room         RoomID
	UserID       string
	UserName     string
	ConnectionID string
}

func (c JoinRoomCommand) RoomID() RoomID { return c.Room }

// LeaveRoomCommand unsubscribes a user from a room. Idempotent.
type LeaveRoomCommand struct {
	Room         RoomID
	UserID       string
	ConnectionID string
}

func (c LeaveRoomCommand) RoomID() RoomID { return c.Room }

// ActivateRoomCommand marks the room the user is currently viewing.
// Activation resets the unread counter for that room.
type ActivateRoomCommand struct {
	Room   RoomID
	UserID string
}

func (c ActivateRoomCommand) RoomID() RoomID { return c.Room }

// TypingCommand signals a typing start (refresh) or explicit stop.
type TypingCommand struct {
	Room     RoomID
	UserID   string
	UserName string
	Stop     bool
}

func (c TypingCommand) RoomID() RoomID { return c.Room }

// CreateRoomCommand explicitly creates a community or stream room.
// Direct rooms never use it, they are created lazily.
type CreateRoomCommand struct {
	Room RoomID
	Kind RoomKind
}

func (c CreateRoomCommand) RoomID() RoomID { return c.Room }

// CloseRoomCommand tears a stream room down when the broadcaster stops.
type CloseRoomCommand struct {
	Room RoomID
}

func (c CloseRoomCommand) RoomID() RoomID { return c.Room }

// GetMessageCommand fetches a page of room history.
type GetMessageCommand struct {
	Room   RoomID
	Cursor *string
}

func (c GetMessageCommand) RoomID() RoomID { return c.Room }

// SessionStartedCommand runs the reconnect work for a freshly
// authenticated connection: unread reconciliation and synthesis of
// conversations that piled up while the user was away.
type SessionStartedCommand struct {
	ConnectionID string
	UserID       string
	UserName     string
	First        bool // first live connection of this user
}

func (c SessionStartedCommand) RoomID() RoomID { return "" }

// DisconnectCommand tears down all state scoped to one connection.
type DisconnectCommand struct {
	ConnectionID string
	UserID       string
	UserName     string
	Last         bool // no live connection left for this user
	At           time.Time
}

func (c DisconnectCommand) RoomID() RoomID { return "" }
