// Package domain contains core concepts of the messaging system.
// This file defines Message events and related rules.
// Messages are immutable once created; the client-generated ID is the
// sole deduplication key across every delivery path.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event.
type Message struct {
	ID         string // client-generated, globally unique
	Room       RoomID
	SenderID   string
	SenderName string
	Content    string
	CreatedAt  time.Time
}

// NewMessage builds a message with a fresh id for server-originated
// messages (system notices, auto-created chat seeds). Client messages
// keep the id the client assigned.
func NewMessage(room RoomID, senderID, senderName, content string) Message {
	return Message{
		ID:         uuid.NewString(),
		Room:       room,
		SenderID:   senderID,
		SenderName: senderName,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}

// PendingMessage is an offline-queue entry: a message plus the recipient
// it is being held for. It must be delivered at most once, on the
// recipient's next join.
type PendingMessage struct {
	Message
	Recipient string
	QueuedAt  time.Time
}
