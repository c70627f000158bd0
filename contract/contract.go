//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"creator-chat/domain"
	"creator-chat/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one consumer of fanned-out events, typically a single
// connected socket. Consume must not block past ctx.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry is the connection registry: socket-to-identity bindings and
// advisory presence. Authenticate reports whether this was the user's
// first live connection, Disconnect whether it was the last.
type IRegistry interface {
	Authenticate(connID, userID, userName string, sink EventSink) (bool, error)
	Disconnect(connID string) (domain.Connection, bool)
	IsOnline(userID string) bool
	SinksForUser(userID string) []EventSink
	AllSinks() []EventSink
	OnlineUsers() []domain.Connection
	Connection(connID string) (domain.Connection, bool)
}

// IMembership maintains room membership sets with idempotent join/leave.
type IMembership interface {
	Create(roomID domain.RoomID, kind domain.RoomKind) error
	Join(roomID domain.RoomID, userID string) error
	Leave(roomID domain.RoomID, userID string)
	MembersOf(roomID domain.RoomID) []string
	Kind(roomID domain.RoomID) (domain.RoomKind, bool)
	Close(roomID domain.RoomID)
}

// MessageStore is the persistence collaborator for admitted messages.
type MessageStore interface {
	StoreMessage(message domain.Message) error
	GetMessages(room domain.RoomID, cursor *string) ([]domain.Message, *string, error)
}

// PendingStore mirrors the offline queue to durable storage so queued
// messages survive a restart. LoadPending is non-destructive; entries are
// removed only once their delivery has been handed off.
type PendingStore interface {
	StorePending(pending domain.PendingMessage) error
	LoadPending(recipient string) ([]domain.PendingMessage, error)
	DeletePending(recipient string, ids []string) error
}

// UnreadStore is the durable per-user unread counter mirror.
type UnreadStore interface {
	SaveCount(userID string, room domain.RoomID, count int) error
	LoadCounts(userID string) (map[domain.RoomID]int, error)
}
