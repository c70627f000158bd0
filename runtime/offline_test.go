package runtime

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"creator-chat/domain"
	"creator-chat/mocks"
)

func queuedMessage(room domain.RoomID, recipient, content string) domain.PendingMessage {
	return domain.PendingMessage{
		Message: domain.Message{
			ID:         uuid.NewString(),
			Room:       room,
			SenderID:   "u1",
			SenderName: "Alice",
			Content:    content,
			CreatedAt:  time.Now().UTC(),
		},
		Recipient: recipient,
		QueuedAt:  time.Now().UTC(),
	}
}

func TestOfflineQueue_FlushPreservesArrivalOrder(t *testing.T) {
	req := require.New(t)
	queue := NewOfflineQueue(slog.Default(), nil)
	room := domain.DirectRoomID("u1", "u2")

	first := queuedMessage(room, "u2", "first")
	second := queuedMessage(room, "u2", "second")
	third := queuedMessage(room, "u2", "third")
	queue.Enqueue(first)
	queue.Enqueue(second)
	queue.Enqueue(third)

	flushed := queue.Flush("u2", room)
	req.Equal([]domain.PendingMessage{first, second, third}, flushed)

	// A second flush finds nothing left
	req.Empty(queue.Flush("u2", room))
}

func TestOfflineQueue_FlushOnlyTouchesTheJoinedRoom(t *testing.T) {
	req := require.New(t)
	queue := NewOfflineQueue(slog.Default(), nil)

	dm := queuedMessage("dm_u1_u2", "u2", "private")
	other := queuedMessage("dm_u2_u3", "u2", "elsewhere")
	queue.Enqueue(dm)
	queue.Enqueue(other)

	flushed := queue.Flush("u2", "dm_u1_u2")
	req.Equal([]domain.PendingMessage{dm}, flushed)

	// The other room's backlog survives
	remaining := queue.PendingFor("u2")
	req.Len(remaining, 1)
	req.Equal([]domain.PendingMessage{other}, remaining["dm_u2_u3"])
}

func TestOfflineQueue_PendingForIsNonDestructive(t *testing.T) {
	req := require.New(t)
	queue := NewOfflineQueue(slog.Default(), nil)
	room := domain.DirectRoomID("u1", "u2")
	queue.Enqueue(queuedMessage(room, "u2", "hello"))

	req.Len(queue.PendingFor("u2")[room], 1)
	req.Len(queue.PendingFor("u2")[room], 1)
	req.Len(queue.Flush("u2", room), 1)
}

func TestOfflineQueue_MirrorsToTheDurableStore(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockPendingStore(ctrl)
	queue := NewOfflineQueue(slog.Default(), store)
	room := domain.DirectRoomID("u1", "u2")
	pending := queuedMessage(room, "u2", "hello")

	store.EXPECT().StorePending(pending).Return(nil).Times(1)
	queue.Enqueue(pending)

	// Flush reconciles with the mirror and deletes only what it returns
	store.EXPECT().LoadPending("u2").Return([]domain.PendingMessage{pending}, nil).Times(1)
	store.EXPECT().DeletePending("u2", []string{pending.ID}).Return(nil).Times(1)

	flushed := queue.Flush("u2", room)
	req.Equal([]domain.PendingMessage{pending}, flushed)
}

func TestOfflineQueue_MergeDedupesMemoryAgainstMirror(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockPendingStore(ctrl)
	queue := NewOfflineQueue(slog.Default(), store)
	room := domain.DirectRoomID("u1", "u2")

	survivedRestart := queuedMessage(room, "u2", "before the restart")
	freshInMemory := queuedMessage(room, "u2", "after the restart")

	// The fresh message is mirrored on enqueue
	store.EXPECT().StorePending(freshInMemory).Return(nil).Times(1)
	queue.Enqueue(freshInMemory)

	// The mirror holds both: the restart survivor and the fresh copy
	store.EXPECT().LoadPending("u2").
		Return([]domain.PendingMessage{survivedRestart, freshInMemory}, nil).Times(1)
	store.EXPECT().DeletePending("u2", []string{survivedRestart.ID, freshInMemory.ID}).
		Return(nil).Times(1)

	flushed := queue.Flush("u2", room)

	// Then each message flushes exactly once, mirror entries first
	req.Equal([]domain.PendingMessage{survivedRestart, freshInMemory}, flushed)
}
