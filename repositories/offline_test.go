package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"creator-chat/domain"
)

func pendingFor(recipient string, content string, queuedAt time.Time) domain.PendingMessage {
	return domain.PendingMessage{
		Message: domain.Message{
			ID:         uuid.NewString(),
			Room:       domain.DirectRoomID("u1", recipient),
			SenderID:   "u1",
			SenderName: "Alice",
			Content:    content,
			CreatedAt:  queuedAt,
		},
		Recipient: recipient,
		QueuedAt:  queuedAt,
	}
}

func Test_Pending_Survives_Load_Until_Deleted(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewPendingRepository(db, slog.Default())
	at := time.Now().UTC().Truncate(time.Millisecond)
	first := pendingFor("u2", "are you there?", at)
	second := pendingFor("u2", "ping me back", at.Add(time.Second))
	req.NoError(repository.StorePending(first))
	req.NoError(repository.StorePending(second))

	// When loading twice without deleting
	loaded, err := repository.LoadPending("u2")
	req.NoError(err)
	reloaded, err := repository.LoadPending("u2")
	req.NoError(err)

	// Then the backlog is intact and in arrival order both times
	req.Equal([]domain.PendingMessage{first, second}, loaded)
	req.Equal(loaded, reloaded)
}

func Test_Delete_Only_Flushed_Ids(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewPendingRepository(db, slog.Default())
	at := time.Now().UTC().Truncate(time.Millisecond)
	first := pendingFor("u2", "first", at)
	second := pendingFor("u2", "second", at.Add(time.Second))
	req.NoError(repository.StorePending(first))
	req.NoError(repository.StorePending(second))

	req.NoError(repository.DeletePending("u2", []string{first.Message.ID, "unknown-id"}))

	remaining, err := repository.LoadPending("u2")
	req.NoError(err)
	req.Equal([]domain.PendingMessage{second}, remaining)
}

func Test_Pending_Backlogs_Are_Per_Recipient(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewPendingRepository(db, slog.Default())
	at := time.Now().UTC().Truncate(time.Millisecond)
	req.NoError(repository.StorePending(pendingFor("u2", "for u2", at)))
	req.NoError(repository.StorePending(pendingFor("u3", "for u3", at)))

	loaded, err := repository.LoadPending("u2")
	req.NoError(err)
	req.Len(loaded, 1)
	req.Equal("for u2", loaded[0].Message.Content)

	req.NoError(repository.DeletePending("u2", []string{loaded[0].Message.ID}))
	otherBacklog, err := repository.LoadPending("u3")
	req.NoError(err)
	req.Len(otherBacklog, 1)
}
