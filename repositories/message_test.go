package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"creator-chat/domain"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Record_Multiple_Messages(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	room := domain.DirectRoomID("u1", "u2")
	at := time.Now().UTC().Truncate(time.Millisecond)
	stored := []domain.Message{
		{ID: uuid.NewString(), Room: room, SenderID: "u1", SenderName: "Alice", Content: "hello", CreatedAt: at},
		{ID: uuid.NewString(), Room: room, SenderID: "u2", SenderName: "Bob", Content: "hey", CreatedAt: at.Add(1 * time.Minute)},
		{ID: uuid.NewString(), Room: room, SenderID: "u1", SenderName: "Alice", Content: "how are you?", CreatedAt: at.Add(2 * time.Minute)},
	}
	for _, m := range stored {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, _, err := repository.GetMessages(room, nil)
	req.NoError(err)
	req.Len(fetched, len(stored))
	// Newest first.
	req.Equal(stored[2], fetched[0])
	req.Equal(stored[1], fetched[1])
	req.Equal(stored[0], fetched[2])
}

func Test_Get_Messages_With_Limit_And_Cursor(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	room := domain.RoomID("community_best_creators")
	at := time.Now().UTC()
	var stored []domain.Message
	for i := 0; i < 5; i++ {
		m := domain.Message{
			ID:         uuid.NewString(),
			Room:       room,
			SenderID:   "u1",
			SenderName: "Alice",
			Content:    "message",
			CreatedAt:  at.Add(time.Duration(i) * time.Second),
		}
		req.NoError(repository.StoreMessage(m))
		stored = append(stored, m)
	}

	// Given a first page
	firstPage, cursor, err := repository.GetMessages(room, nil)
	req.NoError(err)
	req.Len(firstPage, limit)
	req.Equal(stored[4].ID, firstPage[0].ID)
	req.Equal(stored[3].ID, firstPage[1].ID)
	req.NotNil(cursor)

	// When asking the next page from the cursor
	secondPage, _, err := repository.GetMessages(room, cursor)
	req.NoError(err)

	// Then it resumes right after the last message of the first page
	req.Len(secondPage, limit)
	req.Equal(stored[2].ID, secondPage[0].ID)
	req.Equal(stored[1].ID, secondPage[1].ID)
}

func Test_Rooms_Are_Isolated(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC()
	req.NoError(repository.StoreMessage(domain.Message{
		ID: uuid.NewString(), Room: "dm_u1_u2", SenderID: "u1", Content: "private", CreatedAt: at,
	}))
	req.NoError(repository.StoreMessage(domain.Message{
		ID: uuid.NewString(), Room: "community_general", SenderID: "u1", Content: "public", CreatedAt: at,
	}))

	fetched, _, err := repository.GetMessages("dm_u1_u2", nil)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("private", fetched[0].Content)
}
