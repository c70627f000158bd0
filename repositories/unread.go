package repositories

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"creator-chat/domain"
)

// UnreadRepository mirrors the per-user unread counters under keys of
// the form "unread:{user}:{room}". Values are plain decimal counts; a
// zero count deletes the key so LoadCounts only returns live badges.
type UnreadRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUnreadRepository(db *badger.DB, log *slog.Logger) UnreadRepository {
	return UnreadRepository{db: db, log: log}
}

func (u UnreadRepository) SaveCount(userID string, room domain.RoomID, count int) error {
	key := []byte(fmt.Sprintf("unread:%s:%s", userID, room))
	return u.db.Update(func(txn *badger.Txn) error {
		if count == 0 {
			err := txn.Delete(key)
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return txn.Set(key, []byte(strconv.Itoa(count)))
	})
}

func (u UnreadRepository) LoadCounts(userID string) (map[domain.RoomID]int, error) {
	counts := make(map[domain.RoomID]int)
	err := u.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("unread:%s:", userID)
		prefix := []byte(prefixStr)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			room := domain.RoomID(item.Key()[len(prefixStr):])
			err := item.Value(func(value []byte) error {
				count, err := strconv.Atoi(string(value))
				if err != nil {
					// A corrupt counter is not worth failing a session over.
					u.log.Warn("Skipping unreadable unread counter", "user", userID, "room", room)
					return nil
				}
				counts[room] = count
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
