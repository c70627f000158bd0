// Package repositories holds the BadgerDB-backed durable stores: room
// history, the offline queue mirror and the unread counters.
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"creator-chat/domain"
)

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// diskMessage is the stored shape; the timestamp travels as UnixNano so
// the value round-trips without timezone surprises.
type diskMessage struct {
	ID         string `json:"id"`
	Room       string `json:"room"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	At         int64  `json:"at"`
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{room_id}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the message id as a collision disconnector
//     if two messages arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.Room,
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages retrieves messages for a specific room using a reverse
// prefix scan, newest first. Thanks to the padded timestamp in the key,
// messages are naturally sorted by time. It stops collecting messages
// once the configured limitMessages is reached and returns the cursor of
// the last collected key for the next page.
func (m MessageRepository) GetMessages(room domain.RoomID, cursor *string) ([]domain.Message, *string, error) {
	var byteMessages [][]byte
	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", room)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible key, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				byteMessages = append(byteMessages, value)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, b := range byteMessages {
		var dm diskMessage
		if err = json.Unmarshal(b, &dm); err != nil {
			return nil, nil, err
		}
		messages = append(messages, toMessage(dm))
	}
	return messages, &lastKey, nil
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:         message.ID,
		Room:       string(message.Room),
		SenderID:   message.SenderID,
		SenderName: message.SenderName,
		Content:    message.Content,
		At:         message.CreatedAt.UnixNano(),
	}
}

func toMessage(dm diskMessage) domain.Message {
	return domain.Message{
		ID:         dm.ID,
		Room:       domain.RoomID(dm.Room),
		SenderID:   dm.SenderID,
		SenderName: dm.SenderName,
		Content:    dm.Content,
		CreatedAt:  time.Unix(0, dm.At).UTC(),
	}
}
