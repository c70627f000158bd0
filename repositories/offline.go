package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"

	"creator-chat/domain"
)

// PendingRepository mirrors the in-memory offline queue to BadgerDB so a
// restart does not drop messages queued for offline recipients.
//
// The key "pending:{recipient}:{queued_at_padded}:{message_id}" keeps a
// recipient's backlog in arrival order under a single prefix.
type PendingRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewPendingRepository(db *badger.DB, log *slog.Logger) PendingRepository {
	return PendingRepository{db: db, log: log}
}

type diskPending struct {
	Message  diskMessage `json:"message"`
	QueuedAt int64       `json:"queued_at"`
}

func (p PendingRepository) StorePending(pending domain.PendingMessage) error {
	key := pendingKey(pending.Recipient, pending.QueuedAt.UnixNano(), pending.Message.ID)
	bytes, err := json.Marshal(diskPending{
		Message:  fromMessage(pending.Message),
		QueuedAt: pending.QueuedAt.UnixNano(),
	})
	if err != nil {
		return err
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, bytes)
	})
}

// LoadPending returns the recipient's backlog in arrival order without
// consuming it. Deletion is a separate step, once delivery is handed off.
func (p PendingRepository) LoadPending(recipient string) ([]domain.PendingMessage, error) {
	var pendings []domain.PendingMessage
	err := p.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("pending:%s:", recipient))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var dp diskPending
				if err := json.Unmarshal(value, &dp); err != nil {
					return err
				}
				pendings = append(pendings, toPending(recipient, dp))
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
	return pendings, nil
}

// DeletePending removes the entries whose message ids were flushed. Ids
// that are no longer present are ignored.
func (p PendingRepository) DeletePending(recipient string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	flushed := lo.SliceToMap(ids, func(id string) (string, struct{}) {
		return id, struct{}{}
	})
	return p.db.Update(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("pending:%s:", recipient))
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var doomed [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			// The message id is the last key segment, after the padded timestamp.
			if _, hit := flushed[pendingID(key, len(prefix))]; hit {
				doomed = append(doomed, key)
			}
		}
		for _, key := range doomed {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func pendingKey(recipient string, queuedAt int64, id string) []byte {
	return []byte(fmt.Sprintf("pending:%s:%019d:%s", recipient, queuedAt, id))
}

// pendingID extracts the message id segment from a pending key.
func pendingID(key []byte, prefixLen int) string {
	rest := string(key[prefixLen:])
	// rest is "{19 digit timestamp}:{id}"
	if len(rest) <= 20 {
		return ""
	}
	return rest[20:]
}

func toPending(recipient string, dp diskPending) domain.PendingMessage {
	return domain.PendingMessage{
		Message:   toMessage(dp.Message),
		Recipient: recipient,
		QueuedAt:  time.Unix(0, dp.QueuedAt).UTC(),
	}
}
