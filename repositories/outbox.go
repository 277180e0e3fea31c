//go:generate go run go.uber.org/mock/mockgen -source=outbox.go -destination=../mocks/mock_outbox.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const OutboxPrefix = "outbox:"

type IOutbox interface {
	Enqueue(ctx context.Context, message domain.InboundMessage) (domain.OutboxEntry, error)
	Pending(ctx context.Context, limit int) ([]domain.OutboxEntry, error)
	Ack(ctx context.Context, entry domain.OutboxEntry) error
	Nack(ctx context.Context, entry domain.OutboxEntry) error
}

var _ contract.RecordingForwarder = (*Outbox)(nil)

// Outbox keeps forward requests until the transport acknowledges them.
// It also implements contract.RecordingForwarder: forwarding a message means enqueueing it.
type Outbox struct {
	db  *badger.DB
	log *slog.Logger
	now func() time.Time
}

func NewOutbox(db *badger.DB, log *slog.Logger) *Outbox {
	return &Outbox{db: db, log: log, now: time.Now}
}

func (o *Outbox) Forward(ctx context.Context, message domain.InboundMessage) error {
	_, err := o.Enqueue(ctx, message)
	return err
}

// ForwardAndRecord enqueues the message and stores it as the last forwarded
// record in the same transaction: after a crash either both exist or neither.
func (o *Outbox) ForwardAndRecord(ctx context.Context, message domain.InboundMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := o.newEntry(message)
	err := o.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(RecordKey(domain.SlotLastForwarded), MarshalRecord(message)); err != nil {
			return err
		}
		return txn.Set([]byte(entry.Key), marshalOutboxEntry(entry))
	})
	if err != nil {
		return fmt.Errorf("%w: forward %s: %v", errors.ErrStorageUnavailable, entry.ID, err)
	}
	o.log.Debug("Forward request enqueued and recorded", "id", entry.ID, "sender", message.Sender)
	return nil
}

// Enqueue persists a forward request.
func (o *Outbox) Enqueue(ctx context.Context, message domain.InboundMessage) (domain.OutboxEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.OutboxEntry{}, err
	}
	entry := o.newEntry(message)
	if err := o.put(entry); err != nil {
		return domain.OutboxEntry{}, err
	}
	o.log.Debug("Forward request enqueued", "id", entry.ID, "sender", message.Sender)
	return entry, nil
}

// newEntry keys the entry as "outbox:{timestamp_padded}:{uuid}" so that a prefix
// scan returns entries in arrival order, the uuid breaking nanosecond ties.
func (o *Outbox) newEntry(message domain.InboundMessage) domain.OutboxEntry {
	at := o.now().UTC()
	id := uuid.New()
	return domain.OutboxEntry{
		ID:         id,
		Key:        fmt.Sprintf("%s%019d:%s", OutboxPrefix, at.UnixNano(), id),
		Message:    message,
		EnqueuedAt: at,
	}
}

// Pending returns at most limit entries, oldest first.
func (o *Outbox) Pending(ctx context.Context, limit int) ([]domain.OutboxEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []domain.OutboxEntry
	prefix := []byte(OutboxPrefix)
	err := o.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = limit
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(entries) < limit; it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(v []byte) error {
				entry, err := UnmarshalOutboxEntry(key, v)
				if err != nil {
					o.log.Warn("Skipping corrupted outbox entry", "key", key, "error", err)
					return nil
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan outbox: %v", errors.ErrStorageUnavailable, err)
	}
	return entries, nil
}

func (o *Outbox) Ack(ctx context.Context, entry domain.OutboxEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := o.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(entry.Key))
	})
	if err != nil {
		return fmt.Errorf("%w: ack %s: %v", errors.ErrStorageUnavailable, entry.ID, err)
	}
	return nil
}

// Nack keeps the entry at its position and records one more failed attempt.
func (o *Outbox) Nack(ctx context.Context, entry domain.OutboxEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry.Attempts++
	return o.put(entry)
}

func (o *Outbox) put(entry domain.OutboxEntry) error {
	err := o.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(entry.Key), marshalOutboxEntry(entry))
	})
	if err != nil {
		return fmt.Errorf("%w: write outbox %s: %v", errors.ErrStorageUnavailable, entry.ID, err)
	}
	return nil
}

func UnmarshalOutboxEntry(key string, raw []byte) (domain.OutboxEntry, error) {
	fields, err := decodeFields(raw)
	if err != nil {
		return domain.OutboxEntry{}, err
	}
	message, err := fields.record()
	if err != nil {
		return domain.OutboxEntry{}, err
	}
	id, err := uuid.ParseBytes(fields.bytes[fieldID])
	if err != nil {
		return domain.OutboxEntry{}, fmt.Errorf("%w: %v", errors.ErrRecordCorrupted, err)
	}
	return domain.OutboxEntry{
		ID:         id,
		Key:        key,
		Message:    message,
		EnqueuedAt: time.UnixMilli(int64(fields.varints[fieldEnqueuedAt])).UTC(),
		Attempts:   int(fields.varints[fieldAttempts]),
	}, nil
}
