//go:generate go run go.uber.org/mock/mockgen -source=record_store.go -destination=../mocks/mock_record_store.go -package=mocks
package repositories

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sms-forwarder/domain"
	"sms-forwarder/errors"

	"github.com/dgraph-io/badger/v4"
)

const recordPrefix = "record:"

type IRecordStore interface {
	Get(ctx context.Context, slot domain.Slot) (domain.Record, bool, error)
	Set(ctx context.Context, slot domain.Slot, record domain.Record) error
	Delete(ctx context.Context, slot domain.Slot) error
}

// RecordStore is a last-value cache: one badger key per Slot, overwritten on every Set.
type RecordStore struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRecordStore(db *badger.DB, log *slog.Logger) *RecordStore {
	return &RecordStore{db: db, log: log}
}

func RecordKey(slot domain.Slot) []byte {
	return []byte(recordPrefix + string(slot))
}

// Get returns found=false without error when the slot was never written.
func (r *RecordStore) Get(ctx context.Context, slot domain.Slot) (domain.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, false, err
	}
	var raw []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(RecordKey(slot))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Record{}, false, nil
	}
	if err != nil {
		return domain.Record{}, false, fmt.Errorf("%w: read %s: %v", errors.ErrStorageUnavailable, slot, err)
	}
	record, err := UnmarshalRecord(raw)
	if err != nil {
		return domain.Record{}, false, fmt.Errorf("%s: %w", slot, err)
	}
	return record, true, nil
}

func (r *RecordStore) Set(ctx context.Context, slot domain.Slot, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(RecordKey(slot), MarshalRecord(record))
	})
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", errors.ErrStorageUnavailable, slot, err)
	}
	r.log.Debug("Record stored", "slot", slot, "sender", record.Sender)
	return nil
}

func (r *RecordStore) Delete(ctx context.Context, slot domain.Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(RecordKey(slot))
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", errors.ErrStorageUnavailable, slot, err)
	}
	return nil
}
