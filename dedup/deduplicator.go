//go:generate go run go.uber.org/mock/mockgen -source=deduplicator.go -destination=../mocks/mock_deduplicator.go -package=mocks
package dedup

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"sms-forwarder/repositories"
)

type IDeduplicator interface {
	IsDuplicate(ctx context.Context, candidate domain.InboundMessage) (bool, error)
}

// Deduplicator compares a candidate with the single last forwarded record.
// There is no time window and no history: a message equal to the one
// forwarded two events ago is not a duplicate once another message went out in between.
type Deduplicator struct {
	log   *slog.Logger
	store repositories.IRecordStore
}

func NewDeduplicator(log *slog.Logger, store repositories.IRecordStore) Deduplicator {
	return Deduplicator{log: log, store: store}
}

// IsDuplicate treats an unreadable last forwarded record as absent.
// The next forward overwrites it.
func (d Deduplicator) IsDuplicate(ctx context.Context, candidate domain.InboundMessage) (bool, error) {
	last, found, err := d.store.Get(ctx, domain.SlotLastForwarded)
	if stderrors.Is(err, errors.ErrRecordCorrupted) {
		d.log.Warn("Last forwarded record is corrupted, comparing against nothing", "error", err)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return candidate.SameAs(last), nil
}
