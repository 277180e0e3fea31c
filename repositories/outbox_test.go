package repositories

import (
	"context"
	"log/slog"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestOutbox_Pending_In_Arrival_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	outbox := NewOutbox(openInMemoryDB(t), slog.Default())
	at := time.Now()
	outbox.now = func() time.Time {
		at = at.Add(time.Millisecond)
		return at
	}

	bodies := []string{"first", "second", "third"}
	for _, body := range bodies {
		req.NoError(outbox.Forward(ctx, domain.InboundMessage{Sender: "+201", Body: body, ReceivingIdentity: "+202"}))
	}

	entries, err := outbox.Pending(ctx, 10)
	req.NoError(err)
	req.Len(entries, 3)
	for i, entry := range entries {
		req.Equal(bodies[i], entry.Message.Body)
		req.Equal(0, entry.Attempts)
	}

	limited, err := outbox.Pending(ctx, 2)
	req.NoError(err)
	req.Len(limited, 2)
	req.Equal("first", limited[0].Message.Body)
}

func TestOutbox_Ack_Removes_Entry(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	outbox := NewOutbox(openInMemoryDB(t), slog.Default())

	entry, err := outbox.Enqueue(ctx, domain.InboundMessage{Sender: "+201", Body: "OTP 123", ReceivingIdentity: "+202"})
	req.NoError(err)
	req.NoError(outbox.Ack(ctx, entry))

	entries, err := outbox.Pending(ctx, 10)
	req.NoError(err)
	req.Empty(entries)
}

func TestOutbox_Nack_Counts_Attempts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	outbox := NewOutbox(openInMemoryDB(t), slog.Default())

	entry, err := outbox.Enqueue(ctx, domain.InboundMessage{Sender: "+201", Body: "OTP 123", ReceivingIdentity: "+202"})
	req.NoError(err)
	req.NoError(outbox.Nack(ctx, entry))

	entries, err := outbox.Pending(ctx, 10)
	req.NoError(err)
	req.Len(entries, 1)
	req.Equal(entry.ID, entries[0].ID)
	req.Equal(entry.Key, entries[0].Key)
	req.Equal(1, entries[0].Attempts)
	req.Equal(entry.Message, entries[0].Message)
}

func TestOutbox_ForwardAndRecord_Commits_Entry_And_Record(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openInMemoryDB(t)
	outbox := NewOutbox(db, slog.Default())
	store := NewRecordStore(db, slog.Default())
	message := domain.InboundMessage{Sender: "+201", Body: "caf\xe9", ReceivingIdentity: "+202"}

	req.NoError(outbox.ForwardAndRecord(ctx, message))

	entries, err := outbox.Pending(ctx, 10)
	req.NoError(err)
	req.Len(entries, 1)
	req.Equal(message, entries[0].Message)
	req.Equal(0, entries[0].Attempts)

	record, found, err := store.Get(ctx, domain.SlotLastForwarded)
	req.NoError(err)
	req.True(found)
	req.Equal(message, record)
}

func TestOutbox_ForwardAndRecord_Closed_DB_Surfaces_Storage_Error(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	req.NoError(err)
	outbox := NewOutbox(db, slog.Default())
	req.NoError(db.Close())

	err = outbox.ForwardAndRecord(context.Background(), domain.InboundMessage{Sender: "+201"})
	req.ErrorIs(err, errors.ErrStorageUnavailable)
}
