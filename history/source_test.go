package history

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"sms-forwarder/identity"
	"testing"

	"github.com/stretchr/testify/require"
)

func newInbox(t *testing.T, statements ...string) string {
	path := filepath.Join(t.TempDir(), "mmssms.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range statements {
		_, err = db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func newResolver() identity.IResolver {
	return identity.NewDeviceResolver(slog.Default(), identity.StaticLine("+202"), nil, "")
}

func TestSource_Lists_Inbox_Newest_First(t *testing.T) {
	req := require.New(t)
	path := newInbox(t,
		`CREATE TABLE sms (_id INTEGER PRIMARY KEY, address TEXT, body TEXT, date INTEGER, type INTEGER)`,
		`INSERT INTO sms (address, body, date, type) VALUES ('+201', 'OTP 123', 1700000000000, 1)`,
		`INSERT INTO sms (address, body, date, type) VALUES ('+301', 'Hello', 1700000005000, 1)`,
		`INSERT INTO sms (address, body, date, type) VALUES ('+401', 'sent by me', 1700000009000, 2)`,
	)

	messages, err := NewSource(path, newResolver(), slog.Default()).ListHistoricalMessages(context.Background())

	req.NoError(err)
	req.Equal([]domain.HistoricalMessage{
		{Sender: "+301", Content: "Hello", Receiver: "+202", DateReceived: "1700000005000", Status: "old"},
		{Sender: "+201", Content: "OTP 123", Receiver: "+202", DateReceived: "1700000000000", Status: "old"},
	}, messages)
}

func TestSource_Empty_History_Is_Not_An_Error(t *testing.T) {
	testCases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"not configured", func(t *testing.T) string { return "" }},
		{"missing database", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.db") }},
		{"no inbox table", func(t *testing.T) string { return newInbox(t, `CREATE TABLE other (id INTEGER)`) }},
		{"empty inbox", func(t *testing.T) string {
			return newInbox(t, `CREATE TABLE sms (address TEXT, body TEXT, date INTEGER, type INTEGER)`)
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)
			messages, err := NewSource(tc.path(t), newResolver(), slog.Default()).
				ListHistoricalMessages(context.Background())
			req.NoError(err)
			req.NotNil(messages)
			req.Empty(messages)
		})
	}
}

func TestSource_Unreadable_Database_Is_An_Error(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "corrupted.db")
	req.NoError(os.WriteFile(path, []byte("this is definitely not an sqlite database file, just text"), 0o600))

	_, err := NewSource(path, newResolver(), slog.Default()).ListHistoricalMessages(context.Background())

	req.ErrorIs(err, errors.ErrHistoryUnavailable)
}
