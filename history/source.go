// Package history reads messages already present in the platform inbox.
// It is a read path of its own and never touches the pipeline records.
package history

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"sms-forwarder/identity"
	"strconv"

	_ "modernc.org/sqlite"
)

// inboxType is the value of the type column for received messages.
const inboxType = 1

type ISource interface {
	ListHistoricalMessages(ctx context.Context) ([]domain.HistoricalMessage, error)
}

// Source lists the inbox of an SQLite message database laid out like the
// platform one: table sms(address, body, date, type), date in unix millis.
type Source struct {
	path     string
	resolver identity.IResolver
	log      *slog.Logger
}

func NewSource(path string, resolver identity.IResolver, log *slog.Logger) *Source {
	return &Source{path: path, resolver: resolver, log: log}
}

// ListHistoricalMessages returns the inbox newest first.
// No database or no inbox table is an empty history, not an error.
// Failing to open or read an existing database is an error.
func (s *Source) ListHistoricalMessages(ctx context.Context) ([]domain.HistoricalMessage, error) {
	if s.path == "" {
		s.log.Debug("No inbox database configured")
		return []domain.HistoricalMessage{}, nil
	}
	if _, err := os.Stat(s.path); stderrors.Is(err, os.ErrNotExist) {
		s.log.Debug("Inbox database not found", "path", s.path)
		return []domain.HistoricalMessage{}, nil
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", errors.ErrHistoryUnavailable, s.path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	exists, err := inboxExists(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrHistoryUnavailable, err)
	}
	if !exists {
		s.log.Debug("Inbox table not found", "path", s.path)
		return []domain.HistoricalMessage{}, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT address, body, date FROM sms WHERE type = ? ORDER BY date DESC`, inboxType)
	if err != nil {
		return nil, fmt.Errorf("%w: query inbox: %v", errors.ErrHistoryUnavailable, err)
	}
	defer rows.Close()

	receiver := s.resolver.Resolve(ctx)
	messages := []domain.HistoricalMessage{}
	for rows.Next() {
		var address, body sql.NullString
		var date sql.NullInt64
		if err = rows.Scan(&address, &body, &date); err != nil {
			return nil, fmt.Errorf("%w: scan inbox: %v", errors.ErrHistoryUnavailable, err)
		}
		messages = append(messages, domain.HistoricalMessage{
			Sender:       address.String,
			Content:      body.String,
			Receiver:     receiver,
			DateReceived: strconv.FormatInt(date.Int64, 10),
			Status:       domain.HistoryStatusOld,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read inbox: %v", errors.ErrHistoryUnavailable, err)
	}
	s.log.Debug("Inbox listed", "count", len(messages))
	return messages, nil
}

func inboxExists(ctx context.Context, db *sql.DB) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sms'`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
