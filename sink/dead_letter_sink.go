package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
	"sync"
	"time"
)

var _ contract.ErrorSink = (*DeadLetterSink)(nil)

// DeadLetter is one line of the dead letter file.
type DeadLetter struct {
	Event    domain.DeliveryEvent `json:"event"`
	Cause    string               `json:"cause"`
	FailedAt time.Time            `json:"failed_at"`
}

// DeadLetterSink appends unresolved events to a JSON lines file.
// It does not depend on badger, which is usually the reason events end up here.
type DeadLetterSink struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
}

func NewDeadLetterSink(path string, log *slog.Logger) *DeadLetterSink {
	return &DeadLetterSink{path: path, log: log}
}

func (d *DeadLetterSink) Consume(_ context.Context, evt domain.DeliveryEvent, cause error) error {
	line, err := json.Marshal(DeadLetter{Event: evt, Cause: fmt.Sprint(cause), FailedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err = os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("cannot create dead letter directory: %w", err)
	}
	f, err := os.OpenFile(d.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = f.Write(append(line, '\n')); err != nil {
		return err
	}
	d.log.Debug("Dead letter written", "id", evt.ID, "path", d.path)
	return f.Sync()
}
