package runtime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/domain"
	"time"

	"github.com/google/uuid"
)

const maxLineSize = 1024 * 1024

// LineEventSource reads one delivery event per line, as JSON:
//
//	{"fragments":[{"sender":"+1555","body":"Hel"},{"sender":"+1555","body":"lo"}]}
//
// It is the stand-in for the platform broadcast in front of the orchestrator.
type LineEventSource struct {
	log     *slog.Logger
	reader  io.Reader
	maxLine int
}

func NewLineEventSource(log *slog.Logger, reader io.Reader) *LineEventSource {
	return &LineEventSource{log: log, reader: reader, maxLine: maxLineSize}
}

// Pump submits every decoded line and returns at EOF, on context cancellation or on a read error.
// Undecodable lines and lines longer than the limit are logged and skipped.
func (s *LineEventSource) Pump(ctx context.Context, orchestrator contract.IOrchestrator) (int, error) {
	reader := bufio.NewReaderSize(s.reader, s.maxLine)
	submitted := 0
	for {
		line, err := reader.ReadSlice('\n')
		if stderrors.Is(err, bufio.ErrBufferFull) {
			s.log.Warn("Skipping oversized event line", "limit_bytes", s.maxLine)
			if err = skipLine(reader); err != nil {
				return submitted, readError(err)
			}
			continue
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			evt, decodeErr := DecodeEvent(line)
			if decodeErr != nil {
				s.log.Warn("Skipping undecodable event line", "error", decodeErr)
			} else if submitErr := orchestrator.Submit(ctx, evt); submitErr != nil {
				return submitted, submitErr
			} else {
				submitted++
			}
		}
		if err != nil {
			return submitted, readError(err)
		}
	}
}

// skipLine discards the rest of the current line.
func skipLine(reader *bufio.Reader) error {
	for {
		_, err := reader.ReadSlice('\n')
		if !stderrors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}

func readError(err error) error {
	if err == nil || stderrors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("read events: %w", err)
}

func DecodeEvent(line []byte) (domain.DeliveryEvent, error) {
	var evt domain.DeliveryEvent
	if err := json.Unmarshal(line, &evt); err != nil {
		return domain.DeliveryEvent{}, err
	}
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	if evt.ReceivedAt.IsZero() {
		evt.ReceivedAt = time.Now().UTC()
	}
	return evt, nil
}
