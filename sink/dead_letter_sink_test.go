package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestDeadLetterSink_Appends_Lines(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "nested", "dead_letters.jsonl")
	sink := NewDeadLetterSink(path, slog.Default())

	first := domain.NewDeliveryEvent(domain.Fragment{Sender: lo.ToPtr("+201"), Body: "Hel"}, domain.Fragment{Body: "lo"})
	second := domain.NewDeliveryEvent(domain.Fragment{Sender: lo.ToPtr("+201"), Body: "OTP 123"})

	req.NoError(sink.Consume(context.Background(), first, errors.ErrStorageUnavailable))
	req.NoError(sink.Consume(context.Background(), second, errors.ErrStorageUnavailable))

	f, err := os.Open(path)
	req.NoError(err)
	defer f.Close()

	var letters []DeadLetter
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var letter DeadLetter
		req.NoError(json.Unmarshal(scanner.Bytes(), &letter))
		letters = append(letters, letter)
	}
	req.NoError(scanner.Err())

	req.Len(letters, 2)
	req.Equal(first.ID, letters[0].Event.ID)
	req.Len(letters[0].Event.Fragments, 2)
	req.Nil(letters[0].Event.Fragments[1].Sender)
	req.Equal("+201", *letters[0].Event.Fragments[0].Sender)
	req.Equal(errors.ErrStorageUnavailable.Error(), letters[1].Cause)
}
