package runtime

import (
	"context"
	"log/slog"
	"sms-forwarder/domain"
	"sms-forwarder/mocks"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLineEventSource_Pump(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	orchestrator := mocks.NewMockIOrchestrator(ctrl)

	input := strings.Join([]string{
		`{"fragments":[{"sender":"+1555","body":"Hel"},{"sender":"+1555","body":"lo"}]}`,
		``,
		`not json`,
		`{"fragments":[{"sender":null,"body":"A"},{"sender":"+1555","body":"B"}]}`,
	}, "\n")

	var submitted []domain.DeliveryEvent
	orchestrator.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt domain.DeliveryEvent) error {
			submitted = append(submitted, evt)
			return nil
		}).Times(2)

	count, err := NewLineEventSource(slog.Default(), strings.NewReader(input)).
		Pump(context.Background(), orchestrator)

	req.NoError(err)
	req.Equal(2, count)
	req.Len(submitted[0].Fragments, 2)
	req.Equal("+1555", *submitted[0].Fragments[0].Sender)
	req.Equal("lo", submitted[0].Fragments[1].Body)
	req.Nil(submitted[1].Fragments[0].Sender)
	req.NotEqual(uuid.Nil, submitted[1].ID)
	req.False(submitted[1].ReceivedAt.IsZero())

	// Normalization still happens in the pipeline
	msg := domain.NewInboundMessage(submitted[1].Fragments, "+202")
	req.Equal(domain.InboundMessage{Sender: "+1555", Body: "AB", ReceivingIdentity: "+202"}, msg)
}

func TestLineEventSource_Skips_Oversized_Lines(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	orchestrator := mocks.NewMockIOrchestrator(ctrl)

	oversized := `{"fragments":[{"sender":"+1555","body":"` + strings.Repeat("x", maxLineSize) + `"}]}`
	input := strings.Join([]string{
		`{"fragments":[{"sender":"+1555","body":"before"}]}`,
		oversized,
		`{"fragments":[{"sender":"+1555","body":"after"}]}`,
		oversized,
	}, "\n")

	var bodies []string
	orchestrator.EXPECT().Submit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt domain.DeliveryEvent) error {
			bodies = append(bodies, evt.Fragments[0].Body)
			return nil
		}).Times(2)

	count, err := NewLineEventSource(slog.Default(), strings.NewReader(input)).
		Pump(context.Background(), orchestrator)

	// The source keeps reading past both oversized lines
	req.NoError(err)
	req.Equal(2, count)
	req.Equal([]string{"before", "after"}, bodies)
}
