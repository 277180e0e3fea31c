package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"sms-forwarder/mocks"
	"sms-forwarder/observability"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestIntakeWorker_Processes_Events_In_Order(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIIntakeService(ctrl)
	errorSink := mocks.NewMockErrorSink(ctrl)

	events := make(chan domain.DeliveryEvent, 3)
	first := domain.NewDeliveryEvent(domain.Fragment{Sender: lo.ToPtr("+201"), Body: "one"})
	second := domain.NewDeliveryEvent(domain.Fragment{Sender: lo.ToPtr("+201"), Body: "two"})
	events <- first
	events <- second
	close(events)

	gomock.InOrder(
		service.EXPECT().OnMessageEvent(gomock.Any(), first.Fragments).Return(domain.Forwarded, nil),
		service.EXPECT().OnMessageEvent(gomock.Any(), second.Fragments).Return(domain.Suppressed, nil),
	)
	errorSink.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	worker := NewIntakeWorker(log, service, events, errorSink,
		observability.NewMonitoringManager(log), 2, time.Millisecond)

	// Then the worker returns once the channel is drained and closed
	req.NoError(worker.Run(context.Background()))
}

func TestIntakeWorker_Retries_Then_Dead_Letters(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIIntakeService(ctrl)
	errorSink := mocks.NewMockErrorSink(ctrl)
	monitoring := observability.NewMonitoringManager(slog.Default())

	evt := domain.NewDeliveryEvent(domain.Fragment{Sender: lo.ToPtr("+201"), Body: "OTP 123"})
	storageErr := fmt.Errorf("%w: closed", errors.ErrStorageUnavailable)

	// Given storage keeps failing: one attempt plus two retries
	service.EXPECT().OnMessageEvent(gomock.Any(), evt.Fragments).Return(domain.Suppressed, storageErr).Times(3)
	errorSink.EXPECT().Consume(gomock.Any(), evt, gomock.Any()).
		DoAndReturn(func(ctx context.Context, e domain.DeliveryEvent, cause error) error {
			req.ErrorIs(cause, errors.ErrStorageUnavailable)
			return nil
		}).Times(1)

	worker := NewIntakeWorker(slog.Default(), service, nil, errorSink, monitoring, 2, time.Millisecond)
	worker.Handle(context.Background(), evt)

	req.Equal(uint64(1), monitoring.GetLatest().DeadLettered)
}

func TestIntakeWorker_Recovers_After_Transient_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIIntakeService(ctrl)
	errorSink := mocks.NewMockErrorSink(ctrl)

	evt := domain.NewDeliveryEvent(domain.Fragment{Sender: lo.ToPtr("+201"), Body: "OTP 123"})
	gomock.InOrder(
		service.EXPECT().OnMessageEvent(gomock.Any(), evt.Fragments).
			Return(domain.Suppressed, fmt.Errorf("%w: busy", errors.ErrStorageUnavailable)),
		service.EXPECT().OnMessageEvent(gomock.Any(), evt.Fragments).Return(domain.Forwarded, nil),
	)
	errorSink.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	worker := NewIntakeWorker(slog.Default(), service, nil, errorSink,
		observability.NewMonitoringManager(slog.Default()), 3, time.Millisecond)
	worker.Handle(context.Background(), evt)
}

func TestIntakeWorker_Drops_Malformed_Event(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIIntakeService(ctrl)
	errorSink := mocks.NewMockErrorSink(ctrl)
	monitoring := observability.NewMonitoringManager(slog.Default())

	// Never reaches the pipeline nor the error sink
	service.EXPECT().OnMessageEvent(gomock.Any(), gomock.Any()).Times(0)
	errorSink.EXPECT().Consume(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	worker := NewIntakeWorker(slog.Default(), service, nil, errorSink, monitoring, 3, time.Millisecond)
	worker.Handle(context.Background(), domain.NewDeliveryEvent())

	req.Equal(uint64(1), monitoring.GetLatest().Malformed)
}

func TestIntakeWorker_Canceled_During_Retry_Still_Dead_Letters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	service := mocks.NewMockIIntakeService(ctrl)
	errorSink := mocks.NewMockErrorSink(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	evt := domain.NewDeliveryEvent(domain.Fragment{Sender: lo.ToPtr("+201"), Body: "OTP 123"})

	service.EXPECT().OnMessageEvent(gomock.Any(), evt.Fragments).
		DoAndReturn(func(context.Context, []domain.Fragment) (domain.Outcome, error) {
			cancel()
			return domain.Suppressed, errors.ErrStorageUnavailable
		}).Times(1)
	errorSink.EXPECT().Consume(gomock.Any(), evt, gomock.Any()).
		DoAndReturn(func(ctx context.Context, e domain.DeliveryEvent, cause error) error {
			// The sink gets a live context even though the worker is shutting down
			require.NoError(t, ctx.Err())
			return nil
		}).Times(1)

	worker := NewIntakeWorker(slog.Default(), service, nil, errorSink,
		observability.NewMonitoringManager(slog.Default()), 5, time.Hour)
	worker.Handle(ctx, evt)
}
