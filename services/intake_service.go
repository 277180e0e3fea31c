//go:generate go run go.uber.org/mock/mockgen -source=intake_service.go -destination=../mocks/mock_intake_service.go -package=mocks
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sms-forwarder/contract"
	"sms-forwarder/dedup"
	"sms-forwarder/domain"
	"sms-forwarder/errors"
	"sms-forwarder/identity"
	"sms-forwarder/observability"
	"sms-forwarder/repositories"
	"sync"
)

type IIntakeService interface {
	OnMessageEvent(ctx context.Context, fragments []domain.Fragment) (domain.Outcome, error)
}

// IntakeService turns one delivery event into exactly one outcome: forwarded or suppressed.
// It keeps no state of its own, everything lives in the record store.
type IntakeService struct {
	mu           sync.Mutex
	log          *slog.Logger
	resolver     identity.IResolver
	deduplicator dedup.IDeduplicator
	store        repositories.IRecordStore
	forwarder    contract.Forwarder
	monitoring   *observability.MonitoringManager
}

func NewIntakeService(log *slog.Logger,
	resolver identity.IResolver,
	deduplicator dedup.IDeduplicator,
	store repositories.IRecordStore,
	forwarder contract.Forwarder,
	monitoring *observability.MonitoringManager) *IntakeService {
	return &IntakeService{
		log:          log,
		resolver:     resolver,
		deduplicator: deduplicator,
		store:        store,
		forwarder:    forwarder,
		monitoring:   monitoring,
	}
}

// OnMessageEvent normalizes the fragments, records the message as observed and
// forwards it unless it equals the last forwarded one.
// Storage failures are returned, never swallowed, so the caller can retry the event.
func (s *IntakeService) OnMessageEvent(ctx context.Context, fragments []domain.Fragment) (domain.Outcome, error) {
	if len(fragments) == 0 {
		s.log.Warn("Dropping delivery event without fragments")
		s.monitoring.IncrMalformed()
		return domain.Suppressed, errors.ErrMalformedEvent
	}

	message := domain.NewInboundMessage(fragments, s.resolver.Resolve(ctx))
	s.log.Debug("Message received",
		"sender", message.Sender, "receiver", message.ReceivingIdentity, "length", len(message.Body))

	// Observe, decide and record must not interleave between two events
	s.mu.Lock()
	outcome, err := s.process(ctx, message)
	s.mu.Unlock()

	if err != nil {
		if stderrors.Is(err, errors.ErrStorageUnavailable) {
			s.monitoring.IncrStorageError()
		}
		s.log.Error("Message intake failed", "sender", message.Sender, "error", err)
		return outcome, err
	}

	switch outcome {
	case domain.Forwarded:
		s.monitoring.IncrForwarded(message.Sender)
		s.log.Info("Message forwarded", "sender", message.Sender, "receiver", message.ReceivingIdentity)
	default:
		s.monitoring.IncrSuppressed(message.Sender)
		s.log.Info("Duplicate message suppressed", "sender", message.Sender, "receiver", message.ReceivingIdentity)
	}
	return outcome, nil
}

func (s *IntakeService) process(ctx context.Context, message domain.InboundMessage) (domain.Outcome, error) {
	// 1. Every message is observed, duplicate or not
	if err := s.store.Set(ctx, domain.SlotLastObserved, message); err != nil {
		return domain.Suppressed, err
	}
	s.monitoring.IncrObserved()

	// 2. Single slot comparison against the last forwarded record
	duplicate, err := s.deduplicator.IsDuplicate(ctx, message)
	if err != nil {
		return domain.Suppressed, err
	}
	if duplicate {
		return domain.Suppressed, nil
	}

	// 3. Record and hand over in one commit when the forwarder owns the record
	if recording, ok := s.forwarder.(contract.RecordingForwarder); ok {
		if err = recording.ForwardAndRecord(ctx, message); err != nil {
			return domain.Suppressed, fmt.Errorf("forward trigger: %w", err)
		}
		return domain.Forwarded, nil
	}

	// 4. Otherwise remember what was there, a failed hand-off must not turn a retry into a duplicate
	previous, hadPrevious, err := s.store.Get(ctx, domain.SlotLastForwarded)
	if stderrors.Is(err, errors.ErrRecordCorrupted) {
		previous, hadPrevious, err = domain.Record{}, false, nil
	}
	if err != nil {
		return domain.Suppressed, err
	}
	if err = s.store.Set(ctx, domain.SlotLastForwarded, message); err != nil {
		return domain.Suppressed, err
	}

	// 5. Hand over to the forward boundary
	if err = s.forwarder.Forward(ctx, message); err != nil {
		forwardErr := fmt.Errorf("forward trigger: %w", err)
		if restoreErr := s.restore(ctx, previous, hadPrevious); restoreErr != nil {
			return domain.Suppressed, stderrors.Join(forwardErr, restoreErr)
		}
		return domain.Suppressed, forwardErr
	}
	return domain.Forwarded, nil
}

func (s *IntakeService) restore(ctx context.Context, previous domain.Record, hadPrevious bool) error {
	if hadPrevious {
		return s.store.Set(ctx, domain.SlotLastForwarded, previous)
	}
	return s.store.Delete(ctx, domain.SlotLastForwarded)
}
