//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"sms-forwarder/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IdentityProvider is one tier of the receiving identity lookup.
// An empty string with a nil error means "nothing here, try the next tier".
type IdentityProvider interface {
	Name() string
	LookupIdentity(ctx context.Context) (string, error)
}

// Forwarder is the boundary invoked once per non-duplicate message.
// Implementations must not block on the network.
type Forwarder interface {
	Forward(ctx context.Context, message domain.InboundMessage) error
}

// RecordingForwarder also owns the last forwarded record and commits it
// together with the hand-off.
type RecordingForwarder interface {
	Forwarder
	ForwardAndRecord(ctx context.Context, message domain.InboundMessage) error
}

// Transport actually delivers a forwarded message somewhere else.
type Transport interface {
	Deliver(ctx context.Context, entry domain.OutboxEntry) error
}

// ErrorSink receives events the intake could not resolve.
type ErrorSink interface {
	Consume(ctx context.Context, evt domain.DeliveryEvent, cause error) error
}

type IOrchestrator interface {
	Submit(ctx context.Context, evt domain.DeliveryEvent) error
	Start(ctx context.Context) error
	Stop()
}
