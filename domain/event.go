package domain

import (
	"time"

	"github.com/google/uuid"
)

// Fragment is one part of a message as split by the transport.
// A nil Sender means the platform could not supply one for this part.
type Fragment struct {
	Sender *string `json:"sender"`
	Body   string  `json:"body"`
}

// DeliveryEvent groups the fragments of one physical arrival, in platform order.
type DeliveryEvent struct {
	ID         uuid.UUID  `json:"id"`
	Fragments  []Fragment `json:"fragments" validate:"required,min=1"`
	ReceivedAt time.Time  `json:"received_at"`
}

func NewDeliveryEvent(fragments ...Fragment) DeliveryEvent {
	return DeliveryEvent{ID: uuid.New(), Fragments: fragments, ReceivedAt: time.Now().UTC()}
}

// Outcome is the terminal state of one processed event.
type Outcome int

const (
	Suppressed Outcome = iota
	Forwarded
)

func (o Outcome) String() string {
	switch o {
	case Forwarded:
		return "forwarded"
	case Suppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// OutboxEntry is a forward request waiting for the transport.
type OutboxEntry struct {
	ID         uuid.UUID
	Key        string
	Message    InboundMessage
	EnqueuedAt time.Time
	Attempts   int
}
