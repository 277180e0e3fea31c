// Package domain contains core concepts of the sms forwarder.
// This file defines inbound messages and the records kept about them.
// Messages are immutable once built from a delivery event.
package domain

import "strings"

// Slot names the two last-value records kept in durable storage.
type Slot string

const (
	SlotLastObserved  Slot = "last_observed"
	SlotLastForwarded Slot = "last_forwarded"
)

// DefaultIdentity is returned when no receiving identity can be found on the device.
const DefaultIdentity = "+201000000000"

// InboundMessage is one delivery event after normalization.
type InboundMessage struct {
	Sender            string `json:"sender"`
	Body              string `json:"body"`
	ReceivingIdentity string `json:"receiver"`
}

// Record has the same shape as InboundMessage and is what the store keeps per Slot.
type Record = InboundMessage

// SameAs compares byte for byte, empty strings included.
func (m InboundMessage) SameAs(other InboundMessage) bool {
	return m.Sender == other.Sender &&
		m.Body == other.Body &&
		m.ReceivingIdentity == other.ReceivingIdentity
}

// NewInboundMessage normalizes the fragments of one delivery event.
// The sender is taken from the first fragment carrying one, bodies are
// concatenated in fragment order.
func NewInboundMessage(fragments []Fragment, receivingIdentity string) InboundMessage {
	var sender *string
	var body strings.Builder
	for _, f := range fragments {
		if sender == nil && f.Sender != nil {
			sender = f.Sender
		}
		body.WriteString(f.Body)
	}
	msg := InboundMessage{Body: body.String(), ReceivingIdentity: receivingIdentity}
	if sender != nil {
		msg.Sender = *sender
	}
	return msg
}
