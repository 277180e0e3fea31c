package repositories

import (
	"fmt"
	"sms-forwarder/domain"
	"sms-forwarder/errors"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire layout of stored values. Text fields are length-delimited bytes, not proto
// strings, so a body that is not valid UTF-8 is stored and compared byte for byte.
const (
	fieldSender     protowire.Number = 1
	fieldBody       protowire.Number = 2
	fieldReceiver   protowire.Number = 3
	fieldID         protowire.Number = 4
	fieldEnqueuedAt protowire.Number = 5
	fieldAttempts   protowire.Number = 6
)

func appendRecord(b []byte, record domain.Record) []byte {
	b = appendBytesField(b, fieldSender, record.Sender)
	b = appendBytesField(b, fieldBody, record.Body)
	return appendBytesField(b, fieldReceiver, record.ReceivingIdentity)
}

func appendBytesField(b []byte, num protowire.Number, value string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, value)
}

func appendVarintField(b []byte, num protowire.Number, value uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, value)
}

func MarshalRecord(record domain.Record) []byte {
	return appendRecord(nil, record)
}

func UnmarshalRecord(raw []byte) (domain.Record, error) {
	fields, err := decodeFields(raw)
	if err != nil {
		return domain.Record{}, err
	}
	return fields.record()
}

func marshalOutboxEntry(entry domain.OutboxEntry) []byte {
	b := appendRecord(nil, entry.Message)
	b = appendBytesField(b, fieldID, entry.ID.String())
	b = appendVarintField(b, fieldEnqueuedAt, uint64(entry.EnqueuedAt.UnixMilli()))
	return appendVarintField(b, fieldAttempts, uint64(entry.Attempts))
}

type decodedFields struct {
	bytes   map[protowire.Number][]byte
	varints map[protowire.Number]uint64
}

// decodeFields reads a flat message. Unknown fields are skipped, a truncated
// or mistyped value means the stored bytes are not ours.
func decodeFields(raw []byte) (decodedFields, error) {
	fields := decodedFields{
		bytes:   map[protowire.Number][]byte{},
		varints: map[protowire.Number]uint64{},
	}
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return fields, fmt.Errorf("%w: %v", errors.ErrRecordCorrupted, protowire.ParseError(n))
		}
		raw = raw[n:]
		switch typ {
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(raw)
			if m < 0 {
				return fields, fmt.Errorf("%w: field %d: %v", errors.ErrRecordCorrupted, num, protowire.ParseError(m))
			}
			fields.bytes[num] = v
			n = m
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(raw)
			if m < 0 {
				return fields, fmt.Errorf("%w: field %d: %v", errors.ErrRecordCorrupted, num, protowire.ParseError(m))
			}
			fields.varints[num] = v
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return fields, fmt.Errorf("%w: field %d: %v", errors.ErrRecordCorrupted, num, protowire.ParseError(n))
			}
		}
		raw = raw[n:]
	}
	return fields, nil
}

func (f decodedFields) record() (domain.Record, error) {
	names := map[protowire.Number]string{fieldSender: "sender", fieldBody: "body", fieldReceiver: "receiver"}
	for _, num := range []protowire.Number{fieldSender, fieldBody, fieldReceiver} {
		if _, ok := f.bytes[num]; !ok {
			return domain.Record{}, fmt.Errorf("%w: missing field %q", errors.ErrRecordCorrupted, names[num])
		}
	}
	return domain.Record{
		Sender:            string(f.bytes[fieldSender]),
		Body:              string(f.bytes[fieldBody]),
		ReceivingIdentity: string(f.bytes[fieldReceiver]),
	}, nil
}
