// Package events publishes enveloped storefront domain events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EventsExchange  = "storefront.events"
	DefaultProducer = "storefront-service"
)

// Publisher delivers one encoded event to the transport.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Emitter wraps payloads in envelopes, numbers them per partition and hands
// them to a Publisher.
type Emitter struct {
	pub      Publisher
	seq      *SequenceCounter
	producer string
	now      func() time.Time
}

func NewEmitter(pub Publisher, producer string) *Emitter {
	if producer == "" {
		producer = DefaultProducer
	}
	return &Emitter{
		pub:      pub,
		seq:      NewSequenceCounter(),
		producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RoutingKey maps an event name to its topic, e.g. CartCleared to
// "storefront.cartcleared.v1".
func RoutingKey(eventName string) string {
	return fmt.Sprintf("storefront.%s.v%d", strings.ToLower(eventName), eventVersion)
}

// Emit publishes payload as eventName under meta.
func Emit[T any](ctx context.Context, e *Emitter, eventName string, meta Meta, payload T) (EventEnvelope[T], error) {
	seq, err := e.seq.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return EventEnvelope[T]{}, fmt.Errorf("reserve sequence: %w", err)
	}

	env := EventEnvelope[T]{
		EventName:     eventName,
		EventVersion:  eventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		Producer:      e.producer,
		PartitionKey:  meta.PartitionKey,
		Sequence:      seq,
		OccurredAt:    e.now(),
		Payload:       payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return EventEnvelope[T]{}, fmt.Errorf("marshal %s envelope: %w", eventName, err)
	}
	if err := e.pub.Publish(ctx, RoutingKey(eventName), body); err != nil {
		return EventEnvelope[T]{}, fmt.Errorf("publish %s: %w", eventName, err)
	}
	return env, nil
}
