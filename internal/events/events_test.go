package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	routingKey string
	body       []byte
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (r *recordingPublisher) Publish(_ context.Context, routingKey string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, published{routingKey: routingKey, body: body})
	return nil
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "storefront.cartitemadded.v1", RoutingKey(CartItemAdded))
	assert.Equal(t, "storefront.newslettersubscribed.v1", RoutingKey(NewsletterSubscribed))
}

func TestEmitBuildsEnvelope(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, "")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }
	meta := Meta{CorrelationID: "c0a8e2b6-3c6a-4d7e-9c8f-1f2e3d4c5b6a", PartitionKey: "session-1-abc"}

	env, err := Emit(context.Background(), e, CartItemAdded, meta, CartItemAddedPayload{
		SessionID:  "session-1-abc",
		CartItemID: 7,
		ProductID:  1,
		Quantity:   2,
	})
	require.NoError(t, err)
	require.NoError(t, env.Validate(CartItemAdded, 1))
	assert.Equal(t, DefaultProducer, env.Producer)
	assert.Equal(t, int64(1), env.Sequence)
	assert.Equal(t, now, env.OccurredAt)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "storefront.cartitemadded.v1", pub.msgs[0].routingKey)

	var decoded EventEnvelope[CartItemAddedPayload]
	require.NoError(t, json.Unmarshal(pub.msgs[0].body, &decoded))
	assert.Equal(t, env.EventID, decoded.EventID)
	assert.Equal(t, meta.CorrelationID, decoded.CorrelationID)
	assert.Equal(t, int64(7), decoded.Payload.CartItemID)
}

func TestEmitSequencesPerPartition(t *testing.T) {
	e := NewEmitter(NopPublisher{}, "test")
	ctx := context.Background()

	seqs := map[string][]int64{}
	for _, key := range []string{"a", "b", "a", "a", "b"} {
		env, err := Emit(ctx, e, CartCleared, Meta{PartitionKey: key}, CartClearedPayload{SessionID: key})
		require.NoError(t, err)
		seqs[key] = append(seqs[key], env.Sequence)
	}

	assert.Equal(t, []int64{1, 2, 3}, seqs["a"])
	assert.Equal(t, []int64{1, 2}, seqs["b"])
}

func TestEmitErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Emit(ctx, NewEmitter(NopPublisher{}, ""), CartCleared, Meta{}, CartClearedPayload{})
	assert.Error(t, err, "missing partition key")

	pub := &recordingPublisher{err: errors.New("broker down")}
	_, err = Emit(ctx, NewEmitter(pub, ""), CartCleared, Meta{PartitionKey: "s"}, CartClearedPayload{})
	assert.ErrorContains(t, err, "broker down")
}

func TestEnvelopeValidate(t *testing.T) {
	valid := EventEnvelope[CartItemRemovedPayload]{
		EventName:    CartItemRemoved,
		EventVersion: 1,
		EventID:      "id",
		PartitionKey: "s",
		Sequence:     1,
	}

	tests := map[string]struct {
		mutate  func(*EventEnvelope[CartItemRemovedPayload])
		wantErr bool
	}{
		"valid":         {mutate: func(*EventEnvelope[CartItemRemovedPayload]) {}},
		"wrong name":    {mutate: func(e *EventEnvelope[CartItemRemovedPayload]) { e.EventName = "Other" }, wantErr: true},
		"wrong version": {mutate: func(e *EventEnvelope[CartItemRemovedPayload]) { e.EventVersion = 2 }, wantErr: true},
		"no partition":  {mutate: func(e *EventEnvelope[CartItemRemovedPayload]) { e.PartitionKey = "" }, wantErr: true},
		"no event id":   {mutate: func(e *EventEnvelope[CartItemRemovedPayload]) { e.EventID = "" }, wantErr: true},
		"zero sequence": {mutate: func(e *EventEnvelope[CartItemRemovedPayload]) { e.Sequence = 0 }, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := valid
			tt.mutate(&env)
			err := env.Validate(CartItemRemoved, 1)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSequenceCounterConcurrent(t *testing.T) {
	s := NewSequenceCounter()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.NextSequence(context.Background(), "p")
		}()
	}
	wg.Wait()

	next, err := s.NextSequence(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, int64(101), next)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := LogPublisher{Logger: log.New(&buf, "", 0)}

	require.NoError(t, p.Publish(context.Background(), "storefront.cartcleared.v1", []byte(`{"a":1}`)))
	assert.Equal(t, "event storefront.cartcleared.v1: {\"a\":1}\n", buf.String())
}

type fakeChannel struct {
	declareFn func(name, kind string, durable bool) error
	publishFn func(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	closed    bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	return f.declareFn(name, kind, durable)
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	return f.publishFn(ctx, exchange, key, msg)
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitPublisher(t *testing.T) {
	var gotExchange, gotKey string
	var gotMsg amqp.Publishing
	ch := &fakeChannel{
		declareFn: func(name, kind string, durable bool) error {
			assert.Equal(t, EventsExchange, name)
			assert.Equal(t, "topic", kind)
			assert.True(t, durable)
			return nil
		},
		publishFn: func(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			gotExchange, gotKey, gotMsg = exchange, key, msg
			return nil
		},
	}

	p, err := newRabbitPublisher(ch)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), "storefront.cartcleared.v1", []byte(`{}`)))

	assert.Equal(t, EventsExchange, gotExchange)
	assert.Equal(t, "storefront.cartcleared.v1", gotKey)
	assert.Equal(t, "application/json", gotMsg.ContentType)
	assert.Equal(t, amqp.Persistent, gotMsg.DeliveryMode)
	assert.Equal(t, []byte(`{}`), gotMsg.Body)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestRabbitPublisherDeclareFailure(t *testing.T) {
	ch := &fakeChannel{declareFn: func(string, string, bool) error { return errors.New("access refused") }}

	_, err := newRabbitPublisher(ch)
	assert.ErrorContains(t, err, "declare events exchange")
}
