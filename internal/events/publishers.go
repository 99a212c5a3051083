package events

import (
	"context"
	"log"
)

// LogPublisher writes events to a logger. It is used when no broker is configured.
type LogPublisher struct {
	Logger *log.Logger
}

func (p LogPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	p.Logger.Printf("event %s: %s", routingKey, body)
	return nil
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }
