// Package pubsub is a small generic publish/subscribe broker. The logger
// fans log lines out through it and the file watcher publishes debounced
// change notifications.
package pubsub

import (
	"context"
	"time"
)

// EventType names what a payload carries.
type EventType string

const (
	LogLineEvent      EventType = "log.line"      // formatted log entry
	FilesChangedEvent EventType = "files.changed" // debounced watcher change
)

// Event is a published payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes payloads.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T) int
}
