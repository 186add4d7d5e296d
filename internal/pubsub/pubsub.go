package pubsub

import (
	"context"
	"errors"
)

var (
	// ErrInvalidTopic is returned when subscribing to an empty topic.
	ErrInvalidTopic = errors.New("pubsub: topic cannot be empty")
	// ErrNilHandler is returned when subscribing a nil handler.
	ErrNilHandler = errors.New("pubsub: handler cannot be nil")
	// ErrHandlerPanic wraps a recovered handler panic.
	ErrHandlerPanic = errors.New("pubsub: handler panicked")
	// ErrPayloadType is returned by typed subscribers when a publication
	// carries a payload of an unexpected type.
	ErrPayloadType = errors.New("pubsub: unexpected payload type")
)

// Message is what a handler receives for one publication.
type Message struct {
	// Topic the message was published on (e.g. "rocketPool/Init/networkDetected").
	Topic string
	// Args are the publication arguments, passed through untouched.
	Args []any
	// Metadata carries optional key-value context.
	Metadata map[string]string
}

// Arg returns the i-th argument if present.
func (m Message) Arg(i int) (any, bool) {
	if i < 0 || i >= len(m.Args) {
		return nil, false
	}
	return m.Args[i], true
}

// Handler processes one publication. A returned error is logged by the bus
// and does not affect the other handlers of the same publication.
type Handler func(ctx context.Context, msg Message) error

// Publisher dispatches publications. Publishing never fails.
type Publisher interface {
	Publish(ctx context.Context, topic string, args ...any)
}

// Subscriber registers handlers for a topic.
type Subscriber interface {
	Subscribe(topic string, handler Handler) (*Subscription, error)
}

// PubSub combines Publisher and Subscriber.
type PubSub interface {
	Publisher
	Subscriber
}
