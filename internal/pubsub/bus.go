package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultMaxDepth bounds nested publications made from inside handlers.
const DefaultMaxDepth = 32

type depthKey struct{}

// Bus is a synchronous, in-process publish/subscribe registry.
//
// Publish invokes every handler currently subscribed to the topic, in
// subscription order, before it returns. The handler list is snapshotted
// before dispatch, so handlers may publish, subscribe or unsubscribe
// without deadlocking the bus.
type Bus struct {
	mu       sync.RWMutex
	subs     map[string][]*Subscription
	nextID   uint64
	logger   *slog.Logger
	tracer   trace.Tracer
	maxDepth int
}

var _ PubSub = (*Bus)(nil)

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = l
	}
}

// WithTracer records a span per publication and per handler invocation.
func WithTracer(t trace.Tracer) Option {
	return func(b *Bus) {
		b.tracer = t
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs:     make(map[string][]*Subscription),
		logger:   slog.Default().With("component", "pubsub"),
		tracer:   noop.NewTracerProvider().Tracer("rocketpool-pubsub"),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription is a handle on one registered handler.
type Subscription struct {
	id      uint64
	topic   string
	handler Handler
	bus     *Bus
}

// Topic returns the subscribed topic.
func (s *Subscription) Topic() string {
	return s.topic
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.Unsubscribe(s)
}

// Subscribe registers handler for every future publication on topic.
// The same handler may be subscribed several times; it then runs once per
// subscription.
func (b *Bus) Subscribe(topic string, handler Handler) (*Subscription, error) {
	if topic == "" {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		topic:   topic,
		handler: handler,
		bus:     b,
	}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub, nil
}

// Unsubscribe removes sub and reports whether it was still registered.
// A publication already in progress still delivers to sub.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id != sub.id {
			continue
		}
		// Copy rather than shift in place: in-flight snapshots share the old array.
		next := make([]*Subscription, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, sub.topic)
		} else {
			b.subs[sub.topic] = next
		}
		return true
	}
	return false
}

// Publish delivers args to every handler subscribed to topic. Handler
// errors and panics are logged and isolated; Publish itself never fails.
// A topic without subscribers is a no-op.
func (b *Bus) Publish(ctx context.Context, topic string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}

	depth, _ := ctx.Value(depthKey{}).(int)
	if depth >= b.maxDepth {
		b.logger.Warn("Dropping publication: nesting too deep",
			"topic", topic,
			"depth", depth)
		return
	}
	ctx = context.WithValue(ctx, depthKey{}, depth+1)

	b.mu.RLock()
	handlers := b.subs[topic]
	b.mu.RUnlock()

	ctx, span := b.tracer.Start(ctx, "pubsub.publish "+topic,
		trace.WithAttributes(
			attribute.String("messaging.system", "rocketpool-bus"),
			attribute.String("messaging.destination", topic),
			attribute.Int("messaging.subscriber_count", len(handlers)),
			attribute.Int("messaging.depth", depth),
		),
	)
	defer span.End()

	if len(handlers) == 0 {
		return
	}

	msg := Message{Topic: topic, Args: args}
	for _, sub := range handlers {
		if err := b.invoke(ctx, sub, msg); err != nil {
			b.logger.Error("Subscriber failed",
				"topic", topic,
				"subscription", sub.id,
				"error", err)
			span.RecordError(err)
		}
	}
}

func (b *Bus) invoke(ctx context.Context, sub *Subscription, msg Message) (err error) {
	ctx, span := b.tracer.Start(ctx, "pubsub.handle "+msg.Topic,
		trace.WithAttributes(attribute.Int64("messaging.subscription_id", int64(sub.id))))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	return sub.handler(ctx, msg)
}

// SubscriberCount returns the number of handlers registered for topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[topic])
}

// Topics returns every topic with at least one subscriber.
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	topics := make([]string, 0, len(b.subs))
	for t := range b.subs {
		topics = append(topics, t)
	}
	return topics
}
