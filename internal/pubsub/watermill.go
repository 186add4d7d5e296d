package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	metaKeyTopic       = "topic"
	metaKeyPublishedAt = "published_at"
)

// Envelope is a mirrored publication as seen by asynchronous consumers.
type Envelope struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	Args        json.RawMessage `json:"args"`
	PublishedAt time.Time       `json:"published_at"`
}

// Mirror copies publications from the synchronous bus onto a watermill
// GoChannel so slow consumers (websocket clients) never hold up dispatch.
type Mirror struct {
	pubSub *gochannel.GoChannel
	logger *slog.Logger

	mu   sync.Mutex
	subs []*Subscription
}

// NewMirror creates a mirror backed by an in-memory GoChannel.
func NewMirror() *Mirror {
	return &Mirror{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewStdLogger(false, false),
		),
		logger: slog.Default().With("component", "pubsub.mirror"),
	}
}

// Attach subscribes the mirror to topics on s.
func (m *Mirror) Attach(s Subscriber, topics ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, topic := range topics {
		sub, err := s.Subscribe(topic, m.forward)
		if err != nil {
			return fmt.Errorf("mirror %s: %w", topic, err)
		}
		m.subs = append(m.subs, sub)
	}
	return nil
}

func (m *Mirror) forward(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg.Args)
	if err != nil {
		return fmt.Errorf("failed to encode mirrored args: %w", err)
	}

	wmMsg := message.NewMessage(watermill.NewUUID(), payload)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	wmMsg.Metadata.Set(metaKeyPublishedAt, time.Now().UTC().Format(time.RFC3339Nano))
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.SetContext(ctx)

	return m.pubSub.Publish(msg.Topic, wmMsg)
}

// Stream returns mirrored publications for topic until ctx is cancelled.
func (m *Mirror) Stream(ctx context.Context, topic string) (<-chan Envelope, error) {
	messages, err := m.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	out := make(chan Envelope)
	go func() {
		defer close(out)
		for wmMsg := range messages {
			env := toEnvelope(wmMsg)
			wmMsg.Ack()
			select {
			case out <- env:
			case <-ctx.Done():
				return
			}
		}
		m.logger.Debug("Mirror stream ended", "topic", topic)
	}()
	return out, nil
}

func toEnvelope(wmMsg *message.Message) Envelope {
	published, _ := time.Parse(time.RFC3339Nano, wmMsg.Metadata.Get(metaKeyPublishedAt))
	return Envelope{
		ID:          wmMsg.UUID,
		Topic:       wmMsg.Metadata.Get(metaKeyTopic),
		Args:        json.RawMessage(wmMsg.Payload),
		PublishedAt: published,
	}
}

// Close detaches from the bus and shuts the GoChannel down.
func (m *Mirror) Close() error {
	m.mu.Lock()
	for _, sub := range m.subs {
		sub.Close()
	}
	m.subs = nil
	m.mu.Unlock()

	return m.pubSub.Close()
}

// Shutdown closes the mirror when it is owned by a dependency container.
func (m *Mirror) Shutdown(context.Context) error {
	return m.Close()
}
