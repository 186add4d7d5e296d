// Package websocket pushes mirrored bus publications to browsers.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rocketpool/rocketpool-web/internal/middleware"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
)

// ConnectionType defines the type of WebSocket connection.
type ConnectionType int

const (
	// ConnectionTypeHTML is for clients that consume HTML fragments (htmx ws extension).
	ConnectionTypeHTML ConnectionType = iota
	// ConnectionTypeData is for clients that consume JSON envelopes.
	ConnectionTypeData
)

func (t ConnectionType) String() string {
	if t == ConnectionTypeHTML {
		return "html"
	}
	return "data"
}

// Connected is published when a browser opens a socket. The payload is the client id.
var Connected = pubsub.NewEvent[string]("rocketPool/Socket/connected", "Socket", "A browser opened a websocket connection")

// Streamer delivers mirrored publications for a topic.
type Streamer interface {
	Stream(ctx context.Context, topic string) (<-chan pubsub.Envelope, error)
}

// FragmentFunc renders the HTML pushed to htmx clients for env. It returns
// false when the publication has no HTML representation.
type FragmentFunc func(ctx context.Context, env pubsub.Envelope) ([]byte, bool)

type outbound struct {
	env  pubsub.Envelope
	data []byte
	html []byte
}

// Bridge manages websocket clients and fans mirrored publications out to them.
type Bridge struct {
	allowed   *TopicWhitelist
	publisher pubsub.Publisher
	fragments FragmentFunc
	logger    *slog.Logger

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}

	// mu guards clients for readers outside Run.
	mu sync.RWMutex
}

// Option customises a Bridge.
type Option func(*Bridge)

// WithPublisher announces new connections on p.
func WithPublisher(p pubsub.Publisher) Option {
	return func(b *Bridge) { b.publisher = p }
}

// WithFragments enables HTML pushes for htmx clients.
func WithFragments(f FragmentFunc) Option {
	return func(b *Bridge) { b.fragments = f }
}

// NewBridge initializes a Bridge that streams only whitelisted topics.
func NewBridge(allowed *TopicWhitelist, opts ...Option) *Bridge {
	if allowed == nil {
		allowed = NewTopicWhitelist()
	}
	b := &Bridge{
		allowed:    allowed,
		logger:     slog.Default().With("component", "websocket.bridge"),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 64),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run manages client lifecycle and message routing until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	b.logger.Info("WebSocket bridge started")
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for id, client := range b.clients {
				close(client.send)
				delete(b.clients, id)
			}
			b.mu.Unlock()
			b.logger.Info("WebSocket bridge stopped")
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.ID] = client
			b.mu.Unlock()
			b.logger.Info("Client registered", "clientID", client.ID, "type", client.connType)

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client.ID]; ok {
				delete(b.clients, client.ID)
				close(client.send)
				b.logger.Info("Client unregistered", "clientID", client.ID, "type", client.connType)
			}
			b.mu.Unlock()

		case msg := <-b.broadcast:
			b.mu.RLock()
			for _, client := range b.clients {
				payload := msg.data
				if client.connType == ConnectionTypeHTML {
					payload = msg.html
				}
				if payload == nil || !client.wants(msg.env.Topic) {
					continue
				}
				select {
				case client.send <- payload:
				default:
					b.logger.Warn("Client send channel full, dropping message", "clientID", client.ID, "topic", msg.env.Topic)
				}
			}
			b.mu.RUnlock()
		}
	}
}

// Forward streams topics from src into the bridge until ctx is cancelled.
// Topics missing from the whitelist are rejected.
func (b *Bridge) Forward(ctx context.Context, src Streamer, topics ...string) error {
	for _, topic := range topics {
		if !b.allowed.IsAllowed(topic) {
			return fmt.Errorf("forward %q: topic is not whitelisted", topic)
		}
		stream, err := src.Stream(ctx, topic)
		if err != nil {
			return fmt.Errorf("forward %q: %w", topic, err)
		}
		go func() {
			for env := range stream {
				b.Broadcast(ctx, env)
			}
		}()
	}
	return nil
}

// Broadcast queues env for every interested client.
func (b *Bridge) Broadcast(ctx context.Context, env pubsub.Envelope) {
	if !b.allowed.IsAllowed(env.Topic) {
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		b.logger.Error("Failed to encode envelope", "topic", env.Topic, "error", err)
		return
	}
	msg := outbound{env: env, data: data}
	if b.fragments != nil {
		if html, ok := b.fragments(ctx, env); ok {
			msg.html = html
		}
	}
	select {
	case b.broadcast <- msg:
	case <-ctx.Done():
	case <-b.done:
	}
}

// ClientCount returns the number of connected clients.
func (b *Bridge) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// Handler returns an echo.HandlerFunc that upgrades the request and serves
// the connection until the client leaves.
func (b *Bridge) Handler(connType ConnectionType) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := middleware.FromContext(c.Request().Context())

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			ID:       uuid.NewString(),
			conn:     conn,
			send:     make(chan []byte, 64),
			connType: connType,
			bridge:   b,
			topics:   make(map[string]bool),
		}

		ctx := c.Request().Context()
		select {
		case b.register <- client:
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "client gone")
			return nil
		case <-b.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return nil
		}

		if b.publisher != nil {
			pubsub.Publish(ctx, b.publisher, Connected, client.ID)
		}

		go client.writePump()
		client.readPump(ctx)
		return nil
	}
}

// Mount registers the JSON endpoint at path and the htmx endpoint at path+"/html".
func (b *Bridge) Mount(e *echo.Echo, path string) {
	e.GET(path, b.Handler(ConnectionTypeData))
	e.GET(path+"/html", b.Handler(ConnectionTypeHTML))
}
