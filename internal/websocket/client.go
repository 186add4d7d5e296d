package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 10 * time.Second

// Command is sent by data clients to narrow or widen their topic selection.
// A client without subscriptions receives every whitelisted topic.
type Command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Client is a single connected browser.
type Client struct {
	ID       string
	conn     *websocket.Conn
	send     chan []byte
	connType ConnectionType
	bridge   *Bridge

	mu     sync.RWMutex
	topics map[string]bool
}

func (c *Client) wants(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.topics) == 0 || c.topics[topic]
}

func (c *Client) apply(cmd Command) {
	logger := c.bridge.logger.With("clientID", c.ID)
	if !c.bridge.allowed.IsAllowed(cmd.Topic) {
		logger.Warn("Client asked for a topic that is not whitelisted", "topic", cmd.Topic)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch cmd.Action {
	case "subscribe":
		c.topics[cmd.Topic] = true
	case "unsubscribe":
		delete(c.topics, cmd.Topic)
	default:
		logger.Warn("Unknown client command", "action", cmd.Action)
	}
}

// readPump reads client commands until the connection closes.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.bridge.unregister <- c:
		case <-c.bridge.done:
		}
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, message, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			switch {
			case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
				c.bridge.logger.Debug("WebSocket closed by client", "clientID", c.ID)
			case errors.Is(err, io.EOF) || errors.Is(err, context.Canceled):
			default:
				c.bridge.logger.Error("WebSocket read error", "clientID", c.ID, "error", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil || cmd.Action == "" {
			// htmx posts form values over the socket; they carry no command.
			continue
		}
		c.apply(cmd)
	}
}

// writePump writes queued messages until the bridge closes the send channel.
func (c *Client) writePump() {
	defer c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			c.bridge.logger.Error("WebSocket write error", "clientID", c.ID, "error", err)
			return
		}
	}
}
