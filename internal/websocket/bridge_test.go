package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketpool/rocketpool-web/internal/pubsub"
)

const (
	topicAccount = "rocketPool/Init/accountChanged"
	topicShow    = "rocketPool/Processing/show"
)

type bridgeHarness struct {
	bridge *Bridge
	bus    *pubsub.Bus
	mirror *pubsub.Mirror
	srv    *httptest.Server
	ctx    context.Context
}

func newBridgeHarness(t *testing.T, opts ...Option) *bridgeHarness {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	bus := pubsub.NewBus()
	mirror := pubsub.NewMirror()
	t.Cleanup(func() { _ = mirror.Close() })
	require.NoError(t, mirror.Attach(bus, topicAccount, topicShow))

	bridge := NewBridge(NewTopicWhitelist(topicAccount, topicShow), opts...)
	go bridge.Run(ctx)
	require.NoError(t, bridge.Forward(ctx, mirror, topicAccount, topicShow))

	e := echo.New()
	bridge.Mount(e, "/ws")
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &bridgeHarness{bridge: bridge, bus: bus, mirror: mirror, srv: srv, ctx: ctx}
}

func (h *bridgeHarness) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.srv.URL, "http") + path
	conn, _, err := websocket.Dial(h.ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func TestBridge_StreamsEnvelopes(t *testing.T) {
	h := newBridgeHarness(t)
	conn := h.dial(t, "/ws")
	require.Eventually(t, func() bool { return h.bridge.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.bus.Publish(h.ctx, topicAccount, "0xabc")

	_, data, err := conn.Read(h.ctx)
	require.NoError(t, err)

	var env pubsub.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, topicAccount, env.Topic)
	assert.JSONEq(t, `["0xabc"]`, string(env.Args))
}

func TestBridge_HTMLClientsGetFragments(t *testing.T) {
	h := newBridgeHarness(t, WithFragments(func(ctx context.Context, env pubsub.Envelope) ([]byte, bool) {
		if env.Topic != topicShow {
			return nil, false
		}
		return []byte(`<div id="processing" hx-swap-oob="true">busy</div>`), true
	}))
	conn := h.dial(t, "/ws/html")
	require.Eventually(t, func() bool { return h.bridge.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.bus.Publish(h.ctx, topicAccount, "0xabc")
	h.bus.Publish(h.ctx, topicShow, "busy")

	_, data, err := conn.Read(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, `<div id="processing" hx-swap-oob="true">busy</div>`, string(data), "account change has no fragment")
}

func TestBridge_ClientDisconnectUnregisters(t *testing.T) {
	h := newBridgeHarness(t)
	conn := h.dial(t, "/ws")
	require.Eventually(t, func() bool { return h.bridge.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool { return h.bridge.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBridge_AnnouncesConnections(t *testing.T) {
	bus := pubsub.NewBus()
	ids := make(chan string, 1)
	_, err := pubsub.Subscribe(bus, Connected, func(ctx context.Context, id string) error {
		ids <- id
		return nil
	})
	require.NoError(t, err)

	h := newBridgeHarness(t, WithPublisher(bus))
	h.dial(t, "/ws")

	select {
	case id := <-ids:
		assert.NotEmpty(t, id)
	case <-h.ctx.Done():
		t.Fatal("no connection announcement")
	}
}

func TestBridge_ForwardRejectsUnlistedTopic(t *testing.T) {
	bridge := NewBridge(NewTopicWhitelist(topicShow))
	err := bridge.Forward(context.Background(), pubsub.NewMirror(), topicAccount)
	assert.ErrorContains(t, err, "not whitelisted")
}

func TestClient_Commands(t *testing.T) {
	bridge := NewBridge(NewTopicWhitelist(topicAccount, topicShow))
	c := &Client{ID: "c1", bridge: bridge, topics: make(map[string]bool)}

	assert.True(t, c.wants(topicShow), "no subscriptions means everything")

	c.apply(Command{Action: "subscribe", Topic: topicAccount})
	assert.True(t, c.wants(topicAccount))
	assert.False(t, c.wants(topicShow))

	c.apply(Command{Action: "subscribe", Topic: "rocketPool/Secret/thing"})
	assert.False(t, c.wants("rocketPool/Secret/thing"))

	c.apply(Command{Action: "unsubscribe", Topic: topicAccount})
	assert.True(t, c.wants(topicShow))
}

func TestConnectionType_String(t *testing.T) {
	assert.Equal(t, "html", ConnectionTypeHTML.String())
	assert.Equal(t, "data", ConnectionTypeData.String())
}
