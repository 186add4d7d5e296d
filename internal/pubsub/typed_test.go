package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketpool/rocketpool-web/internal/topicmgr"
)

type pingPayload struct {
	Seq   int    `json:"seq"`
	Label string `json:"label,omitempty"`
}

var (
	testPing  = NewEvent[pingPayload]("rocketPool/Test/ping", "Test", "test ping")
	testAlert = NewEvent[string]("rocketPool/Alerts/raised", "", "framework alert")
)

func TestNewEvent_RegistersTopic(t *testing.T) {
	topic, ok := topicmgr.Default().Get("rocketPool/Test/ping")
	require.True(t, ok)
	assert.Equal(t, "Test", topic.Module())
	assert.Equal(t, topicmgr.ScopeModule, topic.Scope())
	assert.Equal(t, []string{"seq", "label"}, topic.Metadata()["payload_fields"])

	fw, ok := topicmgr.Default().Get(testAlert.Name())
	require.True(t, ok)
	assert.Equal(t, topicmgr.ScopeFramework, fw.Scope())
}

func TestNewEvent_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewEvent[pingPayload]("rocketPool/Test/ping", "Test", "again")
	})
}

func TestTyped_PublishSubscribe(t *testing.T) {
	bus := NewBus()
	var got []pingPayload

	_, err := Subscribe(bus, testPing, func(ctx context.Context, p pingPayload) error {
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)

	Publish(context.Background(), bus, testPing, pingPayload{Seq: 1})
	Publish(context.Background(), bus, testPing, pingPayload{Seq: 2, Label: "two"})

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Seq)
	assert.Equal(t, "two", got[1].Label)
}

func TestTyped_WrongPayloadIsIsolated(t *testing.T) {
	bus := NewBus()
	calls := 0

	_, err := Subscribe(bus, testPing, func(ctx context.Context, p pingPayload) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(testPing.Name(), func(ctx context.Context, msg Message) error {
		calls += 10
		return nil
	})
	require.NoError(t, err)

	bus.Publish(context.Background(), testPing.Name(), "not a ping")
	assert.Equal(t, 10, calls, "typed handler skipped, raw handler still ran")
}

func TestTyped_NilHandler(t *testing.T) {
	_, err := Subscribe[string](NewBus(), testAlert, nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestDecode(t *testing.T) {
	v, err := Decode[string](Message{Topic: "t/a/b", Args: []any{"hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = Decode[string](Message{Topic: "t/a/b"})
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = Decode[string](Message{Topic: "t/a/b", Args: []any{7}})
	assert.ErrorIs(t, err, ErrPayloadType)
}
