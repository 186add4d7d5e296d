package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMirror_StreamsPublications(t *testing.T) {
	bus := NewBus()
	mirror := NewMirror()
	defer mirror.Close()

	require.NoError(t, mirror.Attach(bus, "rocketPool/Init/accountChanged"))
	assert.Equal(t, 1, bus.SubscriberCount("rocketPool/Init/accountChanged"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := mirror.Stream(ctx, "rocketPool/Init/accountChanged")
	require.NoError(t, err)

	bus.Publish(ctx, "rocketPool/Init/accountChanged", "0xabc")

	select {
	case env := <-stream:
		assert.Equal(t, "rocketPool/Init/accountChanged", env.Topic)
		assert.NotEmpty(t, env.ID)
		assert.False(t, env.PublishedAt.IsZero())

		var args []string
		require.NoError(t, json.Unmarshal(env.Args, &args))
		assert.Equal(t, []string{"0xabc"}, args)
	case <-ctx.Done():
		t.Fatal("timed out waiting for mirrored message")
	}
}

func TestMirror_UnencodableArgsAreIsolated(t *testing.T) {
	bus := NewBus()
	mirror := NewMirror()
	defer mirror.Close()

	require.NoError(t, mirror.Attach(bus, "t/a/b"))

	ran := false
	_, _ = bus.Subscribe("t/a/b", func(context.Context, Message) error {
		ran = true
		return nil
	})

	bus.Publish(context.Background(), "t/a/b", make(chan int))
	assert.True(t, ran)
}

func TestMirror_CloseDetaches(t *testing.T) {
	bus := NewBus()
	mirror := NewMirror()

	require.NoError(t, mirror.Attach(bus, "t/a/b", "t/a/c"))
	require.NoError(t, mirror.Close())

	assert.Zero(t, bus.SubscriberCount("t/a/b"))
	assert.Zero(t, bus.SubscriberCount("t/a/c"))
}

func TestMirror_AttachRejectsEmptyTopic(t *testing.T) {
	mirror := NewMirror()
	defer mirror.Close()

	err := mirror.Attach(NewBus(), "")
	assert.ErrorIs(t, err, ErrInvalidTopic)
}
