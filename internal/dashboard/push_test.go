package dashboard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketpool/rocketpool-web/internal/processing"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
)

func envelope(t *testing.T, topic string, args ...any) pubsub.Envelope {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return pubsub.Envelope{Topic: topic, Args: raw}
}

func TestFragment(t *testing.T) {
	f := newFixture(t, connectedProvider())
	require.NoError(t, f.m.Init(context.Background()))
	f.m.WaitBalances()
	ctx := context.Background()

	t.Run("network detected", func(t *testing.T) {
		out, ok := f.m.Fragment(ctx, envelope(t, NetworkDetected.Name(), NetworkStatus{}))
		require.True(t, ok)
		assert.Contains(t, string(out), `id="network-label"`)
		assert.Contains(t, string(out), `hx-swap-oob="true"`)
		assert.Contains(t, string(out), "ropsten test network")
		assert.Contains(t, string(out), `id="account"`)
	})

	t.Run("account changed", func(t *testing.T) {
		out, ok := f.m.Fragment(ctx, envelope(t, AccountChanged.Name(), acct1.Hex()))
		require.True(t, ok)
		assert.Contains(t, string(out), `id="account-select"`)
		assert.Contains(t, string(out), `hx-post="/accounts/select"`)
	})

	t.Run("processing", func(t *testing.T) {
		out, ok := f.m.Fragment(ctx, envelope(t, processing.Show.Name(), "sending to Rocket Pool..."))
		require.True(t, ok)
		assert.Contains(t, string(out), `class="processing"`)
		assert.Contains(t, string(out), "sending to Rocket Pool...")

		out, ok = f.m.Fragment(ctx, envelope(t, processing.Hide.Name(), struct{}{}))
		require.True(t, ok)
		assert.Contains(t, string(out), `class="processing hidden"`)
	})

	t.Run("unrendered topic", func(t *testing.T) {
		_, ok := f.m.Fragment(ctx, envelope(t, NetworkChange.Name(), NetworkStatus{}))
		assert.False(t, ok)
	})

	t.Run("malformed show", func(t *testing.T) {
		_, ok := f.m.Fragment(ctx, pubsub.Envelope{Topic: processing.Show.Name(), Args: []byte(`{}`)})
		assert.False(t, ok)
	})
}
