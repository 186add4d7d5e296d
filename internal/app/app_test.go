package app

import (
	"context"
	"testing"
	"time"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketpool/rocketpool-web/internal/config"
	"github.com/rocketpool/rocketpool-web/internal/contact"
	"github.com/rocketpool/rocketpool-web/internal/dashboard"
	"github.com/rocketpool/rocketpool-web/internal/email"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
	"github.com/rocketpool/rocketpool-web/internal/websocket"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AppAddr:          ":0",
		RPCURL:           "http://127.0.0.1:1",
		ArtifactsDir:     t.TempDir(),
		EmailProvider:    "log",
		ContactRecipient: "team@rocketpool.net",
		LoadingDelay:     time.Millisecond,
	}
}

func TestNew_ResolvesServices(t *testing.T) {
	i := New(testConfig(t))
	defer i.ShutdownWithContext(context.Background())

	bus := do.MustInvoke[*pubsub.Bus](i)
	assert.Same(t, bus, do.MustInvoke[*pubsub.Bus](i), "services are singletons")

	store := do.MustInvoke[contact.Store](i)
	assert.IsType(t, &contact.MemoryStore{}, store, "no database configured")

	assert.IsType(t, &email.LogSender{}, do.MustInvoke[email.Sender](i))

	modules := do.MustInvoke[Modules](i)
	require.Len(t, modules, 2)
	assert.Equal(t, "dashboard", modules[0].Name())
	assert.Equal(t, "contact", modules[1].Name())

	assert.NotNil(t, do.MustInvoke[*websocket.Bridge](i))
}

func TestNew_MirrorAttachesPushTopics(t *testing.T) {
	i := New(testConfig(t))
	defer i.ShutdownWithContext(context.Background())

	bus := do.MustInvoke[*pubsub.Bus](i)
	do.MustInvoke[*pubsub.Mirror](i)
	for _, topic := range dashboard.PushTopics() {
		assert.GreaterOrEqual(t, bus.SubscriberCount(topic), 1, topic)
	}
}

func TestNew_Overrides(t *testing.T) {
	sender := email.NewLogSender("override@rocketpool.net", nil)
	i := New(testConfig(t), func(i do.Injector) {
		do.OverrideValue[email.Sender](i, sender)
	})
	defer i.ShutdownWithContext(context.Background())

	assert.Same(t, sender, do.MustInvoke[email.Sender](i))
}

func TestNew_BadEmailProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmailProvider = "carrier-pigeon"
	i := New(cfg)
	defer i.ShutdownWithContext(context.Background())

	_, err := do.Invoke[*contact.Service](i)
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestShutdown(t *testing.T) {
	i := New(testConfig(t))
	do.MustInvoke[Modules](i)
	do.MustInvoke[*pubsub.Mirror](i)

	report := i.ShutdownWithContext(context.Background())
	assert.True(t, report.Succeed, report.Error())
}
