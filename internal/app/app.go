// Package app wires the web server's services together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"

	"github.com/rocketpool/rocketpool-web/internal/artifacts"
	"github.com/rocketpool/rocketpool-web/internal/chain"
	"github.com/rocketpool/rocketpool-web/internal/config"
	"github.com/rocketpool/rocketpool-web/internal/contact"
	"github.com/rocketpool/rocketpool-web/internal/database"
	"github.com/rocketpool/rocketpool-web/internal/email"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
	"github.com/rocketpool/rocketpool-web/internal/rendering"
)

// New returns an injector with every service of the web server registered.
// Services are built lazily on first use.
func New(cfg config.Provider, overrides ...func(do.Injector)) *do.RootScope {
	i := do.New(Package(cfg))
	for _, o := range overrides {
		o(i)
	}
	return i
}

// Package registers the service providers for cfg.
func Package(cfg config.Provider) func(do.Injector) {
	return do.Package(
		do.Eager[config.Provider](cfg),
		do.Lazy(provideTracing),
		do.Lazy(provideBus),
		do.Lazy(provideMirror),
		do.Lazy(provideOverlay),
		do.Lazy(provideChain),
		do.Lazy(provideArtifacts),
		do.Lazy(provideRenderer),
		do.Lazy(provideEmail),
		do.Lazy(provideContactStore),
		do.Lazy(provideContactService),
		do.Lazy(provideDashboard),
		do.Lazy(provideContact),
		do.Lazy(provideBridge),
		do.Lazy(provideModules),
	)
}

// Tracing owns the tracer used by the bus.
type Tracing struct {
	Tracer  trace.Tracer
	cleanup func()
}

func (t *Tracing) Shutdown(context.Context) error {
	t.cleanup()
	return nil
}

func provideTracing(i do.Injector) (*Tracing, error) {
	tracer, cleanup, err := pubsub.SetupOTel(context.Background(), pubsub.LoadTracingConfigFromEnv())
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	return &Tracing{Tracer: tracer, cleanup: cleanup}, nil
}

func provideBus(i do.Injector) (*pubsub.Bus, error) {
	tracing, err := do.Invoke[*Tracing](i)
	if err != nil {
		return nil, err
	}
	return pubsub.NewBus(pubsub.WithTracer(tracing.Tracer)), nil
}

func provideChain(i do.Injector) (chain.Provider, error) {
	cfg := do.MustInvoke[config.Provider](i)
	p, err := chain.Dial(context.Background(), cfg.GetRPCURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum node: %w", err)
	}
	return &closingProvider{RPCProvider: p}, nil
}

// closingProvider lets the container close the RPC client.
type closingProvider struct {
	*chain.RPCProvider
}

func (p *closingProvider) Shutdown(context.Context) error {
	p.Close()
	return nil
}

func provideArtifacts(i do.Injector) (*artifacts.Registry, error) {
	cfg := do.MustInvoke[config.Provider](i)
	reg := artifacts.NewRegistry(afero.NewOsFs(), cfg.GetArtifactsDir())
	if err := reg.Load(); err != nil {
		// The dashboard works without artifacts.
		slog.Warn("Contract artifacts unavailable", "dir", cfg.GetArtifactsDir(), "error", err)
	}
	return reg, nil
}

func provideRenderer(i do.Injector) (rendering.Renderer, error) {
	return rendering.NewUniversalRenderer(), nil
}

func provideEmail(i do.Injector) (email.Sender, error) {
	return email.NewSender(do.MustInvoke[config.Provider](i))
}

func provideContactStore(i do.Injector) (contact.Store, error) {
	cfg := do.MustInvoke[config.Provider](i)
	db, err := database.NewDB(context.Background(), cfg)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		slog.Info("SurrealDB not configured, keeping enquiries in memory")
		return contact.NewMemoryStore(), nil
	case err != nil:
		return nil, err
	}
	return contact.NewSurrealStore(db), nil
}

func provideContactService(i do.Injector) (*contact.Service, error) {
	store, err := do.Invoke[contact.Store](i)
	if err != nil {
		return nil, err
	}
	sender, err := do.Invoke[email.Sender](i)
	if err != nil {
		return nil, err
	}
	cfg := do.MustInvoke[config.Provider](i)
	return contact.NewService(store, sender, cfg.GetContactRecipient()), nil
}
