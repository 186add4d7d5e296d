// Package dashboard is the landing page module: it detects the network the
// node is on, tracks the selected account and lists the node's accounts with
// their balances. All coordination happens through bus publications.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocketpool/rocketpool-web/internal/chain"
	"github.com/rocketpool/rocketpool-web/internal/identicon"
	"github.com/rocketpool/rocketpool-web/internal/module"
	"github.com/rocketpool/rocketpool-web/internal/processing"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
	"github.com/rocketpool/rocketpool-web/internal/registry"
	"github.com/rocketpool/rocketpool-web/internal/rendering"
)

const (
	// LoadingMessage is shown while the node is being contacted.
	LoadingMessage = "looking for ethereum blockchain..."
	// DefaultLoadingDelay is how long the loading overlay stays up.
	DefaultLoadingDelay = 2 * time.Second

	balanceTimeout = 10 * time.Second
)

// SessionKey exposes the dashboard session to other modules.
var SessionKey = registry.Key[*Session]("dashboard.session")

// Dependencies holds the services the dashboard needs.
type Dependencies struct {
	Bus          pubsub.PubSub
	Provider     chain.Provider
	Renderer     rendering.Renderer
	Overlay      *processing.Overlay
	Scheduler    processing.Scheduler
	LoadingDelay time.Duration
	Now          func() time.Time
}

// Module implements module.Module for the dashboard.
type Module struct {
	module.BaseModule

	bus          pubsub.PubSub
	provider     chain.Provider
	renderer     rendering.Renderer
	overlay      *processing.Overlay
	scheduler    processing.Scheduler
	loadingDelay time.Duration
	now          func() time.Time

	session *Session
	logger  *slog.Logger

	mu   sync.Mutex
	subs []*pubsub.Subscription
	// balances tracks in-flight balance lookups.
	balances sync.WaitGroup
}

var _ module.Module = (*Module)(nil)

// New creates the dashboard module.
func New(deps Dependencies) *Module {
	m := &Module{
		bus:          deps.Bus,
		provider:     deps.Provider,
		renderer:     deps.Renderer,
		overlay:      deps.Overlay,
		scheduler:    deps.Scheduler,
		loadingDelay: deps.LoadingDelay,
		now:          deps.Now,
		session:      NewSession(),
		logger:       slog.Default().With("module", ModuleName),
	}
	if m.scheduler == nil {
		m.scheduler = processing.TimerScheduler{}
	}
	if m.loadingDelay <= 0 {
		m.loadingDelay = DefaultLoadingDelay
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.renderer == nil {
		m.renderer = rendering.NewUniversalRenderer()
	}
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "dashboard"
}

// Session returns the module's session.
func (m *Module) Session() *Session {
	return m.session
}

// Register shares the session through the registry.
func (m *Module) Register(reg *registry.Registry) error {
	registry.Set(reg, SessionKey, m.session)
	return nil
}

// Boot mounts the routes and runs Init.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	NewHandler(m).Mount(g)
	if cfg := reg.Config(); cfg != nil {
		m.logger.Info("Dashboard mounted", "url", cfg.GetAppBaseURL())
	}
	return m.Init(ctx)
}

// Shutdown detaches the module from the bus and waits for balance lookups.
func (m *Module) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	for _, sub := range m.subs {
		sub.Close()
	}
	m.subs = nil
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.balances.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Init shows the loading overlay, subscribes the account handlers, announces
// the initial network settings, detects the network and schedules the
// overlay to hide.
func (m *Module) Init(ctx context.Context) error {
	pubsub.Publish(ctx, m.bus, processing.Show, LoadingMessage)

	if err := m.subscribe(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}

	pubsub.Publish(ctx, m.bus, NetworkChange, m.session.Status())

	m.UpdateNetwork(ctx)

	processing.HideAfter(ctx, m.bus, m.scheduler, m.loadingDelay)
	return nil
}

func (m *Module) subscribe() error {
	handlers := []struct {
		event pubsub.Event[NetworkStatus]
		fn    func(context.Context, NetworkStatus) error
	}{
		{NetworkDetected, func(ctx context.Context, _ NetworkStatus) error { return m.setAccount(ctx, "") }},
		{NetworkDetected, func(ctx context.Context, _ NetworkStatus) error { return m.setAccountList(ctx) }},
	}

	var subs []*pubsub.Subscription
	for _, h := range handlers {
		sub, err := pubsub.Subscribe(m.bus, h.event, h.fn)
		if err != nil {
			return err
		}
		subs = append(subs, sub)
	}
	sub, err := pubsub.Subscribe(m.bus, AccountChanged, m.setAccount)
	if err != nil {
		return err
	}
	subs = append(subs, sub)

	m.mu.Lock()
	m.subs = append(m.subs, subs...)
	m.mu.Unlock()
	return nil
}

// UpdateNetwork asks the node for its network id, classifies it and publishes
// NetworkDetected. A failed lookup is logged and leaves the session untouched.
func (m *Module) UpdateNetwork(ctx context.Context) {
	id, err := m.provider.NetworkID(ctx)
	if err != nil {
		m.logger.Error("Failed to detect network", "error", err)
		return
	}

	network, connected := chain.Classify(id)
	m.session.setNetwork(network, connected)

	pubsub.Publish(ctx, m.bus, NetworkDetected, NetworkStatus{Network: network, Connected: connected})
	m.logger.Info("Connected to: "+network.Label, "network_id", id.String())
}

// SelectAccount validates address and announces it as the selected account.
func (m *Module) SelectAccount(ctx context.Context, address string) error {
	addr, err := chain.ParseAddress(address)
	if err != nil {
		return err
	}
	pubsub.Publish(ctx, m.bus, AccountChanged, addr.Hex())
	return nil
}

// setAccount picks the current account. With no current account on a
// connected network the node's first account is used; an explicit address
// always wins. Whether any accounts exist is checked separately from the
// address argument.
func (m *Module) setAccount(ctx context.Context, address string) error {
	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		m.logger.Warn("Failed to list accounts", "error", err)
		accounts = nil
	}
	available := len(accounts) > 0

	current := m.session.CurrentAccount()
	if _, connected := m.session.Network(); current == "" && connected && available {
		current = accounts[0].Hex()
	}
	if address != "" {
		current = address
	}

	if current == "" {
		m.session.setAccount(nil, available)
		return nil
	}

	view := m.accountView(current)
	m.session.setAccount(&view, available)
	m.fetchBalance(ctx, current, func(balance string) {
		m.session.setAccountBalance(current, balance)
	})
	return nil
}

// setAccountList rebuilds the account list from every node account. Each
// balance is fetched on its own goroutine and only touches its own entry.
func (m *Module) setAccountList(ctx context.Context) error {
	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		m.logger.Warn("Failed to list accounts", "error", err)
		accounts = nil
	}

	views := make([]AccountView, len(accounts))
	for i, acct := range accounts {
		views[i] = m.accountView(acct.Hex())
	}
	gen := m.session.setAccounts(views)

	for i, view := range views {
		m.fetchBalance(ctx, view.Address, func(balance string) {
			m.session.setListBalance(gen, i, balance)
		})
	}
	return nil
}

func (m *Module) accountView(address string) AccountView {
	view := AccountView{
		Address: address,
		Short:   chain.ShortLabel(address, chain.DefaultShortLabelLength),
	}
	icon, err := identicon.New(address, identicon.Options{Size: 8, Scale: 16}).DataURL()
	if err != nil {
		m.logger.Warn("Failed to render identicon", "address", address, "error", err)
	}
	view.Identicon = icon
	return view
}

// fetchBalance looks up the ether balance of address in the background and
// hands it to apply. Lookups outlive the publication that started them.
func (m *Module) fetchBalance(ctx context.Context, address string, apply func(balance string)) {
	addr, err := chain.ParseAddress(address)
	if err != nil {
		m.logger.Warn("Skipping balance of invalid address", "address", address)
		return
	}

	ctx = context.WithoutCancel(ctx)
	m.balances.Add(1)
	go func() {
		defer m.balances.Done()

		ctx, cancel := context.WithTimeout(ctx, balanceTimeout)
		defer cancel()

		wei, err := m.provider.Balance(ctx, addr)
		if err != nil {
			m.logger.Warn("Failed to fetch balance", "address", address, "error", err)
			return
		}
		apply(chain.FromWei(wei, chain.UnitEther))
	}()
}

// WaitBalances blocks until all started balance lookups have finished.
func (m *Module) WaitBalances() {
	m.balances.Wait()
}

// Snapshot returns the session including the overlay state.
func (m *Module) Snapshot() Snapshot {
	snap := m.session.Snapshot()
	if m.overlay != nil {
		snap.Processing = m.overlay.State()
	}
	return snap
}
