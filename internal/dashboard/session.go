package dashboard

import (
	"sync"

	"github.com/rocketpool/rocketpool-web/internal/chain"
	"github.com/rocketpool/rocketpool-web/internal/processing"
)

// NoAccountsLabel is shown when the node exposes no accounts.
const NoAccountsLabel = "login with an ethereum browser or metamask to view accounts"

// AccountView is an account as rendered in the header and the account list.
type AccountView struct {
	Address       string `json:"address"`
	Short         string `json:"short"`
	Identicon     string `json:"identicon,omitempty"`
	Balance       string `json:"balance,omitempty"`
	BalanceLoaded bool   `json:"balance_loaded"`
}

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	Network           chain.Network    `json:"network"`
	Connected         bool             `json:"connected"`
	Account           *AccountView     `json:"account,omitempty"`
	AccountsAvailable bool             `json:"accounts_available"`
	AccountError      string           `json:"account_error,omitempty"`
	Accounts          []AccountView    `json:"accounts"`
	Processing        processing.State `json:"processing"`
}

// Session holds the state the dashboard builds up from bus publications.
// Handlers and balance lookups update it concurrently.
type Session struct {
	mu sync.RWMutex

	network   chain.Network
	connected bool

	account           *AccountView
	accountsAvailable bool
	accountError      string

	accounts []AccountView
	// listGen identifies the current account list; balance lookups started
	// for an older list are dropped.
	listGen uint64
}

// NewSession creates an empty, disconnected session.
func NewSession() *Session {
	return &Session{}
}

// Network returns the classified network and whether one is connected.
func (s *Session) Network() (chain.Network, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network, s.connected
}

// Status returns the network as a publication payload.
func (s *Session) Status() NetworkStatus {
	n, ok := s.Network()
	return NetworkStatus{Network: n, Connected: ok}
}

// CurrentAccount returns the selected address or "".
func (s *Session) CurrentAccount() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return ""
	}
	return s.account.Address
}

// Snapshot copies the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Network:           s.network,
		Connected:         s.connected,
		AccountsAvailable: s.accountsAvailable,
		AccountError:      s.accountError,
		Accounts:          append([]AccountView(nil), s.accounts...),
	}
	if s.account != nil {
		acct := *s.account
		snap.Account = &acct
	}
	return snap
}

func (s *Session) setNetwork(n chain.Network, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = n
	s.connected = connected
}

func (s *Session) setAccount(view *AccountView, available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = view
	s.accountsAvailable = available
	s.accountError = ""
	if !available {
		s.accountError = NoAccountsLabel
	}
}

// setAccountBalance updates the current account if it is still address.
func (s *Session) setAccountBalance(address, balance string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil || s.account.Address != address {
		return
	}
	s.account.Balance = balance
	s.account.BalanceLoaded = true
}

func (s *Session) setAccounts(views []AccountView) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listGen++
	s.accounts = views
	return s.listGen
}

// setListBalance updates entry idx of list generation gen.
func (s *Session) setListBalance(gen uint64, idx int, balance string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.listGen || idx < 0 || idx >= len(s.accounts) {
		return
	}
	s.accounts[idx].Balance = balance
	s.accounts[idx].BalanceLoaded = true
}
