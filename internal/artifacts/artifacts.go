// Package artifacts loads compiled contract artifacts (truffle build output)
// and resolves their ABIs and per-network deployment addresses.
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when no artifact with the requested name is loaded.
	ErrNotFound = errors.New("artifacts: contract not found")
	// ErrNotDeployed is returned when a contract has no address on the requested network.
	ErrNotDeployed = errors.New("artifacts: contract not deployed on network")
)

// Deployment is the per-network entry of an artifact.
type Deployment struct {
	Address         string `json:"address"`
	TransactionHash string `json:"transactionHash,omitempty"`
}

// Artifact is a single compiled contract.
type Artifact struct {
	ContractName string                `json:"contractName"`
	RawABI       json.RawMessage       `json:"abi"`
	Networks     map[string]Deployment `json:"networks"`

	abi abi.ABI
}

// ABI returns the parsed contract ABI.
func (a *Artifact) ABI() abi.ABI {
	return a.abi
}

// Address returns the deployment address on networkID.
func (a *Artifact) Address(networkID *big.Int) (common.Address, error) {
	if networkID == nil {
		return common.Address{}, fmt.Errorf("%s: %w", a.ContractName, ErrNotDeployed)
	}
	d, ok := a.Networks[networkID.String()]
	if !ok || !common.IsHexAddress(d.Address) {
		return common.Address{}, fmt.Errorf("%s on network %s: %w", a.ContractName, networkID, ErrNotDeployed)
	}
	return common.HexToAddress(d.Address), nil
}

// Parse decodes an artifact document.
func Parse(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}
	if a.ContractName == "" {
		return nil, errors.New("artifact has no contractName")
	}
	if len(a.RawABI) == 0 {
		a.RawABI = json.RawMessage("[]")
	}

	parsed, err := abi.JSON(bytes.NewReader(a.RawABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", a.ContractName, err)
	}
	a.abi = parsed
	return &a, nil
}

// Registry holds the artifacts found in a build directory.
type Registry struct {
	fs  afero.Fs
	dir string

	mu        sync.RWMutex
	artifacts map[string]*Artifact
	logger    *slog.Logger
}

// NewRegistry creates a registry reading dir on fs. Call Load to populate it.
func NewRegistry(fs afero.Fs, dir string) *Registry {
	return &Registry{
		fs:        fs,
		dir:       dir,
		artifacts: make(map[string]*Artifact),
		logger:    slog.Default().With("component", "artifacts"),
	}
}

// Dir returns the directory the registry reads from.
func (r *Registry) Dir() string {
	return r.dir
}

// Load (re)reads every *.json file in the directory. Files that fail to parse
// are logged and skipped; the previous contents are replaced atomically.
func (r *Registry) Load() error {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		return fmt.Errorf("failed to read artifacts directory %s: %w", r.dir, err)
	}

	loaded := make(map[string]*Artifact, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isArtifactFile(entry.Name()) {
			continue
		}
		path := filepath.Join(r.dir, entry.Name())
		data, err := afero.ReadFile(r.fs, path)
		if err != nil {
			r.logger.Warn("Failed to read artifact", "path", path, "error", err)
			continue
		}
		a, err := Parse(data)
		if err != nil {
			r.logger.Warn("Skipping invalid artifact", "path", path, "error", err)
			continue
		}
		loaded[a.ContractName] = a
	}

	r.mu.Lock()
	r.artifacts = loaded
	r.mu.Unlock()

	r.logger.Debug("Loaded contract artifacts", "dir", r.dir, "count", len(loaded))
	return nil
}

// Get returns the artifact called name.
func (r *Registry) Get(name string) (*Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return a, nil
}

// ABI returns the parsed ABI of name.
func (r *Registry) ABI(name string) (abi.ABI, error) {
	a, err := r.Get(name)
	if err != nil {
		return abi.ABI{}, err
	}
	return a.ABI(), nil
}

// Deployed returns the address of name on networkID.
func (r *Registry) Deployed(name string, networkID *big.Int) (common.Address, error) {
	a, err := r.Get(name)
	if err != nil {
		return common.Address{}, err
	}
	return a.Address(networkID)
}

// Names lists the loaded contract names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.artifacts))
	for name := range r.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isArtifactFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}
