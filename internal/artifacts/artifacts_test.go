package artifacts

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nodeContractJSON = `{
  "contractName": "RocketNodeContract",
  "abi": [
    {"type": "function", "name": "depositReserveCancel", "inputs": [], "outputs": [{"name": "", "type": "bool"}], "stateMutability": "nonpayable"},
    {"type": "event", "name": "DepositReserveCancel", "anonymous": false, "inputs": [
      {"name": "_from", "type": "address", "indexed": true},
      {"name": "created", "type": "uint256", "indexed": false}
    ]}
  ],
  "networks": {}
}`

const nodeAPIJSON = `{
  "contractName": "RocketNodeAPI",
  "abi": [],
  "networks": {"5777": {"address": "0x0000000000000000000000000000000000000abc"}}
}`

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("build/contracts", 0o755))
	writeFile(t, fs, "build/contracts/RocketNodeContract.json", nodeContractJSON)
	writeFile(t, fs, "build/contracts/RocketNodeAPI.json", nodeAPIJSON)
	writeFile(t, fs, "build/contracts/broken.json", `{"contractName": `)
	writeFile(t, fs, "build/contracts/README.md", "not an artifact")

	reg := NewRegistry(fs, "build/contracts")
	require.NoError(t, reg.Load())
	return reg
}

func TestRegistry_Load(t *testing.T) {
	reg := newTestRegistry(t)
	assert.Equal(t, []string{"RocketNodeAPI", "RocketNodeContract"}, reg.Names())
}

func TestRegistry_LoadMissingDir(t *testing.T) {
	reg := NewRegistry(afero.NewMemMapFs(), "nope")
	assert.Error(t, reg.Load())
}

func TestRegistry_ABI(t *testing.T) {
	reg := newTestRegistry(t)

	parsed, err := reg.ABI("RocketNodeContract")
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "depositReserveCancel")
	assert.Contains(t, parsed.Events, "DepositReserveCancel")

	_, err = reg.ABI("RocketPool")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Deployed(t *testing.T) {
	reg := newTestRegistry(t)

	addr, err := reg.Deployed("RocketNodeAPI", big.NewInt(5777))
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xabc"), addr)

	_, err = reg.Deployed("RocketNodeAPI", big.NewInt(1))
	assert.ErrorIs(t, err, ErrNotDeployed)

	_, err = reg.Deployed("RocketNodeContract", big.NewInt(5777))
	assert.ErrorIs(t, err, ErrNotDeployed)

	_, err = reg.Deployed("RocketNodeAPI", nil)
	assert.ErrorIs(t, err, ErrNotDeployed)
}

func TestParse(t *testing.T) {
	_, err := Parse([]byte(`{"abi": []}`))
	assert.Error(t, err, "contractName is required")

	a, err := Parse([]byte(`{"contractName": "Empty"}`))
	require.NoError(t, err)
	assert.Empty(t, a.ABI().Methods)
}

func TestHandleFileEvent_Reloads(t *testing.T) {
	reg := newTestRegistry(t)
	writeFile(t, reg.fs, "build/contracts/RocketNodeSettings.json", `{"contractName": "RocketNodeSettings", "abi": []}`)

	reg.handleFileEvent(fsnotify.Event{Name: "build/contracts/notes.txt", Op: fsnotify.Write})
	assert.NotContains(t, reg.Names(), "RocketNodeSettings")

	reg.handleFileEvent(fsnotify.Event{Name: "build/contracts/RocketNodeSettings.json", Op: fsnotify.Create})
	assert.Contains(t, reg.Names(), "RocketNodeSettings")
}

func TestWatch(t *testing.T) {
	t.Run("memory fs is rejected", func(t *testing.T) {
		reg := newTestRegistry(t)
		assert.ErrorIs(t, reg.Watch(context.Background()), ErrWatchUnsupported)
	})

	t.Run("os fs reloads on change", func(t *testing.T) {
		dir := t.TempDir()
		reg := NewRegistry(afero.NewOsFs(), dir)
		require.NoError(t, reg.Load())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		require.NoError(t, reg.Watch(ctx))

		require.NoError(t, os.WriteFile(filepath.Join(dir, "RocketNodeAPI.json"), []byte(nodeAPIJSON), 0o644))

		assert.Eventually(t, func() bool {
			_, err := reg.Get("RocketNodeAPI")
			return err == nil
		}, 5*time.Second, 20*time.Millisecond)
	})
}
