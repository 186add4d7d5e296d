// Package chain wraps the Ethereum node the application talks to.
//
// Everything the UI and the CLI need from a node goes through Provider, so
// both can be exercised against a fake in tests.
package chain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrNoAccounts is returned when the node exposes no unlocked accounts.
var ErrNoAccounts = errors.New("chain: no accounts available")

// CallRequest describes a message for gas estimation.
type CallRequest struct {
	From  common.Address
	To    *common.Address
	Data  []byte
	Value *big.Int
}

// TxRequest describes a transaction signed by a node-managed account.
type TxRequest struct {
	From  common.Address
	To    *common.Address
	Gas   uint64
	Data  []byte
	Value *big.Int
}

// Provider is the set of node capabilities the application depends on.
type Provider interface {
	NetworkID(ctx context.Context) (*big.Int, error)
	Accounts(ctx context.Context) ([]common.Address, error)
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	EstimateGas(ctx context.Context, call CallRequest) (uint64, error)
	SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error)
	Receipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// RPCProvider implements Provider over JSON-RPC.
type RPCProvider struct {
	rpc    *rpc.Client
	eth    *ethclient.Client
	logger *slog.Logger
}

var _ Provider = (*RPCProvider)(nil)

// Dial connects to the node at url (http, ws or ipc).
func Dial(ctx context.Context, url string) (*RPCProvider, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", url, err)
	}
	p := NewRPCProvider(c)
	p.logger.Debug("Connected to node", "url", url)
	return p, nil
}

// NewRPCProvider wraps an existing RPC client.
func NewRPCProvider(c *rpc.Client) *RPCProvider {
	return &RPCProvider{
		rpc:    c,
		eth:    ethclient.NewClient(c),
		logger: slog.Default().With("component", "chain"),
	}
}

// NetworkID returns the node's network id (net_version).
func (p *RPCProvider) NetworkID(ctx context.Context) (*big.Int, error) {
	return p.eth.NetworkID(ctx)
}

// Accounts returns the node-managed accounts (eth_accounts).
func (p *RPCProvider) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := p.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}
	return accounts, nil
}

// Balance returns the latest balance of account in wei.
func (p *RPCProvider) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	return p.eth.BalanceAt(ctx, account, nil)
}

// EstimateGas asks the node for the gas needed to execute call.
func (p *RPCProvider) EstimateGas(ctx context.Context, call CallRequest) (uint64, error) {
	return p.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  call.From,
		To:    call.To,
		Data:  call.Data,
		Value: call.Value,
	})
}

// SendTransaction submits tx for signing by the node (eth_sendTransaction).
func (p *RPCProvider) SendTransaction(ctx context.Context, tx TxRequest) (common.Hash, error) {
	args := map[string]any{
		"from": tx.From,
		"gas":  hexutil.Uint64(tx.Gas),
	}
	if tx.To != nil {
		args["to"] = tx.To
	}
	if len(tx.Data) > 0 {
		args["data"] = hexutil.Bytes(tx.Data)
	}
	if tx.Value != nil {
		args["value"] = (*hexutil.Big)(tx.Value)
	}

	var hash common.Hash
	if err := p.rpc.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return common.Hash{}, fmt.Errorf("eth_sendTransaction: %w", err)
	}
	return hash, nil
}

// Receipt returns the receipt of a mined transaction, or ethereum.NotFound.
func (p *RPCProvider) Receipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return p.eth.TransactionReceipt(ctx, hash)
}

// Close releases the underlying connection.
func (p *RPCProvider) Close() {
	p.rpc.Close()
}

// FirstAccount returns the first node account (the "coinbase" default).
func FirstAccount(ctx context.Context, p Provider) (common.Address, error) {
	accounts, err := p.Accounts(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(accounts) == 0 {
		return common.Address{}, ErrNoAccounts
	}
	return accounts[0], nil
}

// WaitReceipt polls p until the transaction is mined or ctx is done.
func WaitReceipt(ctx context.Context, p Provider, hash common.Hash, interval time.Duration) (*types.Receipt, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := p.Receipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to fetch receipt %s: %w", hash.Hex(), err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
