// Package nodecontract implements node-contract maintenance operations run
// from the command line against a Rocket Pool deployment.
package nodecontract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rocketpool/rocketpool-web/internal/chain"
)

// Contract names resolved through the artifact registry.
const (
	NodeAPIContract      = "RocketNodeAPI"
	NodeContractContract = "RocketNodeContract"
	NodeSettingsContract = "RocketNodeSettings"

	cancelMethod = "depositReserveCancel"
)

// These messages are shown to the operator verbatim.
var (
	ErrUsage          = errors.New("Incorrect number of arguments. Please enter: node contract address.")
	ErrInvalidAddress = errors.New("Node contract address is invalid.")
)

// Artifacts resolves contract ABIs and deployment addresses.
type Artifacts interface {
	ABI(name string) (abi.ABI, error)
	Deployed(name string, networkID *big.Int) (common.Address, error)
}

// EventArg is a single decoded event argument.
type EventArg struct {
	Name  string
	Value any
}

// Event is a decoded contract log.
type Event struct {
	Name string
	Args []EventArg
}

// Result describes a completed cancellation.
type Result struct {
	NodeContract string
	From         common.Address
	GasEstimate  uint64
	TxHash       common.Hash
	Events       []Event
}

// Dependencies holds the collaborators of a CancelReservation.
type Dependencies struct {
	Provider     chain.Provider
	Artifacts    Artifacts
	Out          io.Writer
	PollInterval time.Duration
}

// CancelReservation cancels the pending deposit reservation of a node contract.
type CancelReservation struct {
	provider     chain.Provider
	artifacts    Artifacts
	out          io.Writer
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewCancelReservation creates the operation.
func NewCancelReservation(deps Dependencies) *CancelReservation {
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	interval := deps.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &CancelReservation{
		provider:     deps.Provider,
		artifacts:    deps.Artifacts,
		out:          out,
		pollInterval: interval,
		logger:       slog.Default().With("operation", "node.deposit-reservation-cancel"),
	}
}

// ValidateArgs checks that args hold exactly one well-formed node contract
// address. It needs no node connection.
func ValidateArgs(args []string) (common.Address, error) {
	if len(args) != 1 {
		return common.Address{}, ErrUsage
	}
	target, err := chain.ParseAddress(args[0])
	if err != nil {
		return common.Address{}, ErrInvalidAddress
	}
	return target, nil
}

// Run validates args with ValidateArgs, sends the cancellation from the first
// node account and prints the emitted events.
func (op *CancelReservation) Run(ctx context.Context, args []string) (*Result, error) {
	target, err := ValidateArgs(args)
	if err != nil {
		return nil, err
	}

	from, err := chain.FirstAccount(ctx, op.provider)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	networkID, err := op.provider.NetworkID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read network id: %w", err)
	}
	for _, name := range []string{NodeAPIContract, NodeSettingsContract} {
		if _, err := op.artifacts.Deployed(name, networkID); err != nil {
			return nil, err
		}
	}
	contractABI, err := op.artifacts.ABI(NodeContractContract)
	if err != nil {
		return nil, err
	}

	data, err := contractABI.Pack(cancelMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", cancelMethod, err)
	}

	gas, err := op.provider.EstimateGas(ctx, chain.CallRequest{From: from, To: &target, Data: data})
	if err != nil {
		return nil, fmt.Errorf("gas estimation failed: %w", err)
	}
	op.logger.Debug("Estimated gas", "gas", gas, "node_contract", target.Hex())

	hash, err := op.provider.SendTransaction(ctx, chain.TxRequest{From: from, To: &target, Gas: gas, Data: data})
	if err != nil {
		return nil, fmt.Errorf("transaction failed: %w", err)
	}

	receipt, err := chain.WaitReceipt(ctx, op.provider, hash, op.pollInterval)
	if err != nil {
		return nil, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, fmt.Errorf("transaction %s reverted", hash.Hex())
	}

	result := &Result{
		NodeContract: args[0],
		From:         from,
		GasEstimate:  gas,
		TxHash:       hash,
		Events:       DecodeEvents(contractABI, receipt.Logs),
	}

	if err := Print(op.out, result); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeEvents decodes the logs whose signature is known to contractABI.
// Arguments keep the ABI declaration order.
func DecodeEvents(contractABI abi.ABI, logs []*types.Log) []Event {
	var events []Event
	for _, lg := range logs {
		if lg == nil || len(lg.Topics) == 0 {
			continue
		}
		ev, err := contractABI.EventByID(lg.Topics[0])
		if err != nil {
			continue
		}

		values := make(map[string]any)
		if len(lg.Data) > 0 {
			if err := contractABI.UnpackIntoMap(values, ev.Name, lg.Data); err != nil {
				slog.Warn("Failed to decode event data", "event", ev.Name, "error", err)
				continue
			}
		}
		var indexed abi.Arguments
		for _, in := range ev.Inputs {
			if in.Indexed {
				indexed = append(indexed, in)
			}
		}
		if err := abi.ParseTopicsIntoMap(values, indexed, lg.Topics[1:]); err != nil {
			slog.Warn("Failed to decode event topics", "event", ev.Name, "error", err)
			continue
		}

		decoded := Event{Name: ev.Name}
		for _, in := range ev.Inputs {
			decoded.Args = append(decoded.Args, EventArg{Name: in.Name, Value: values[in.Name]})
		}
		events = append(events, decoded)
	}
	return events
}
