package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/rocketpool/rocketpool-web/internal/artifacts"
	"github.com/rocketpool/rocketpool-web/internal/chain"
	"github.com/rocketpool/rocketpool-web/internal/config"
	"github.com/rocketpool/rocketpool-web/internal/nodecontract"
)

type nodeOptions struct {
	rpcURL       string
	artifactsDir string
	timeout      time.Duration
	fs           afero.Fs
}

// dialProvider connects to the node; tests replace it.
var dialProvider = func(ctx context.Context, url string) (chain.Provider, error) {
	return chain.Dial(ctx, url)
}

func newNodeCommand() *cobra.Command {
	cfg := config.FromEnv()
	opts := &nodeOptions{fs: afero.NewOsFs()}

	nodeCmd := &cobra.Command{
		Use:   "node",
		Short: "Node contract operations",
	}
	nodeCmd.PersistentFlags().StringVar(&opts.rpcURL, "rpc", cfg.GetRPCURL(), "Ethereum node JSON-RPC endpoint")
	nodeCmd.PersistentFlags().StringVar(&opts.artifactsDir, "artifacts", cfg.GetArtifactsDir(), "Directory of compiled contract artifacts")
	nodeCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "Give up waiting for the node after this long")

	nodeCmd.AddCommand(&cobra.Command{
		Use:   "deposit-reservation-cancel <node-contract-address>",
		Short: "Cancel the pending deposit reservation of a node contract",
		Long: `Sends depositReserveCancel to the node contract from the node's first account,
waits for the transaction to be mined and prints the events it emitted.`,
		Example: "  rocketpool node deposit-reservation-cancel 0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		// Validated before RunE so bad input never reaches the dialer.
		Args: func(cmd *cobra.Command, args []string) error {
			_, err := nodecontract.ValidateArgs(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.cancelReservation(cmd, args)
		},
	})
	return nodeCmd
}

func (o *nodeOptions) cancelReservation(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	reg := artifacts.NewRegistry(o.fs, o.artifactsDir)
	if err := reg.Load(); err != nil {
		// Run reports the missing contract once arguments are known to be valid.
		slog.Debug("Failed to load artifacts", "dir", o.artifactsDir, "error", err)
	}

	provider, err := dialProvider(ctx, o.rpcURL)
	if err != nil {
		return err
	}
	if closer, ok := provider.(interface{ Close() }); ok {
		defer closer.Close()
	}

	op := nodecontract.NewCancelReservation(nodecontract.Dependencies{
		Provider:  provider,
		Artifacts: reg,
		Out:       cmd.OutOrStdout(),
	})
	_, err = op.Run(ctx, args)
	return err
}
