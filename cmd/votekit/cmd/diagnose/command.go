// Package diagnose implements the diagnose command.
package diagnose

import (
	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/pkg/constants"
	report "github.com/ballotbox/votekit/pkg/diagnose"
)

// NewCommand creates the diagnose command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		probes []string
		flags  *cmdutil.ContractFlags
	)

	cmd := &cobra.Command{
		Use:     "diagnose",
		GroupID: "inspect",
		Short:   "Check that the deployed contract answers every read",
		Long: `diagnose reports the network, whether code exists at the contract address,
the owner, the functions the ABI exposes, hasVoted and checkVoteStatus for
each probe address, and the candidate tallies. A failed read is reported
and the remaining reads still run.`,
		Example: `  votekit diagnose
  votekit diagnose --probe 0x70997970C51812dc3A010C7d01b50e0d17dc79C8 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := cmdutil.ParseAddresses("probe", probes)
			if err != nil {
				return err
			}

			ctx, cancel := cmdutil.CommandContext(cmd, app)
			defer cancel()

			session, err := cmdutil.Connect(ctx, app, flags)
			if err != nil {
				return err
			}
			defer session.Close()

			return cmdutil.Emit(cmd, app, report.Diagnose(ctx, session.Client, session.Record, addrs))
		},
	}

	flags = cmdutil.AddContractFlags(cmd)
	cmd.Flags().StringArrayVar(&probes, "probe", []string{constants.DefaultProbeAddress}, "address to probe hasVoted and checkVoteStatus with (repeatable)")

	return cmd
}
