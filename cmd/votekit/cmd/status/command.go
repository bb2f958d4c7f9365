// Package status implements the status command.
package status

import (
	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/diagnose"
)

// NewCommand creates the status command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		addresses []string
		flags     *cmdutil.ContractFlags
	)

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: "inspect",
		Short:   "Show candidates, tallies and who has voted",
		Long: `status prints the candidate list, the vote count of each candidate, the
owner, and whether each address has voted. Without --address the node's
accounts are checked.`,
		Example: `  votekit status
  votekit status --address 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs, err := cmdutil.ParseAddresses("address", addresses)
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

			if len(addrs) == 0 {
				if addrs, err = session.Node.Addresses(ctx); err != nil {
					return err
				}
				if len(addrs) > constants.MaxListedAccounts {
					addrs = addrs[:constants.MaxListedAccounts]
				}
			}

			return cmdutil.Emit(cmd, app, diagnose.VoteStatus(ctx, session.Client, addrs))
		},
	}

	flags = cmdutil.AddContractFlags(cmd)
	cmd.Flags().StringArrayVar(&addresses, "address", nil, "address to check (repeatable, default: node accounts)")

	return cmd
}
