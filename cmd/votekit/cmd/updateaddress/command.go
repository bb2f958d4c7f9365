// Package updateaddress implements the update-address command.
package updateaddress

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/internal/cmd/emoji"
	"github.com/ballotbox/votekit/pkg/addresspatch"
	"github.com/ballotbox/votekit/pkg/deployment"
	pkgerrors "github.com/ballotbox/votekit/pkg/errors"
)

// NewCommand creates the update-address command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		deploymentPath string
		target         string
		address        string
	)

	cmd := &cobra.Command{
		Use:     "update-address",
		GroupID: "contract",
		Short:   "Point the client at the deployed contract address",
		Long: `update-address rewrites the CONTRACT_ADDRESS constant in the client source
with the address from the deployment record (or --contract).

When the constant cannot be found the file is left untouched and the
address to set by hand is printed.`,
		Example: `  votekit update-address
  votekit update-address --target ../client/src/contexts/Web3Context.jsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths := app.Paths()
			if deploymentPath == "" {
				deploymentPath = paths.Deployment
			}
			if target == "" {
				target = paths.ClientContext
			}

			var addr common.Address
			if address != "" {
				if !common.IsHexAddress(address) {
					return pkgerrors.NewValidationError("contract", address, "not a hex address")
				}
				addr = common.HexToAddress(address)
			} else {
				record, err := deployment.Load(app.Store(), deploymentPath)
				if err != nil {
					if pkgerrors.IsNotFound(err) {
						return fmt.Errorf("%w: run deploy first", err)
					}
					return err
				}
				addr = record.Address()
			}

			out := cmd.OutOrStdout()
			result, err := addresspatch.PatchFile(app.Store(), target, addr)
			if errors.Is(err, addresspatch.ErrPatternNotFound) {
				app.Logger().Warn().Str("location", target).Msg("CONTRACT_ADDRESS pattern not found")
				_, _ = fmt.Fprintf(out, "%s Could not find CONTRACT_ADDRESS pattern in %s\n", emoji.Warning, target)
				_, _ = fmt.Fprintf(out, "%s Please manually update it to: %s\n", emoji.Info, addr.Hex())
				return nil
			}
			if err != nil {
				return err
			}

			if cmdutil.Structured(app) {
				return cmdutil.Emit(cmd, app, result)
			}
			if result.Changed {
				_, _ = fmt.Fprintf(out, "%s Updated contract address in %s\n", emoji.Success, target)
			} else {
				_, _ = fmt.Fprintf(out, "%s %s already points at the contract\n", emoji.Skipped, target)
			}
			_, _ = fmt.Fprintf(out, "%s New address: %s\n", emoji.Location, addr.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&deploymentPath, "deployment", "", "deployment record to read (default from config)")
	cmd.Flags().StringVar(&target, "target", "", "client source holding CONTRACT_ADDRESS (default from config)")
	cmd.Flags().StringVar(&address, "contract", "", "address to write, overrides the deployment record")

	return cmd
}
