// Package deploy implements the deploy command.
package deploy

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/internal/cmd/emoji"
	"github.com/ballotbox/votekit/pkg/artifact"
	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/deployment"
	"github.com/ballotbox/votekit/pkg/errors"
)

// Flags holds the deploy flags.
type Flags struct {
	Artifact   string
	Deployment string
	Candidates []string
	From       string
}

// Result is the structured output of deploy.
type Result struct {
	Record     *deployment.Record `json:"record" yaml:"record"`
	TxHash     string             `json:"txHash" yaml:"txHash"`
	Block      uint64             `json:"block" yaml:"block"`
	Candidates []string           `json:"candidates" yaml:"candidates"`
	Location   string             `json:"location" yaml:"location"`
}

// NewCommand creates the deploy command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "deploy",
		GroupID: "contract",
		Short:   "Deploy the voting contract and record its address",
		Long: `deploy creates the voting contract from the build artifact with the given
initial candidates, writes the deployment record and reads the candidate
list back from the new contract.`,
		Example: `  votekit deploy
  votekit deploy --candidates Alice,Bob
  votekit deploy --from 0x70997970C51812dc3A010C7d01b50e0d17dc79C8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Artifact, "artifact", "", "build artifact to deploy (default from config)")
	cmd.Flags().StringVar(&flags.Deployment, "deployment", "", "deployment record to write (default from config)")
	cmd.Flags().StringSliceVar(&flags.Candidates, "candidates", constants.DefaultCandidates, "initial candidates")
	cmd.Flags().StringVar(&flags.From, "from", "", "deployer account (default: first node account)")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	paths := app.Paths()
	if flags.Artifact == "" {
		flags.Artifact = paths.Artifact
	}
	if flags.Deployment == "" {
		flags.Deployment = paths.Deployment
	}

	ctx, cancel := cmdutil.CommandContext(cmd, app)
	defer cancel()

	structured := cmdutil.Structured(app)
	out := cmd.OutOrStdout()
	say := func(format string, args ...any) {
		if !structured {
			_, _ = fmt.Fprintf(out, format, args...)
		}
	}

	art, err := artifact.Load(app.Store(), flags.Artifact)
	if err != nil {
		return err
	}

	node, err := app.Dial(ctx)
	if err != nil {
		return err
	}
	defer node.Close()

	var from common.Address
	if flags.From != "" {
		if !common.IsHexAddress(flags.From) {
			return errors.NewValidationError("from", flags.From, "not a hex address")
		}
		from = common.HexToAddress(flags.From)
	} else if from, err = node.DefaultAccount(ctx); err != nil {
		return err
	}

	say("%s Starting deployment...\n", emoji.Rocket)
	say("%s Deploying %s from %s\n", emoji.Account, art.ContractName, from.Hex())

	deployed, err := node.Deploy(ctx, from, art.Code(), art.ABI, flags.Candidates)
	if err != nil {
		return err
	}
	say("%s %s deployed to: %s\n", emoji.Success, art.ContractName, deployed.Address.Hex())

	network := app.Network()
	chainID := network.ChainID
	if info, err := node.Network(ctx); err == nil && info.ChainID != nil {
		chainID = info.ChainID.Int64()
	}

	record := deployment.NewRecord(deployed.Address, network.Name, chainID, flags.Candidates)
	if err := deployment.Save(app.Store(), record, flags.Deployment); err != nil {
		return err
	}
	say("%s Deployment info saved to %s\n", emoji.Write, flags.Deployment)

	client, err := contract.Attach(node, deployed.Address, art.ABI)
	if err != nil {
		return err
	}
	candidates, err := client.AllCandidates(ctx)
	if err != nil {
		return err
	}

	app.Logger().Info().
		Str("contract", deployed.Address.Hex()).
		Str("tx", deployed.TxHash.Hex()).
		Uint64("block", deployed.Block).
		Msg("Contract deployed")

	if structured {
		return cmdutil.Emit(cmd, app, &Result{
			Record:     record,
			TxHash:     deployed.TxHash.Hex(),
			Block:      deployed.Block,
			Candidates: candidates,
			Location:   flags.Deployment,
		})
	}

	say("%s Candidates: %s\n", emoji.Candidates, strings.Join(candidates, ", "))
	say("\n%s Contract address: %s\n", emoji.Location, deployed.Address.Hex())
	say("%s Network: %s (chain %d)\n", emoji.Info, network.Name, chainID)
	return nil
}
