package cmdutil

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/output"
	"github.com/ballotbox/votekit/pkg/artifact"
	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/deployment"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/logging"
)

// Session is a connected contract client.
type Session struct {
	Node   *contract.Node
	Client *contract.Client
	// Record is nil when the address came from --contract.
	Record *deployment.Record
}

// Close releases the node connection.
func (s *Session) Close() {
	s.Node.Close()
}

// Connect loads the artifact and deployment record, dials the node and
// attaches a client to the deployed contract.
func Connect(ctx context.Context, app appcontext.Interface, flags *ContractFlags) (*Session, error) {
	flags.Resolve(app.Paths())
	st := app.Store()

	art, err := artifact.Load(st, flags.Artifact)
	if err != nil {
		return nil, err
	}

	var (
		record  *deployment.Record
		address common.Address
	)
	if flags.Address != "" {
		if !common.IsHexAddress(flags.Address) {
			return nil, errors.NewValidationError("contract", flags.Address, "not a hex address")
		}
		address = common.HexToAddress(flags.Address)
	} else {
		record, err = deployment.Load(st, flags.Deployment)
		if err != nil {
			return nil, err
		}
		address = record.Address()
	}

	node, err := app.Dial(ctx)
	if err != nil {
		return nil, err
	}

	client, err := contract.Attach(node, address, art.ABI)
	if err != nil {
		node.Close()
		return nil, err
	}

	app.Logger().Debug().
		Str("contract", address.Hex()).
		Str("artifact", flags.Artifact).
		Msg("Connected to contract")

	return &Session{Node: node, Client: client, Record: record}, nil
}

// CommandContext returns the command context bounded by timeout and
// carrying the app logger.
func CommandContext(cmd *cobra.Command, app appcontext.Interface) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(logging.WithLogger(ctx, app.Logger()), constants.RPCTimeout)
}

// Emit writes data to the command's output in the configured format.
func Emit(cmd *cobra.Command, app appcontext.Interface, data any) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}

// Structured reports whether the configured format is machine-readable.
func Structured(app appcontext.Interface) bool {
	format, err := output.ParseFormat(app.OutputFormat())
	return err == nil && format.IsStructured()
}
