// Package candidates implements the candidates command group.
package candidates

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/internal/cmd/emoji"
	"github.com/ballotbox/votekit/pkg/errors"
)

// List is the candidate list printed by the subcommands.
type List struct {
	Added      string   `json:"added,omitempty" yaml:"added,omitempty"`
	TxHash     string   `json:"txHash,omitempty" yaml:"txHash,omitempty"`
	Candidates []string `json:"candidates" yaml:"candidates"`
}

// Print renders the list.
func (l *List) Print(w io.Writer) {
	if l.Added != "" {
		_, _ = fmt.Fprintf(w, "%s Added candidate %q\n", emoji.Success, l.Added)
	}
	_, _ = fmt.Fprintf(w, "%s Candidates: %s\n", emoji.Candidates, strings.Join(l.Candidates, ", "))
}

// NewCommand creates the candidates command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "candidates",
		GroupID: "contract",
		Short:   "List or add voting candidates",
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newAddCommand(app))

	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	var flags *cmdutil.ContractFlags

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the candidates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := cmdutil.CommandContext(cmd, app)
			defer cancel()

			session, err := cmdutil.Connect(ctx, app, flags)
			if err != nil {
				return err
			}
			defer session.Close()

			names, err := session.Client.AllCandidates(ctx)
			if err != nil {
				return err
			}
			return cmdutil.Emit(cmd, app, &List{Candidates: names})
		},
	}

	flags = cmdutil.AddContractFlags(cmd)
	return cmd
}

func newAddCommand(app appcontext.Interface) *cobra.Command {
	var (
		flags *cmdutil.ContractFlags
		from  string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a candidate (owner only)",
		Example: `  votekit candidates add David
  votekit candidates add Eve --from 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.NewValidationError("name", args[0], "candidate name is empty")
			}
			senders, err := cmdutil.ParseAddresses("from", nonEmpty(from))
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

			client := session.Client
			if len(senders) > 0 {
				client = client.From(senders[0])
			}

			receipt, err := client.AddCandidate(ctx, name)
			if err != nil {
				return err
			}
			app.Logger().Info().
				Str("candidate", name).
				Str("tx", receipt.TxHash.Hex()).
				Msg("Candidate added")

			names, err := client.AllCandidates(ctx)
			if err != nil {
				return err
			}
			return cmdutil.Emit(cmd, app, &List{
				Added:      name,
				TxHash:     receipt.TxHash.Hex(),
				Candidates: names,
			})
		},
	}

	flags = cmdutil.AddContractFlags(cmd)
	cmd.Flags().StringVar(&from, "from", "", "sending account (default: first node account)")

	return cmd
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
