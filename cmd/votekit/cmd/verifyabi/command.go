// Package verifyabi implements the verify-abi command.
package verifyabi

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/internal/cmd/emoji"
	"github.com/ballotbox/votekit/pkg/logging"
	"github.com/ballotbox/votekit/pkg/reconciler"
)

// Flags holds the verify-abi flags.
type Flags struct {
	Artifact string
	Consumer string
	DryRun   bool
}

// NewCommand creates the verify-abi command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "verify-abi",
		GroupID: "abi",
		Short:   "Compare the client ABI with the build artifact and repair drift",
		Long: `verify-abi compares the function entries of the compiled contract ABI
(the build artifact) with the copy the client application ships.

Functions missing from the client, extra functions the contract no longer
has, and functions whose inputs or outputs differ are reported. When any
difference exists the client copy is overwritten with the artifact's ABI.
Use --dry-run to report without writing.`,
		Example: `  votekit verify-abi
  votekit verify-abi --dry-run
  votekit verify-abi --consumer ../client/src/abis/Voting.json -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Artifact, "artifact", "", "authoritative build artifact (default from config)")
	cmd.Flags().StringVar(&flags.Consumer, "consumer", "", "client ABI file to verify (default from config)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "report drift without rewriting the client ABI")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	paths := app.Paths()
	if flags.Artifact == "" {
		flags.Artifact = paths.Artifact
	}
	if flags.Consumer == "" {
		flags.Consumer = paths.ConsumerABI
	}

	r, err := reconciler.New(
		reconciler.WithStore(app.Store()),
		reconciler.WithDryRun(flags.DryRun),
	)
	if err != nil {
		return err
	}

	ctx, cancel := cmdutil.CommandContext(cmd, app)
	defer cancel()
	ctx = logging.WithOperation(ctx, "verify-abi")

	authoritative, consumer, err := r.Load(ctx, flags.Artifact, flags.Consumer)
	if err != nil {
		return err
	}
	report := reconciler.Diff(authoritative, consumer)

	// Printed before the consumer is written.
	structured := cmdutil.Structured(app)
	out := cmd.OutOrStdout()
	if !structured {
		report.Print(out)
	}

	written, err := r.Reconcile(ctx, report, authoritative, flags.Consumer)
	if structured {
		result := &reconciler.Result{Report: report, Written: written, DryRun: flags.DryRun}
		if emitErr := cmdutil.Emit(cmd, app, result); emitErr != nil && err == nil {
			return emitErr
		}
		return err
	}
	if err != nil {
		return err
	}

	switch {
	case written:
		_, _ = fmt.Fprintf(out, "\n%s Updated %s with the artifact ABI\n", emoji.Write, flags.Consumer)
	case flags.DryRun && !report.Identical:
		_, _ = fmt.Fprintf(out, "\n%s Dry run: %s left unchanged\n", emoji.Skipped, flags.Consumer)
	}
	return nil
}
