// Package extract implements the extract command.
package extract

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/internal/cmd/emoji"
	"github.com/ballotbox/votekit/pkg/artifact"
)

// NewCommand creates the extract command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		artifactPath string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:     "extract",
		GroupID: "abi",
		Short:   "Write the contract ABI and bytecode to standalone files",
		Long: `extract reads the build artifact and writes <Contract>.abi (the ABI as
indented JSON) and <Contract>.bin (the creation bytecode) into the output
directory.`,
		Example: `  votekit extract
  votekit extract --out build/contracts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths := app.Paths()
			if artifactPath == "" {
				artifactPath = paths.Artifact
			}
			if outDir == "" {
				outDir = paths.ExtractDir
			}

			art, err := artifact.Load(app.Store(), artifactPath)
			if err != nil {
				return err
			}
			extracted, err := artifact.Extract(app.Store(), art, outDir)
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Str("contract", art.ContractName).
				Str("dir", outDir).
				Msg("Extracted artifact")

			if cmdutil.Structured(app) {
				return cmdutil.Emit(cmd, app, extracted)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s ABI written to %s\n", emoji.Success, extracted.ABIPath)
			_, _ = fmt.Fprintf(out, "%s Bytecode written to %s\n", emoji.Success, extracted.BytecodePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&artifactPath, "artifact", "", "build artifact to extract (default from config)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")

	return cmd
}
