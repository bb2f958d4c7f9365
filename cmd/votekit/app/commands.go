package app

import (
	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/cmd/votekit/cmd/accounts"
	"github.com/ballotbox/votekit/cmd/votekit/cmd/candidates"
	"github.com/ballotbox/votekit/cmd/votekit/cmd/deploy"
	"github.com/ballotbox/votekit/cmd/votekit/cmd/diagnose"
	"github.com/ballotbox/votekit/cmd/votekit/cmd/extract"
	"github.com/ballotbox/votekit/cmd/votekit/cmd/status"
	"github.com/ballotbox/votekit/cmd/votekit/cmd/updateaddress"
	"github.com/ballotbox/votekit/cmd/votekit/cmd/verifyabi"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// ABI commands
	rootCmd.AddCommand(verifyabi.NewCommand(a))
	rootCmd.AddCommand(extract.NewCommand(a))

	// Contract commands
	rootCmd.AddCommand(deploy.NewCommand(a))
	rootCmd.AddCommand(updateaddress.NewCommand(a))
	rootCmd.AddCommand(candidates.NewCommand(a))

	// Inspection commands
	rootCmd.AddCommand(diagnose.NewCommand(a))
	rootCmd.AddCommand(status.NewCommand(a))
	rootCmd.AddCommand(accounts.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("votekit %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
