// Package accounts implements the accounts command.
package accounts

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/cmdutil"
	"github.com/ballotbox/votekit/internal/cmd/output"
	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/diagnose"
)

// Account is one listed account.
type Account struct {
	Index   int    `json:"index" yaml:"index"`
	Address string `json:"address" yaml:"address"`
	Balance string `json:"balance" yaml:"balance"`
}

// List is the output of the accounts command.
type List struct {
	Accounts []Account `json:"accounts" yaml:"accounts"`
}

// Table renders the list as index, address and balance columns.
func (l *List) Table() output.Data {
	rows := make([][]string, 0, len(l.Accounts))
	for _, a := range l.Accounts {
		rows = append(rows, []string{strconv.Itoa(a.Index), a.Address, a.Balance + " ETH"})
	}
	return output.Data{
		Headers:   []string{"account", "address", "balance"},
		Rows:      rows,
		Alignment: []output.Align{output.AlignRight, output.AlignLeft, output.AlignRight},
	}
}

func newList(accounts []contract.Account) *List {
	list := &List{Accounts: make([]Account, 0, len(accounts))}
	for i, a := range accounts {
		list.Accounts = append(list.Accounts, Account{
			Index:   i,
			Address: a.Address.Hex(),
			Balance: diagnose.FormatEther(a.Balance),
		})
	}
	return list
}

// NewCommand creates the accounts command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "accounts",
		GroupID: "inspect",
		Short:   "List node accounts and their balances",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := cmdutil.CommandContext(cmd, app)
			defer cancel()

			node, err := app.Dial(ctx)
			if err != nil {
				return err
			}
			defer node.Close()

			accounts, err := node.Accounts(ctx, limit)
			if err != nil {
				return err
			}
			return cmdutil.Emit(cmd, app, newList(accounts))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", constants.MaxListedAccounts, "maximum number of accounts to list")

	return cmd
}
