// Package cmdutil provides shared flags and helpers for votekit commands.
package cmdutil

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/pkg/errors"
)

// ContractFlags select the contract a command talks to.
type ContractFlags struct {
	Artifact   string
	Deployment string
	Address    string
}

// AddContractFlags adds contract selection flags to a command.
func AddContractFlags(cmd *cobra.Command) *ContractFlags {
	flags := &ContractFlags{}

	cmd.Flags().StringVar(&flags.Artifact, "artifact", "",
		"Build artifact providing the contract ABI (default from config)")
	cmd.Flags().StringVar(&flags.Deployment, "deployment", "",
		"Deployment record providing the contract address (default from config)")
	cmd.Flags().StringVar(&flags.Address, "contract", "",
		"Contract address, overrides the deployment record")

	return flags
}

// Resolve fills empty flags from the configured paths.
func (f *ContractFlags) Resolve(paths appcontext.Paths) {
	if f.Artifact == "" {
		f.Artifact = paths.Artifact
	}
	if f.Deployment == "" {
		f.Deployment = paths.Deployment
	}
}

// ParseAddresses converts hex address flag values, reporting the first
// invalid one against field.
func ParseAddresses(field string, values []string) ([]common.Address, error) {
	addrs := make([]common.Address, 0, len(values))
	for _, v := range values {
		if !common.IsHexAddress(v) {
			return nil, errors.NewValidationError(field, v, "not a hex address")
		}
		addrs = append(addrs, common.HexToAddress(v))
	}
	return addrs, nil
}
