// Package cmdtest wires commands to an in-memory project and a fake node.
package cmdtest

import (
	"bytes"
	"context"
	_ "embed"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/pkg/artifact"
	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/contract/contracttest"
	"github.com/ballotbox/votekit/pkg/deployment"
	"github.com/ballotbox/votekit/pkg/store"
)

//go:embed testdata/Voting.json
var artifactJSON []byte

// ArtifactJSON returns the Voting build artifact.
func ArtifactJSON() []byte {
	return bytes.Clone(artifactJSON)
}

// Env is a project on an in-memory store next to a fake development node.
type Env struct {
	App      *appcontext.Mock
	Store    *store.Store
	Chain    *contracttest.Chain
	Artifact *artifact.Artifact

	format string
}

// New returns an Env whose store holds the artifact at its default path
// and whose node has no contract yet.
func New(t testing.TB) *Env {
	t.Helper()

	st := store.NewMemory()
	require.NoError(t, st.Write(constants.DefaultArtifactPath, ArtifactJSON()))
	art, err := artifact.Load(st, constants.DefaultArtifactPath)
	require.NoError(t, err)

	chain := contracttest.NewChain(t, art.ABI)
	chain.Bytecode = art.Code()

	env := &Env{Store: st, Chain: chain, Artifact: art, format: "table"}
	env.App = &appcontext.Mock{
		StoreFunc:        func() *store.Store { return st },
		OutputFormatFunc: func() string { return env.format },
		DialFunc: func(context.Context) (*contract.Node, error) {
			return contract.NewNode(chain, chain), nil
		},
	}
	return env
}

// Deployed deploys the contract with candidates and writes its deployment record.
func (e *Env) Deployed(t testing.TB, candidates ...string) *Env {
	t.Helper()
	e.Chain.WithContract(candidates...)
	record := deployment.NewRecord(contracttest.ContractAddress, constants.DefaultNetwork, constants.DefaultChainID, candidates)
	require.NoError(t, deployment.Save(e.Store, record, constants.DefaultDeploymentPath))
	return e
}

// WithFormat sets the output format reported by the app.
func (e *Env) WithFormat(format string) *Env {
	e.format = format
	return e
}

// Run executes cmd with args and returns what it wrote to stdout.
func Run(t testing.TB, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
