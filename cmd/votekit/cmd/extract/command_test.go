package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotbox/votekit/internal/cmd/cmdtest"
	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/errors"
)

func TestExtract(t *testing.T) {
	env := cmdtest.New(t)

	out, err := cmdtest.Run(t, NewCommand(env.App), "--out", "build")
	require.NoError(t, err)

	abiPath := filepath.Join("build", "Voting.abi")
	binPath := filepath.Join("build", "Voting.bin")
	assert.Contains(t, out, "ABI written to "+abiPath)
	assert.Contains(t, out, "Bytecode written to "+binPath)

	extracted, err := abi.Load(env.Store, "abi", abiPath)
	require.NoError(t, err)
	assert.True(t, extracted.Equal(env.Artifact.ABI))

	bin, err := env.Store.Read("bytecode", binPath)
	require.NoError(t, err)
	assert.Equal(t, env.Artifact.Bytecode, string(bin))
}

func TestExtractMissingArtifact(t *testing.T) {
	env := cmdtest.New(t)

	_, err := cmdtest.Run(t, NewCommand(env.App), "--artifact", "missing.json")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
