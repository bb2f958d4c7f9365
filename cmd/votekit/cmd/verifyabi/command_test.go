package verifyabi

import (
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotbox/votekit/internal/cmd/cmdtest"
	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

// writeDriftedConsumer writes a client ABI that lacks resetVoter and has
// an extra legacyVote function.
func writeDriftedConsumer(t *testing.T, env *cmdtest.Env) {
	t.Helper()
	var entries []abi.Entry
	for _, e := range env.Artifact.ABI.Entries() {
		if e.Name != "resetVoter" {
			entries = append(entries, e)
		}
	}
	entries = append(entries, abi.Function("legacyVote", []abi.Param{{Name: "id", Type: "uint256"}}, nil))
	data, err := abi.New(entries...).Marshal()
	require.NoError(t, err)
	require.NoError(t, env.Store.Write(constants.DefaultConsumerABIPath, data))
}

func TestVerifyRepairsDrift(t *testing.T) {
	env := cmdtest.New(t)
	writeDriftedConsumer(t, env)

	out, err := cmdtest.Run(t, NewCommand(env.App))
	require.NoError(t, err)

	assert.Contains(t, out, "Missing in consumer (1)")
	assert.Contains(t, out, "resetVoter")
	assert.Contains(t, out, "Extra in consumer (1)")
	assert.Contains(t, out, "legacyVote")
	assert.Contains(t, out, "Updated "+constants.DefaultConsumerABIPath)

	consumer, err := abi.Load(env.Store, "consumer", constants.DefaultConsumerABIPath)
	require.NoError(t, err)
	assert.True(t, consumer.Equal(env.Artifact.ABI))
	assert.Equal(t, abi.FormatBare, consumer.Format())
}

func TestVerifyIdentical(t *testing.T) {
	env := cmdtest.New(t)
	data, err := env.Artifact.ABI.Marshal()
	require.NoError(t, err)
	require.NoError(t, env.Store.Write(constants.DefaultConsumerABIPath, data))

	out, err := cmdtest.Run(t, NewCommand(env.App))
	require.NoError(t, err)
	assert.Contains(t, out, "ABIs are identical")
	assert.NotContains(t, out, "Updated")
}

func TestVerifyDryRun(t *testing.T) {
	env := cmdtest.New(t)
	writeDriftedConsumer(t, env)
	before, err := env.Store.Read("consumer", constants.DefaultConsumerABIPath)
	require.NoError(t, err)

	out, err := cmdtest.Run(t, NewCommand(env.App), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Dry run")

	after, err := env.Store.Read("consumer", constants.DefaultConsumerABIPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestVerifyJSONOutput(t *testing.T) {
	env := cmdtest.New(t).WithFormat("json")
	writeDriftedConsumer(t, env)

	out, err := cmdtest.Run(t, NewCommand(env.App), "--dry-run")
	require.NoError(t, err)

	var result struct {
		Report struct {
			MissingInConsumer []string `json:"missingInConsumer"`
			ExtraInConsumer   []string `json:"extraInConsumer"`
			Identical         bool     `json:"identical"`
		} `json:"report"`
		Written bool `json:"written"`
		DryRun  bool `json:"dryRun"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"resetVoter"}, result.Report.MissingInConsumer)
	assert.Equal(t, []string{"legacyVote"}, result.Report.ExtraInConsumer)
	assert.False(t, result.Report.Identical)
	assert.False(t, result.Written)
	assert.True(t, result.DryRun)
}

func TestVerifyMissingConsumer(t *testing.T) {
	env := cmdtest.New(t)

	_, err := cmdtest.Run(t, NewCommand(env.App), "--consumer", "nowhere/Voting.json")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestVerifyWriteFailureStillReports(t *testing.T) {
	env := cmdtest.New(t)
	writeDriftedConsumer(t, env)
	before, err := env.Store.Read("consumer", constants.DefaultConsumerABIPath)
	require.NoError(t, err)

	readOnly := store.New(afero.NewReadOnlyFs(env.Store.Fs()))
	env.App.StoreFunc = func() *store.Store { return readOnly }

	out, err := cmdtest.Run(t, NewCommand(env.App))
	require.Error(t, err)
	assert.True(t, errors.IsWriteFailed(err))

	assert.Contains(t, out, "Missing in consumer (1)")
	assert.Contains(t, out, "Extra in consumer (1)")
	assert.Contains(t, out, "legacyVote")
	assert.NotContains(t, out, "Updated")

	after, err := env.Store.Read("consumer", constants.DefaultConsumerABIPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
