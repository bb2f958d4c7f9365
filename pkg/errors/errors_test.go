package errors_test

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ballotbox/votekit/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("consumer ABI", "client/src/abis/Voting.json", fs.ErrNotExist)
		assert.Equal(t, "consumer ABI not found at client/src/abis/Voting.json", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("artifact", "Voting.json", nil)
		wrapped := fmt.Errorf("loading: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
		assert.False(t, pkgerrors.IsMalformed(wrapped))
	})
}

func TestMalformedDescriptionError(t *testing.T) {
	t.Run("document level", func(t *testing.T) {
		err := pkgerrors.NewMalformedDescriptionError("abi.json", "expected a JSON array", nil)
		assert.Equal(t, "malformed description in abi.json: expected a JSON array", err.Error())
		assert.True(t, pkgerrors.IsMalformed(err))
	})

	t.Run("entry with name", func(t *testing.T) {
		err := pkgerrors.NewMalformedEntryError("abi.json", 3, "vote", "missing type")
		assert.Equal(t, "malformed description in abi.json: entry 3 (vote): missing type", err.Error())
	})

	t.Run("entry without name or location", func(t *testing.T) {
		err := pkgerrors.NewMalformedEntryError("", 0, "", "missing name")
		assert.Equal(t, "malformed description in <input>: entry 0: missing name", err.Error())
	})
}

func TestWriteError(t *testing.T) {
	base := fs.ErrPermission
	err := pkgerrors.WrapWrite("client/src/abis/Voting.json", base)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsWriteFailed(err))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Contains(t, err.Error(), "client/src/abis/Voting.json")

	assert.NoError(t, pkgerrors.WrapWrite("x", nil))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("contractAddress", "0x12", "not a hex address")
		assert.Equal(t, "validation failed for field contractAddress: not a hex address", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "no candidates"}
		assert.Equal(t, "validation failed: no candidates", err.Error())
	})
}

func TestRPCError(t *testing.T) {
	base := errors.New("connection refused")
	err := pkgerrors.WrapRPC("getAllCandidates", base)
	assert.True(t, pkgerrors.IsRPC(err))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, "rpc call getAllCandidates failed: connection refused", err.Error())

	assert.NoError(t, pkgerrors.WrapRPC("owner", nil))
}

func TestConfigError(t *testing.T) {
	base := errors.New("bad yaml")
	err := pkgerrors.NewConfigError("config file", "cannot parse", base)
	assert.Equal(t, "configuration error in config file: cannot parse", err.Error())
	assert.Equal(t, base, errors.Unwrap(err))
}

func TestRevertError(t *testing.T) {
	err := &pkgerrors.RevertError{Method: "vote", Reason: "Already voted", TxHash: "0xabc"}
	assert.Equal(t, "vote reverted: Already voted (tx 0xabc)", err.Error())
	assert.True(t, pkgerrors.IsReverted(fmt.Errorf("voting: %w", err)))
	assert.False(t, pkgerrors.IsRPC(err))

	bare := &pkgerrors.RevertError{Method: "resetAllVotes"}
	assert.Equal(t, "resetAllVotes reverted", bare.Error())
}
