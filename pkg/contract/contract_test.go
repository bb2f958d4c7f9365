package contract

import (
	"context"
	"errors"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/contract/contracttest"
	pkgerrors "github.com/ballotbox/votekit/pkg/errors"
)

func loadDescription(t testing.TB) abi.Description {
	t.Helper()
	data, err := os.ReadFile("testdata/Voting.json")
	require.NoError(t, err)
	d, err := abi.Parse("testdata/Voting.json", data)
	require.NoError(t, err)
	return d
}

func newChain(t testing.TB) *contracttest.Chain {
	t.Helper()
	return contracttest.NewChain(t, loadDescription(t))
}

func newTestNode(chain *contracttest.Chain) *Node {
	n := NewNode(chain, chain)
	n.pollInterval = time.Millisecond
	return n
}

func newClient(t testing.TB, chain *contracttest.Chain) *Client {
	t.Helper()
	c, err := Attach(newTestNode(chain), contracttest.ContractAddress, loadDescription(t))
	require.NoError(t, err)
	return c
}

func TestReadCalls(t *testing.T) {
	ctx := context.Background()
	chain := newChain(t).WithContract("Alice", "Bob", "Charlie")
	chain.Votes["Bob"] = big.NewInt(2)
	chain.Voted[contracttest.VoterAccount] = true
	c := newClient(t, chain)

	candidates, err := c.AllCandidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie"}, candidates)

	votes, err := c.Votes(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), votes.Int64())

	voted, err := c.HasVoted(ctx, contracttest.VoterAccount)
	require.NoError(t, err)
	assert.True(t, voted)

	status, err := c.CheckVoteStatus(ctx, contracttest.OwnerAccount)
	require.NoError(t, err)
	assert.False(t, status)

	owner, err := c.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, contracttest.OwnerAccount, owner)

	deployed, err := c.Deployed(ctx)
	require.NoError(t, err)
	assert.True(t, deployed)
}

func TestCallRevert(t *testing.T) {
	chain := newChain(t).WithContract("Alice")
	c := newClient(t, chain)

	_, err := c.Votes(context.Background(), "Zed")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsReverted(err))

	var revert *pkgerrors.RevertError
	require.True(t, errors.As(err, &revert))
	assert.Equal(t, "getVotes", revert.Method)
	assert.Equal(t, "Invalid candidate", revert.Reason)
}

func TestCallNoContract(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, newChain(t))

	_, err := c.AllCandidates(ctx)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRPC(err))

	deployed, err := c.Deployed(ctx)
	require.NoError(t, err)
	assert.False(t, deployed)
}

func TestCallTransportError(t *testing.T) {
	chain := newChain(t).WithContract("Alice")
	chain.CallErr = errors.New("connection refused")

	_, err := newClient(t, chain).Owner(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsRPC(err))
	assert.Contains(t, err.Error(), "owner")
}

func TestVote(t *testing.T) {
	ctx := context.Background()
	chain := newChain(t).WithContract("Alice", "Bob")
	chain.PendingPolls = 2
	c := newClient(t, chain).From(contracttest.VoterAccount)

	receipt, err := c.Vote(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), receipt.BlockNumber.Uint64())
	assert.Equal(t, int64(1), chain.Votes["Alice"].Int64())
	assert.True(t, chain.Voted[contracttest.VoterAccount])

	require.Len(t, chain.Sent, 1)
	assert.Equal(t, contracttest.VoterAccount, chain.Sent[0].From)
	assert.Equal(t, contracttest.ContractAddress, *chain.Sent[0].To)

	_, err = c.Vote(ctx, "Bob")
	require.Error(t, err)
	var revert *pkgerrors.RevertError
	require.True(t, errors.As(err, &revert))
	assert.Equal(t, "Already voted", revert.Reason)
	assert.Equal(t, int64(0), chain.Votes["Bob"].Int64())
}

func TestTransactionsDefaultToFirstAccount(t *testing.T) {
	ctx := context.Background()
	chain := newChain(t).WithContract("Alice", "Bob", "Charlie")
	c := newClient(t, chain)

	_, err := c.AddCandidate(ctx, "David")
	require.NoError(t, err)
	assert.Equal(t, contracttest.OwnerAccount, chain.Sent[0].From)

	candidates, err := c.AllCandidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Charlie", "David"}, candidates)
}

func TestOwnerOnlyTransactions(t *testing.T) {
	ctx := context.Background()
	chain := newChain(t).WithContract("Alice")
	chain.Voted[contracttest.VoterAccount] = true
	chain.Votes["Alice"] = big.NewInt(4)

	_, err := newClient(t, chain).From(contracttest.VoterAccount).AddCandidate(ctx, "Mallory")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only owner can call this function")

	owner := newClient(t, chain).From(contracttest.OwnerAccount)
	_, err = owner.ResetVoter(ctx, contracttest.VoterAccount)
	require.NoError(t, err)
	assert.False(t, chain.Voted[contracttest.VoterAccount])

	_, err = owner.ResetAllVotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), chain.Votes["Alice"].Int64())
}

func TestFailedReceipt(t *testing.T) {
	chain := newChain(t).WithContract("Alice")
	chain.FailStatus = true

	receipt, err := newClient(t, chain).Vote(context.Background(), "Alice")
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.True(t, pkgerrors.IsReverted(err))
	assert.Contains(t, err.Error(), receipt.TxHash.Hex())
}

func TestWaitReceiptCancelled(t *testing.T) {
	chain := newChain(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestNode(chain).WaitReceipt(ctx, common.HexToHash("0x01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFunctions(t *testing.T) {
	c := newClient(t, newChain(t))
	assert.Equal(t, []string{
		"addCandidate(string)",
		"checkVoteStatus(address)",
		"getAllCandidates()",
		"getVotes(string)",
		"hasVoted(address)",
		"owner()",
		"resetAllVotes()",
		"resetVoter(address)",
		"vote(string)",
	}, c.Functions())
	assert.Equal(t, contracttest.ContractAddress, c.Address())
}

func TestNewRejectsUncompilableDescription(t *testing.T) {
	bad := abi.New(abi.Function("vote", []abi.Param{{Name: "candidate", Type: "notatype"}}, nil))
	_, err := New(newChain(t), nil, contracttest.ContractAddress, bad)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMalformed(err))
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	node := newTestNode(newChain(t))

	accounts, err := node.Accounts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, contracttest.OwnerAccount, accounts[0].Address)
	assert.Equal(t, "10000000000000000000000", accounts[0].Balance.String())

	limited, err := node.Accounts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDefaultAccountEmpty(t *testing.T) {
	chain := newChain(t)
	chain.Accounts = nil

	_, err := newTestNode(chain).DefaultAccount(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidationError(err))
}

func TestDeploy(t *testing.T) {
	ctx := context.Background()
	chain := newChain(t)
	bytecode := []byte{0x60, 0x80, 0x60, 0x40}

	deployment, err := newTestNode(chain).Deploy(ctx, contracttest.OwnerAccount, bytecode, loadDescription(t), []string{"Alice", "Bob"})
	require.NoError(t, err)
	assert.Equal(t, contracttest.ContractAddress, deployment.Address)
	assert.Equal(t, uint64(1), deployment.Block)

	require.Len(t, chain.Sent, 1)
	sent := chain.Sent[0]
	assert.Nil(t, sent.To)
	assert.Equal(t, bytecode, []byte(sent.Data[:len(bytecode)]))

	parsed, err := loadDescription(t).Compile()
	require.NoError(t, err)
	args, err := parsed.Constructor.Inputs.Unpack(sent.Data[len(bytecode):])
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, args[0])
}

func TestRevertReason(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
		ok     bool
	}{
		{
			name:   "hex data",
			err:    &contracttest.RPCError{Message: "execution reverted", Data: contracttest.RevertData(t, "Already voted")},
			reason: "Already voted",
			ok:     true,
		},
		{
			name:   "nested data object",
			err:    &contracttest.RPCError{Message: "execution reverted", Data: map[string]any{"data": contracttest.RevertData(t, "Invalid candidate")}},
			reason: "Invalid candidate",
			ok:     true,
		},
		{
			name:   "message only",
			err:    errors.New("VM Exception while processing transaction: reverted with reason string 'Only owner can call this function'"),
			reason: "Only owner can call this function",
			ok:     true,
		},
		{
			name: "unrelated",
			err:  errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := revertReason(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestNetwork(t *testing.T) {
	chain := newChain(t)
	chain.Block = 7

	network, err := newTestNode(chain).Network(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(31337), network.ChainID.Int64())
	assert.Equal(t, uint64(7), network.BlockNumber)
}
