// Package contracttest provides an in-memory voting contract that satisfies
// contract.Backend and contract.RPC, for tests that need a node without
// running one.
package contracttest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/ballotbox/votekit/pkg/abi"
)

// Well-known hardhat development addresses.
var (
	OwnerAccount    = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	VoterAccount    = common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	ContractAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

// RPCError mimics a JSON-RPC error carrying revert data.
type RPCError struct {
	Message string
	Data    any
}

func (e *RPCError) Error() string  { return e.Message }
func (e *RPCError) ErrorCode() int { return 3 }
func (e *RPCError) ErrorData() any { return e.Data }

// Transaction is a transaction received through eth_sendTransaction.
type Transaction struct {
	From common.Address  `json:"from"`
	To   *common.Address `json:"to"`
	Data hexutil.Bytes   `json:"data"`
}

// Chain is a single voting contract on a fake development node.
type Chain struct {
	t   testing.TB
	abi gethabi.ABI

	Accounts []common.Address
	Balances map[common.Address]*big.Int

	Deployed   bool
	Owner      common.Address
	Candidates []string
	Votes      map[string]*big.Int
	Voted      map[common.Address]bool

	// PendingPolls is the number of receipt lookups answered with NotFound.
	PendingPolls int
	// FailStatus mines every transaction with a failed status.
	FailStatus bool
	// CallErr, when set, fails every eth_call.
	CallErr error

	// Bytecode, when set, lets deployments decode their constructor candidates.
	Bytecode []byte

	Block    uint64
	Sent     []Transaction
	receipts map[common.Hash]*types.Receipt
}

// NewChain creates a node with two funded accounts and no contract.
func NewChain(t testing.TB, description abi.Description) *Chain {
	t.Helper()
	parsed, err := description.Compile()
	require.NoError(t, err)

	ownerBalance, _ := new(big.Int).SetString("10000000000000000000000", 10)
	return &Chain{
		t:        t,
		abi:      parsed,
		Accounts: []common.Address{OwnerAccount, VoterAccount},
		Balances: map[common.Address]*big.Int{
			OwnerAccount: ownerBalance,
			VoterAccount: big.NewInt(1500000000000000000),
		},
		Votes:    map[string]*big.Int{},
		Voted:    map[common.Address]bool{},
		receipts: map[common.Hash]*types.Receipt{},
	}
}

// WithContract deploys the contract at ContractAddress, owned by OwnerAccount.
func (c *Chain) WithContract(candidates ...string) *Chain {
	c.Deployed = true
	c.Owner = OwnerAccount
	for _, name := range candidates {
		c.Candidates = append(c.Candidates, name)
		c.Votes[name] = big.NewInt(0)
	}
	return c
}

// RevertData encodes reason as Solidity Error(string) revert data.
func RevertData(t testing.TB, reason string) string {
	t.Helper()
	stringType, err := gethabi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := gethabi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return fmt.Sprintf("0x08c379a0%x", packed)
}

func (c *Chain) revert(reason string) error {
	return &RPCError{
		Message: "Error: VM Exception while processing transaction: reverted with reason string '" + reason + "'",
		Data:    RevertData(c.t, reason),
	}
}

// CodeAt returns placeholder code once the contract is deployed.
func (c *Chain) CodeAt(_ context.Context, addr common.Address, _ *big.Int) ([]byte, error) {
	if c.Deployed && addr == ContractAddress {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

// CallContract executes a read-only method.
func (c *Chain) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if c.CallErr != nil {
		return nil, c.CallErr
	}
	if !c.Deployed || msg.To == nil || *msg.To != ContractAddress {
		return nil, nil
	}
	method, args := c.decode(msg.Data)

	var values []any
	switch method.Name {
	case "getAllCandidates":
		values = []any{append([]string{}, c.Candidates...)}
	case "getVotes":
		count, ok := c.Votes[args[0].(string)]
		if !ok {
			return nil, c.revert("Invalid candidate")
		}
		values = []any{count}
	case "hasVoted", "checkVoteStatus":
		values = []any{c.Voted[args[0].(common.Address)]}
	case "owner":
		values = []any{c.Owner}
	default:
		c.t.Fatalf("unexpected call %s", method.Name)
	}

	out, err := method.Outputs.Pack(values...)
	require.NoError(c.t, err)
	return out, nil
}

func (c *Chain) decode(data []byte) (*gethabi.Method, []any) {
	require.GreaterOrEqual(c.t, len(data), 4)
	method, err := c.abi.MethodById(data[:4])
	require.NoError(c.t, err)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(c.t, err)
	return method, args
}

// TransactionReceipt returns the receipt of a mined transaction.
func (c *Chain) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	if c.PendingPolls > 0 {
		c.PendingPolls--
		return nil, ethereum.NotFound
	}
	receipt, ok := c.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

// BalanceAt returns the configured balance of account.
func (c *Chain) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if b, ok := c.Balances[account]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

// ChainID returns the hardhat chain id.
func (c *Chain) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(31337), nil
}

// BlockNumber returns the number of mined transactions.
func (c *Chain) BlockNumber(context.Context) (uint64, error) {
	return c.Block, nil
}

// CallContext serves eth_accounts and eth_sendTransaction.
func (c *Chain) CallContext(_ context.Context, result any, method string, args ...any) error {
	switch method {
	case "eth_accounts":
		*result.(*[]common.Address) = append([]common.Address{}, c.Accounts...)
		return nil
	case "eth_sendTransaction":
		tx := c.transaction(args[0])
		c.Sent = append(c.Sent, tx)
		if err := c.execute(tx); err != nil {
			return err
		}
		c.Block++
		hash := common.BigToHash(new(big.Int).SetUint64(c.Block))
		receipt := &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			TxHash:      hash,
			BlockNumber: new(big.Int).SetUint64(c.Block),
			GasUsed:     21000,
		}
		if c.FailStatus {
			receipt.Status = types.ReceiptStatusFailed
		}
		if tx.To == nil {
			receipt.ContractAddress = ContractAddress
		}
		c.receipts[hash] = receipt
		*result.(*common.Hash) = hash
		return nil
	default:
		return fmt.Errorf("method %s not supported", method)
	}
}

// transaction decodes the eth_sendTransaction argument through its JSON form.
func (c *Chain) transaction(arg any) Transaction {
	data, err := json.Marshal(arg)
	require.NoError(c.t, err)
	var tx Transaction
	require.NoError(c.t, json.Unmarshal(data, &tx))
	return tx
}

func (c *Chain) execute(tx Transaction) error {
	if tx.To == nil {
		c.Deployed = true
		c.Owner = tx.From
		if len(c.Bytecode) > 0 && bytes.HasPrefix(tx.Data, c.Bytecode) {
			values, err := c.abi.Constructor.Inputs.Unpack(tx.Data[len(c.Bytecode):])
			require.NoError(c.t, err)
			c.Candidates, c.Votes = nil, map[string]*big.Int{}
			c.WithContract(values[0].([]string)...)
			c.Owner = tx.From
		}
		return nil
	}

	method, args := c.decode(tx.Data)
	onlyOwner := method.Name == "addCandidate" || method.Name == "resetVoter" || method.Name == "resetAllVotes"
	if onlyOwner && tx.From != c.Owner {
		return c.revert("Only owner can call this function")
	}

	switch method.Name {
	case "vote":
		name := args[0].(string)
		if c.Voted[tx.From] {
			return c.revert("Already voted")
		}
		if _, ok := c.Votes[name]; !ok {
			return c.revert("Invalid candidate")
		}
		c.Voted[tx.From] = true
		c.Votes[name].Add(c.Votes[name], big.NewInt(1))
	case "addCandidate":
		name := args[0].(string)
		c.Candidates = append(c.Candidates, name)
		c.Votes[name] = big.NewInt(0)
	case "resetVoter":
		delete(c.Voted, args[0].(common.Address))
	case "resetAllVotes":
		for name := range c.Votes {
			c.Votes[name] = big.NewInt(0)
		}
		c.Voted = map[common.Address]bool{}
	default:
		c.t.Fatalf("unexpected transaction %s", method.Name)
	}
	return nil
}
