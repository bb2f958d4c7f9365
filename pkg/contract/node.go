package contract

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/constants"
	pkgerrors "github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/logging"
)

// Backend is the chain access the client needs. *ethclient.Client satisfies it.
type Backend interface {
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// RPC issues raw JSON-RPC calls. *rpc.Client satisfies it.
type RPC interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// Node is a connection to a development node whose accounts are unlocked.
type Node struct {
	Backend Backend
	RPC     RPC

	pollInterval time.Duration
	closer       func()
}

// NewNode wraps an existing backend and raw RPC client.
func NewNode(backend Backend, rpcClient RPC) *Node {
	return &Node{
		Backend:      backend,
		RPC:          rpcClient,
		pollInterval: constants.ReceiptPollInterval,
	}
}

// Dial connects to the node at url.
func Dial(ctx context.Context, url string) (*Node, error) {
	dialCtx, cancel := context.WithTimeout(ctx, constants.DialTimeout)
	defer cancel()

	rc, err := rpc.DialContext(dialCtx, url)
	if err != nil {
		return nil, pkgerrors.WrapRPC("dial "+url, err)
	}
	node := NewNode(ethclient.NewClient(rc), rc)
	node.closer = rc.Close
	return node, nil
}

// Close releases the underlying connection.
func (n *Node) Close() {
	if n.closer != nil {
		n.closer()
	}
}

// Network identifies the chain the node serves.
type Network struct {
	ChainID     *big.Int `json:"chainId" yaml:"chainId"`
	BlockNumber uint64   `json:"blockNumber" yaml:"blockNumber"`
}

// Network returns the chain id and current block number.
func (n *Node) Network(ctx context.Context) (*Network, error) {
	chainID, err := n.Backend.ChainID(ctx)
	if err != nil {
		return nil, pkgerrors.WrapRPC("eth_chainId", err)
	}
	block, err := n.Backend.BlockNumber(ctx)
	if err != nil {
		return nil, pkgerrors.WrapRPC("eth_blockNumber", err)
	}
	return &Network{ChainID: chainID, BlockNumber: block}, nil
}

// Account is a node account and its balance in wei.
type Account struct {
	Address common.Address `json:"address" yaml:"address"`
	Balance *big.Int       `json:"balance" yaml:"balance"`
}

// Addresses returns the accounts managed by the node.
func (n *Node) Addresses(ctx context.Context) ([]common.Address, error) {
	var addrs []common.Address
	if err := n.RPC.CallContext(ctx, &addrs, "eth_accounts"); err != nil {
		return nil, pkgerrors.WrapRPC("eth_accounts", err)
	}
	return addrs, nil
}

// Accounts returns at most limit node accounts with their balances.
// A limit of zero or less returns every account.
func (n *Node) Accounts(ctx context.Context, limit int) ([]Account, error) {
	addrs, err := n.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(addrs) > limit {
		addrs = addrs[:limit]
	}

	accounts := make([]Account, 0, len(addrs))
	for _, addr := range addrs {
		balance, err := n.Backend.BalanceAt(ctx, addr, nil)
		if err != nil {
			return nil, pkgerrors.WrapRPC("eth_getBalance", err)
		}
		accounts = append(accounts, Account{Address: addr, Balance: balance})
	}
	return accounts, nil
}

// DefaultAccount returns the node's first account.
func (n *Node) DefaultAccount(ctx context.Context) (common.Address, error) {
	addrs, err := n.Addresses(ctx)
	if err != nil {
		return common.Address{}, err
	}
	if len(addrs) == 0 {
		return common.Address{}, pkgerrors.NewValidationError("from", nil, "node has no unlocked accounts")
	}
	return addrs[0], nil
}

// transactionArgs is the eth_sendTransaction parameter object.
type transactionArgs struct {
	From common.Address  `json:"from"`
	To   *common.Address `json:"to,omitempty"`
	Data hexutil.Bytes   `json:"data"`
}

// SendTransaction has the node sign and broadcast a transaction from an
// unlocked account, then waits for it to be mined.
func (n *Node) SendTransaction(ctx context.Context, method string, from common.Address, to *common.Address, data []byte) (*types.Receipt, error) {
	logger := logging.FromContext(ctx)

	var hash common.Hash
	args := transactionArgs{From: from, To: to, Data: data}
	if err := n.RPC.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		if reason, ok := revertReason(err); ok {
			return nil, &pkgerrors.RevertError{Method: method, Reason: reason, Err: err}
		}
		return nil, pkgerrors.WrapRPC(method, err)
	}

	logger.Debug().
		Str("method", method).
		Str("from", from.Hex()).
		Str("tx", hash.Hex()).
		Msg("Transaction sent")

	receipt, err := n.WaitReceipt(ctx, hash)
	if err != nil {
		return nil, pkgerrors.WrapRPC(method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, &pkgerrors.RevertError{Method: method, TxHash: hash.Hex()}
	}

	logger.Debug().
		Str("method", method).
		Str("tx", hash.Hex()).
		Uint64("block", receipt.BlockNumber.Uint64()).
		Uint64("gas_used", receipt.GasUsed).
		Msg("Transaction mined")
	return receipt, nil
}

// WaitReceipt polls for the receipt of hash until it is mined or ctx ends.
func (n *Node) WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(n.pollInterval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		receipt, err := n.Backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Deployment is the result of Deploy.
type Deployment struct {
	Address common.Address `json:"address" yaml:"address"`
	TxHash  common.Hash    `json:"txHash" yaml:"txHash"`
	Block   uint64         `json:"block" yaml:"block"`
}

// Deploy creates the contract from bytecode, passing candidates to its constructor.
func (n *Node) Deploy(ctx context.Context, from common.Address, bytecode []byte, description abi.Description, candidates []string) (*Deployment, error) {
	parsed, err := description.Compile()
	if err != nil {
		return nil, err
	}
	if candidates == nil {
		candidates = []string{}
	}

	ctorArgs, err := parsed.Pack("", candidates)
	if err != nil {
		return nil, pkgerrors.NewValidationError("candidates", candidates, err.Error())
	}

	data := make([]byte, 0, len(bytecode)+len(ctorArgs))
	data = append(data, bytecode...)
	data = append(data, ctorArgs...)

	receipt, err := n.SendTransaction(ctx, "deploy", from, nil, data)
	if err != nil {
		return nil, err
	}
	if receipt.ContractAddress == (common.Address{}) {
		return nil, pkgerrors.WrapRPC("deploy", errors.New("receipt has no contract address"))
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}
	return &Deployment{
		Address: receipt.ContractAddress,
		TxHash:  receipt.TxHash,
		Block:   block,
	}, nil
}
