// Package contract is a JSON-RPC client for the voting contract. Reads are
// eth_call against the node; writes are sent from an unlocked node account.
package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/ballotbox/votekit/pkg/abi"
	pkgerrors "github.com/ballotbox/votekit/pkg/errors"
)

// Client calls one deployed voting contract.
type Client struct {
	*Node

	address     common.Address
	description abi.Description
	abi         gethabi.ABI
	from        common.Address
}

// New creates a client for the contract at address described by description.
func New(backend Backend, rpcClient RPC, address common.Address, description abi.Description) (*Client, error) {
	return Attach(NewNode(backend, rpcClient), address, description)
}

// Attach creates a client on an existing node connection.
func Attach(node *Node, address common.Address, description abi.Description) (*Client, error) {
	parsed, err := description.Compile()
	if err != nil {
		return nil, err
	}
	return &Client{
		Node:        node,
		address:     address,
		description: description,
		abi:         parsed,
	}, nil
}

// Address returns the contract address.
func (c *Client) Address() common.Address {
	return c.address
}

// From returns a copy of the client that sends transactions from account.
func (c *Client) From(account common.Address) *Client {
	clone := *c
	clone.from = account
	return &clone
}

// Functions lists the callable surface as name(types) signatures.
func (c *Client) Functions() []string {
	fns := c.description.Functions()
	sigs := make([]string, len(fns))
	for i, fn := range fns {
		sigs[i] = fn.Signature()
	}
	return sigs
}

// Deployed reports whether any code lives at the contract address.
func (c *Client) Deployed(ctx context.Context) (bool, error) {
	code, err := c.Backend.CodeAt(ctx, c.address, nil)
	if err != nil {
		return false, pkgerrors.WrapRPC("eth_getCode", err)
	}
	return len(code) > 0, nil
}

// AllCandidates returns the candidate names in registration order.
func (c *Client) AllCandidates(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.call(ctx, &out, "getAllCandidates"); err != nil {
		return nil, err
	}
	return out, nil
}

// Votes returns the vote count for candidate.
func (c *Client) Votes(ctx context.Context, candidate string) (*big.Int, error) {
	var out *big.Int
	if err := c.call(ctx, &out, "getVotes", candidate); err != nil {
		return nil, err
	}
	return out, nil
}

// HasVoted reads the public hasVoted mapping for voter.
func (c *Client) HasVoted(ctx context.Context, voter common.Address) (bool, error) {
	var out bool
	if err := c.call(ctx, &out, "hasVoted", voter); err != nil {
		return false, err
	}
	return out, nil
}

// CheckVoteStatus calls checkVoteStatus for voter.
func (c *Client) CheckVoteStatus(ctx context.Context, voter common.Address) (bool, error) {
	var out bool
	if err := c.call(ctx, &out, "checkVoteStatus", voter); err != nil {
		return false, err
	}
	return out, nil
}

// Owner returns the contract owner.
func (c *Client) Owner(ctx context.Context) (common.Address, error) {
	var out common.Address
	if err := c.call(ctx, &out, "owner"); err != nil {
		return common.Address{}, err
	}
	return out, nil
}

// Vote casts a vote for candidate.
func (c *Client) Vote(ctx context.Context, candidate string) (*types.Receipt, error) {
	return c.transact(ctx, "vote", candidate)
}

// AddCandidate registers a new candidate. Only the owner may call it.
func (c *Client) AddCandidate(ctx context.Context, name string) (*types.Receipt, error) {
	return c.transact(ctx, "addCandidate", name)
}

// ResetVoter clears the voted flag for voter. Only the owner may call it.
func (c *Client) ResetVoter(ctx context.Context, voter common.Address) (*types.Receipt, error) {
	return c.transact(ctx, "resetVoter", voter)
}

// ResetAllVotes zeroes every candidate's count. Only the owner may call it.
func (c *Client) ResetAllVotes(ctx context.Context) (*types.Receipt, error) {
	return c.transact(ctx, "resetAllVotes")
}

// call runs a read-only method and unpacks its single output into out.
func (c *Client) call(ctx context.Context, out any, method string, args ...any) error {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return pkgerrors.NewValidationError(method, args, err.Error())
	}

	msg := ethereum.CallMsg{From: c.from, To: &c.address, Data: input}
	output, err := c.Backend.CallContract(ctx, msg, nil)
	if err != nil {
		if reason, ok := revertReason(err); ok {
			return &pkgerrors.RevertError{Method: method, Reason: reason, Err: err}
		}
		return pkgerrors.WrapRPC(method, err)
	}

	values, err := c.abi.Unpack(method, output)
	if err != nil {
		// Empty output usually means no contract at the address.
		return pkgerrors.WrapRPC(method, err)
	}
	if len(values) == 0 {
		return nil
	}
	return c.abi.Methods[method].Outputs.Copy(out, values)
}

func (c *Client) transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, pkgerrors.NewValidationError(method, args, err.Error())
	}

	from := c.from
	if from == (common.Address{}) {
		if from, err = c.DefaultAccount(ctx); err != nil {
			return nil, err
		}
	}
	return c.SendTransaction(ctx, method, from, &c.address, input)
}
