// Package diagnose builds diagnostic and vote-status reports for a deployed
// voting contract. Every probe runs independently: a failed call is recorded
// in the report and the remaining probes still run.
package diagnose

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/deployment"
	"github.com/ballotbox/votekit/pkg/logging"
)

// Contract is the read surface of the voting contract used by the reports.
// *contract.Client satisfies it.
type Contract interface {
	Address() common.Address
	Functions() []string
	Deployed(ctx context.Context) (bool, error)
	Network(ctx context.Context) (*contract.Network, error)
	AllCandidates(ctx context.Context) ([]string, error)
	Votes(ctx context.Context, candidate string) (*big.Int, error)
	HasVoted(ctx context.Context, voter common.Address) (bool, error)
	CheckVoteStatus(ctx context.Context, voter common.Address) (bool, error)
	Owner(ctx context.Context) (common.Address, error)
}

// Probe is the result of one boolean read for one address.
type Probe struct {
	Function string `json:"function" yaml:"function"`
	Address  string `json:"address" yaml:"address"`
	Short    string `json:"short" yaml:"short"`
	Value    bool   `json:"value" yaml:"value"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Tally is the vote count of one candidate.
type Tally struct {
	Candidate string `json:"candidate" yaml:"candidate"`
	Votes     string `json:"votes" yaml:"votes"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the outcome of Diagnose.
type Report struct {
	Deployment      *deployment.Record `json:"deployment,omitempty" yaml:"deployment,omitempty"`
	ContractAddress string             `json:"contractAddress" yaml:"contractAddress"`
	ChainID         string             `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	BlockNumber     uint64             `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	NetworkError    string             `json:"networkError,omitempty" yaml:"networkError,omitempty"`
	Deployed        bool               `json:"deployed" yaml:"deployed"`
	Owner           string             `json:"owner,omitempty" yaml:"owner,omitempty"`
	OwnerError      string             `json:"ownerError,omitempty" yaml:"ownerError,omitempty"`
	Functions       []string           `json:"functions" yaml:"functions"`
	Probes          []Probe            `json:"probes" yaml:"probes"`
	Candidates      []string           `json:"candidates" yaml:"candidates"`
	CandidatesError string             `json:"candidatesError,omitempty" yaml:"candidatesError,omitempty"`
	Tallies         []Tally            `json:"tallies" yaml:"tallies"`
}

// Healthy reports whether the contract answered every probe.
func (r *Report) Healthy() bool {
	if !r.Deployed || r.NetworkError != "" || r.OwnerError != "" || r.CandidatesError != "" {
		return false
	}
	for _, p := range r.Probes {
		if p.Error != "" {
			return false
		}
	}
	for _, t := range r.Tallies {
		if t.Error != "" {
			return false
		}
	}
	return true
}

// Diagnose inspects the contract: network, code presence, owner, callable
// functions, hasVoted and checkVoteStatus for each probe address, and the
// candidate tallies. record may be nil.
func Diagnose(ctx context.Context, c Contract, record *deployment.Record, probes []common.Address) *Report {
	ctx = logging.WithContract(ctx, c.Address().Hex())
	logger := logging.FromContext(ctx)

	report := &Report{
		Deployment:      record,
		ContractAddress: c.Address().Hex(),
		Functions:       c.Functions(),
		Probes:          []Probe{},
		Candidates:      []string{},
		Tallies:         []Tally{},
	}

	if network, err := c.Network(ctx); err != nil {
		report.NetworkError = err.Error()
	} else {
		report.ChainID = network.ChainID.String()
		report.BlockNumber = network.BlockNumber
	}

	deployed, err := c.Deployed(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("Code lookup failed")
	}
	report.Deployed = deployed

	if owner, err := c.Owner(ctx); err != nil {
		report.OwnerError = err.Error()
	} else {
		report.Owner = owner.Hex()
	}

	for _, addr := range probes {
		voted, err := c.HasVoted(ctx, addr)
		report.Probes = append(report.Probes, probe("hasVoted", addr, voted, err))

		status, err := c.CheckVoteStatus(ctx, addr)
		report.Probes = append(report.Probes, probe("checkVoteStatus", addr, status, err))
	}

	report.Candidates, report.Tallies, report.CandidatesError = tallies(ctx, c)
	return report
}

func probe(function string, addr common.Address, value bool, err error) Probe {
	p := Probe{
		Function: function,
		Address:  addr.Hex(),
		Short:    ShortAddress(addr),
		Value:    value,
	}
	if err != nil {
		p.Error = err.Error()
	}
	return p
}

func tallies(ctx context.Context, c Contract) ([]string, []Tally, string) {
	candidates, err := c.AllCandidates(ctx)
	if err != nil {
		return []string{}, []Tally{}, err.Error()
	}

	out := make([]Tally, 0, len(candidates))
	for _, name := range candidates {
		t := Tally{Candidate: name}
		votes, err := c.Votes(ctx, name)
		if err != nil {
			t.Error = err.Error()
		} else {
			t.Votes = votes.String()
		}
		out = append(out, t)
	}
	return candidates, out, ""
}

// VoterStatus is the voted flag of one address.
type VoterStatus struct {
	Address string `json:"address" yaml:"address"`
	Short   string `json:"short" yaml:"short"`
	Voted   bool   `json:"voted" yaml:"voted"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// StatusReport is the outcome of VoteStatus.
type StatusReport struct {
	ContractAddress string        `json:"contractAddress" yaml:"contractAddress"`
	Candidates      []string      `json:"candidates" yaml:"candidates"`
	CandidatesError string        `json:"candidatesError,omitempty" yaml:"candidatesError,omitempty"`
	Voters          []VoterStatus `json:"voters" yaml:"voters"`
	Tallies         []Tally       `json:"tallies" yaml:"tallies"`
	Owner           string        `json:"owner,omitempty" yaml:"owner,omitempty"`
	OwnerError      string        `json:"ownerError,omitempty" yaml:"ownerError,omitempty"`
}

// VoteStatus lists the candidates, the voted flag of each address, the
// tallies and the shortened owner.
func VoteStatus(ctx context.Context, c Contract, addresses []common.Address) *StatusReport {
	report := &StatusReport{
		ContractAddress: c.Address().Hex(),
		Voters:          make([]VoterStatus, 0, len(addresses)),
	}

	report.Candidates, report.Tallies, report.CandidatesError = tallies(ctx, c)

	for _, addr := range addresses {
		s := VoterStatus{Address: addr.Hex(), Short: ShortAddress(addr)}
		voted, err := c.HasVoted(ctx, addr)
		if err != nil {
			s.Error = err.Error()
		}
		s.Voted = voted
		report.Voters = append(report.Voters, s)
	}

	if owner, err := c.Owner(ctx); err != nil {
		report.OwnerError = err.Error()
	} else {
		report.Owner = ShortAddress(owner)
	}
	return report
}
