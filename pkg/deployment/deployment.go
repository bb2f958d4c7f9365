// Package deployment reads and writes the deployment record produced after
// the contract is deployed.
package deployment

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

// Record describes a deployed contract.
type Record struct {
	ContractAddress string    `json:"contractAddress" yaml:"contractAddress"`
	Network         string    `json:"network" yaml:"network"`
	ChainID         int64     `json:"chainId" yaml:"chainId"`
	DeployedAt      time.Time `json:"deployedAt" yaml:"deployedAt"`
	Candidates      []string  `json:"candidates" yaml:"candidates"`
}

// NewRecord builds a record for a deployment that happened now.
func NewRecord(address common.Address, network string, chainID int64, candidates []string) *Record {
	if candidates == nil {
		candidates = []string{}
	}
	return &Record{
		ContractAddress: address.Hex(),
		Network:         network,
		ChainID:         chainID,
		DeployedAt:      time.Now().UTC().Truncate(time.Millisecond),
		Candidates:      candidates,
	}
}

// Address returns the contract address.
func (r *Record) Address() common.Address {
	return common.HexToAddress(r.ContractAddress)
}

// Validate checks that the record names a usable contract address.
func (r *Record) Validate() error {
	if !common.IsHexAddress(r.ContractAddress) {
		return errors.NewValidationError("contractAddress", r.ContractAddress, "not a hex address")
	}
	return nil
}

// Load reads the record at location.
func Load(s *store.Store, location string) (*Record, error) {
	data, err := s.Read("deployment record", location)
	if err != nil {
		return nil, err
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.NewValidationError("deployment", location, "invalid JSON: "+err.Error())
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Save writes the record as 2-space-indented JSON.
func Save(s *store.Store, r *Record, location string) error {
	if err := r.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", constants.JSONIndent)
	if err := enc.Encode(r); err != nil {
		return errors.NewWriteError(location, err)
	}
	return s.Write(location, bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
