// Package artifact reads compiler build artifacts and extracts their
// interface description and bytecode into standalone files.
package artifact

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

// Artifact is a hardhat build artifact.
type Artifact struct {
	ContractName     string
	SourceName       string
	ABI              abi.Description
	Bytecode         string
	DeployedBytecode string
	Location         string
}

type artifactJSON struct {
	ContractName     string `json:"contractName"`
	SourceName       string `json:"sourceName"`
	Bytecode         string `json:"bytecode"`
	DeployedBytecode string `json:"deployedBytecode"`
}

// Load reads the artifact at location.
func Load(s *store.Store, location string) (*Artifact, error) {
	data, err := s.Read("artifact", location)
	if err != nil {
		return nil, err
	}
	return Parse(location, data)
}

// Parse decodes an artifact document. The "abi" member and a non-empty
// "bytecode" are required.
func Parse(location string, data []byte) (*Artifact, error) {
	description, err := abi.Parse(location, data)
	if err != nil {
		return nil, err
	}
	if description.Format() != abi.FormatArtifact {
		return nil, errors.NewMalformedDescriptionError(location, "expected a build artifact object, found a bare ABI array", nil)
	}

	var raw artifactJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewMalformedDescriptionError(location, "invalid artifact fields", err)
	}
	if raw.Bytecode == "" || raw.Bytecode == "0x" {
		return nil, errors.NewMalformedDescriptionError(location, "artifact has no bytecode", nil)
	}
	if _, err := hexutil.Decode(raw.Bytecode); err != nil {
		return nil, errors.NewMalformedDescriptionError(location, "bytecode is not 0x-prefixed hex", err)
	}

	name := raw.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(location), filepath.Ext(location))
	}

	return &Artifact{
		ContractName:     name,
		SourceName:       raw.SourceName,
		ABI:              description,
		Bytecode:         raw.Bytecode,
		DeployedBytecode: raw.DeployedBytecode,
		Location:         location,
	}, nil
}

// Code returns the decoded creation bytecode.
func (a *Artifact) Code() []byte {
	code, _ := hexutil.Decode(a.Bytecode)
	return code
}

// Extracted holds the paths written by Extract.
type Extracted struct {
	ABIPath      string `json:"abiPath" yaml:"abiPath"`
	BytecodePath string `json:"bytecodePath" yaml:"bytecodePath"`
}

// Extract writes <ContractName>.abi and <ContractName>.bin into dir.
func Extract(s *store.Store, a *Artifact, dir string) (*Extracted, error) {
	abiJSON, err := a.ABI.Marshal()
	if err != nil {
		return nil, errors.NewWriteError(dir, err)
	}

	out := &Extracted{
		ABIPath:      filepath.Join(dir, a.ContractName+".abi"),
		BytecodePath: filepath.Join(dir, a.ContractName+".bin"),
	}
	if err := s.Write(out.ABIPath, abiJSON); err != nil {
		return nil, err
	}
	if err := s.Write(out.BytecodePath, []byte(a.Bytecode)); err != nil {
		return nil, err
	}
	return out, nil
}
