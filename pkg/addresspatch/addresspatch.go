// Package addresspatch rewrites the contract address constant embedded in the
// client's source code.
package addresspatch

import (
	"regexp"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

// ErrPatternNotFound is returned when the source has no CONTRACT_ADDRESS constant.
var ErrPatternNotFound = errors.New("CONTRACT_ADDRESS constant not found")

var contractAddressPattern = regexp.MustCompile(`const CONTRACT_ADDRESS = "[^"]*";`)

// Patch replaces the first CONTRACT_ADDRESS constant in source. changed is
// false when the pattern is absent or already holds address.
func Patch(source string, address common.Address) (patched string, changed bool) {
	loc := contractAddressPattern.FindStringIndex(source)
	if loc == nil {
		return source, false
	}
	replacement := `const CONTRACT_ADDRESS = "` + address.Hex() + `";`
	if source[loc[0]:loc[1]] == replacement {
		return source, false
	}
	return source[:loc[0]] + replacement + source[loc[1]:], true
}

// Result describes a PatchFile run.
type Result struct {
	Location string `json:"location" yaml:"location"`
	Address  string `json:"address" yaml:"address"`
	Changed  bool   `json:"changed" yaml:"changed"`
}

// PatchFile patches the file at location. The file is left untouched and
// ErrPatternNotFound returned when it has no CONTRACT_ADDRESS constant.
func PatchFile(s *store.Store, location string, address common.Address) (*Result, error) {
	data, err := s.Read("client source", location)
	if err != nil {
		return nil, err
	}

	source := string(data)
	if !contractAddressPattern.MatchString(source) {
		return nil, ErrPatternNotFound
	}

	result := &Result{Location: location, Address: address.Hex()}
	patched, changed := Patch(source, address)
	if !changed {
		return result, nil
	}
	if err := s.Write(location, []byte(patched)); err != nil {
		return nil, err
	}
	result.Changed = true
	return result, nil
}
