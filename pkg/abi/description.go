// Package abi models a contract interface description: the ordered list of
// function, event and constructor entries found in a solc ABI. Descriptions
// are parsed fresh from their source on every load and never mutated.
package abi

import (
	"bytes"
	"encoding/json"
	"slices"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

// Format is the storage layout a description was loaded from.
type Format string

const (
	// FormatBare is a JSON array of entries.
	FormatBare Format = "bare"
	// FormatArtifact is a JSON object carrying the entries under "abi".
	FormatArtifact Format = "artifact"
)

// abiMember is the artifact member holding the entries.
const abiMember = "abi"

// member is one top-level key of an artifact document, in source order.
type member struct {
	key   string
	value json.RawMessage
}

// Description is an immutable, ordered interface description.
type Description struct {
	entries  []Entry
	format   Format
	location string
	members  []member
}

// New builds a bare description from entries.
func New(entries ...Entry) Description {
	return Description{entries: slices.Clone(entries), format: FormatBare}
}

// Entries returns a copy of the entries in declaration order.
func (d Description) Entries() []Entry {
	return slices.Clone(d.entries)
}

// Len returns the number of entries of every kind.
func (d Description) Len() int {
	return len(d.entries)
}

// Format returns the storage layout the description came from.
func (d Description) Format() Format {
	if d.format == "" {
		return FormatBare
	}
	return d.format
}

// Location returns where the description was loaded from, if anywhere.
func (d Description) Location() string {
	return d.location
}

// Functions returns the function entries in declaration order.
func (d Description) Functions() []Entry {
	var fns []Entry
	for _, e := range d.entries {
		if e.IsFunction() {
			fns = append(fns, e)
		}
	}
	return fns
}

// FunctionNames returns the names of the function entries in declaration order.
func (d Description) FunctionNames() []string {
	fns := d.Functions()
	names := make([]string, len(fns))
	for i, e := range fns {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the first function entry with the given name.
func (d Description) Lookup(name string) (Entry, bool) {
	for _, e := range d.entries {
		if e.IsFunction() && e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Equal reports whether d and other hold the same entries, entry for entry
// and field for field. Format and location are not compared.
func (d Description) Equal(other Description) bool {
	return slices.EqualFunc(d.entries, other.entries, Entry.Equal)
}

// Marshal serializes the entries as a bare, 2-space-indented JSON array.
func (d Description) Marshal() ([]byte, error) {
	return encode(d.entries)
}

// MarshalFor serializes d in the storage layout of target. For an artifact
// target only the "abi" member is replaced; other members keep their order
// and content.
func (d Description) MarshalFor(target Description) ([]byte, error) {
	if target.Format() != FormatArtifact {
		return d.Marshal()
	}

	entries, err := encodeCompact(d.entries)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	replaced := false
	for i, m := range target.members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if m.key == abiMember {
			buf.Write(entries)
			replaced = true
		} else {
			buf.Write(m.value)
		}
	}
	if !replaced {
		if len(target.members) > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"` + abiMember + `":`)
		buf.Write(entries)
	}
	buf.WriteByte('}')

	return indent(buf.Bytes())
}

// Compile converts the description into a go-ethereum ABI for packing calls.
func (d Description) Compile() (gethabi.ABI, error) {
	data, err := d.Marshal()
	if err != nil {
		return gethabi.ABI{}, err
	}
	parsed, err := gethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return gethabi.ABI{}, errors.NewMalformedDescriptionError(d.location, "not a valid contract ABI", err)
	}
	return parsed, nil
}

// Load reads and parses the description at location. resource names the
// document in errors ("artifact", "consumer ABI").
func Load(s *store.Store, resource, location string) (Description, error) {
	data, err := s.Read(resource, location)
	if err != nil {
		return Description{}, err
	}
	return Parse(location, data)
}

// Save writes d to location in the layout of target.
func Save(s *store.Store, d, target Description, location string) error {
	data, err := d.MarshalFor(target)
	if err != nil {
		return errors.NewWriteError(location, err)
	}
	return s.Write(location, data)
}

// encode renders entries the way JSON.stringify(value, null, 2) does:
// 2-space indent, no HTML escaping, no trailing newline.
func encode(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", constants.JSONIndent)
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeCompact(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func indent(compact []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", constants.JSONIndent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
