package abi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ballotbox/votekit/pkg/errors"
)

// entryWire is the decoding shape of an entry. Pointers tell a missing
// field apart from an empty one.
type entryWire struct {
	Type            *string `json:"type"`
	Name            *string `json:"name"`
	Inputs          []Param `json:"inputs"`
	Outputs         []Param `json:"outputs"`
	StateMutability string  `json:"stateMutability"`
	Anonymous       bool    `json:"anonymous"`
}

// Parse decodes data into a Description. data is either a JSON array of
// entries or an object with an "abi" array member (a build artifact).
// location is only used in errors and returned by Description.Location.
func Parse(location string, data []byte) (Description, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Description{}, errors.NewMalformedDescriptionError(location, "empty document", nil)
	}

	switch trimmed[0] {
	case '[':
		entries, err := parseEntries(location, trimmed)
		if err != nil {
			return Description{}, err
		}
		return Description{entries: entries, format: FormatBare, location: location}, nil

	case '{':
		members, err := parseMembers(location, trimmed)
		if err != nil {
			return Description{}, err
		}
		for _, m := range members {
			if m.key != abiMember {
				continue
			}
			entries, err := parseEntries(location, m.value)
			if err != nil {
				return Description{}, err
			}
			return Description{entries: entries, format: FormatArtifact, location: location, members: members}, nil
		}
		return Description{}, errors.NewMalformedDescriptionError(location, `object has no "abi" member`, nil)

	default:
		return Description{}, errors.NewMalformedDescriptionError(location,
			"expected a JSON array of entries or an object with an abi member", nil)
	}
}

// parseMembers decodes the top-level object keeping key order.
func parseMembers(location string, data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, errors.NewMalformedDescriptionError(location, "invalid JSON", err)
	}

	var members []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.NewMalformedDescriptionError(location, "invalid JSON", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.NewMalformedDescriptionError(location, "invalid object key", nil)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.NewMalformedDescriptionError(location, "invalid JSON", err)
		}
		compact, err := compactJSON(value)
		if err != nil {
			return nil, errors.NewMalformedDescriptionError(location, "invalid JSON", err)
		}
		members = append(members, member{key: key, value: compact})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.NewMalformedDescriptionError(location, "invalid JSON", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.NewMalformedDescriptionError(location, "trailing data after document", err)
	}
	return members, nil
}

func parseEntries(location string, data []byte) ([]Entry, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.NewMalformedDescriptionError(location, "not a sequence of entries", err)
	}

	entries := make([]Entry, 0, len(raws))
	for i, raw := range raws {
		entry, err := parseEntry(location, i, raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseEntry(location string, index int, raw json.RawMessage) (Entry, error) {
	if t := bytes.TrimSpace(raw); len(t) == 0 || t[0] != '{' {
		return Entry{}, errors.NewMalformedEntryError(location, index, "", "entry is not an object")
	}

	var wire entryWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		e := errors.NewMalformedEntryError(location, index, "", err.Error())
		e.Err = err
		return Entry{}, e
	}

	name := ""
	if wire.Name != nil {
		name = *wire.Name
	}
	if wire.Type == nil || *wire.Type == "" {
		return Entry{}, errors.NewMalformedEntryError(location, index, name, `missing "type"`)
	}

	entry := Entry{
		Type:            *wire.Type,
		Name:            name,
		Inputs:          wire.Inputs,
		Outputs:         wire.Outputs,
		StateMutability: wire.StateMutability,
		Anonymous:       wire.Anonymous,
	}

	if k := entry.Kind(); (k == KindFunction || k == KindEvent) && name == "" {
		return Entry{}, errors.NewMalformedEntryError(location, index, "", fmt.Sprintf(`%s entry missing "name"`, k))
	}
	if err := checkParams(entry.Inputs); err != nil {
		return Entry{}, errors.NewMalformedEntryError(location, index, name, "inputs: "+err.Error())
	}
	if err := checkParams(entry.Outputs); err != nil {
		return Entry{}, errors.NewMalformedEntryError(location, index, name, "outputs: "+err.Error())
	}

	compact, err := compactJSON(raw)
	if err != nil {
		return Entry{}, errors.NewMalformedEntryError(location, index, name, err.Error())
	}
	entry.raw = compact
	return entry, nil
}

func checkParams(params []Param) error {
	for i, p := range params {
		if p.Type == "" {
			return fmt.Errorf(`parameter %d missing "type"`, i)
		}
		if err := checkParams(p.Components); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	return nil
}

func compactJSON(raw []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}
