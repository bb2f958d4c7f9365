package abi

import (
	"encoding/json"
	"slices"
	"strings"
)

// Kind classifies an Entry by its type tag.
type Kind string

const (
	// KindFunction is a callable function.
	KindFunction Kind = "function"
	// KindEvent is an emitted event.
	KindEvent Kind = "event"
	// KindConstructor is the contract constructor.
	KindConstructor Kind = "constructor"
	// KindOther covers fallback, receive, error and anything unknown.
	KindOther Kind = "other"
)

// Param is one {name, type} pair of an entry's inputs or outputs.
// InternalType, Indexed and Components are carried for serialization only;
// they take no part in signature comparison.
type Param struct {
	Components   []Param `json:"components,omitempty"`
	Indexed      bool    `json:"indexed,omitempty"`
	InternalType string  `json:"internalType,omitempty"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
}

// SameShape reports whether p and other agree on name and type.
func (p Param) SameShape(other Param) bool {
	return p.Name == other.Name && p.Type == other.Type
}

// canonicalType renders the type used in a signature, expanding tuples.
func (p Param) canonicalType() string {
	if !strings.HasPrefix(p.Type, "tuple") {
		return p.Type
	}
	parts := make([]string, len(p.Components))
	for i, c := range p.Components {
		parts[i] = c.canonicalType()
	}
	return "(" + strings.Join(parts, ",") + ")" + strings.TrimPrefix(p.Type, "tuple")
}

func (p Param) equal(other Param) bool {
	return p.Name == other.Name &&
		p.Type == other.Type &&
		p.InternalType == other.InternalType &&
		p.Indexed == other.Indexed &&
		slices.EqualFunc(p.Components, other.Components, Param.equal)
}

// SameParams reports whether a and b are equal as ordered {name, type} sequences.
// A nil list and an empty list are equal.
func SameParams(a, b []Param) bool {
	return slices.EqualFunc(a, b, Param.SameShape)
}

// Entry is one element of an interface description.
type Entry struct {
	// Type is the raw type tag as written in the source document.
	Type            string
	Name            string
	Inputs          []Param
	Outputs         []Param
	StateMutability string
	Anonymous       bool

	// raw is the compact source JSON of a loaded entry.
	raw json.RawMessage
}

// Function builds a function entry.
func Function(name string, inputs, outputs []Param) Entry {
	return Entry{Type: string(KindFunction), Name: name, Inputs: inputs, Outputs: outputs}
}

// Event builds an event entry.
func Event(name string, inputs ...Param) Entry {
	return Entry{Type: string(KindEvent), Name: name, Inputs: inputs}
}

// Constructor builds a constructor entry.
func Constructor(inputs ...Param) Entry {
	return Entry{Type: string(KindConstructor), Inputs: inputs, StateMutability: "nonpayable"}
}

// Kind returns the entry's classification.
func (e Entry) Kind() Kind {
	switch Kind(e.Type) {
	case KindFunction, KindEvent, KindConstructor:
		return Kind(e.Type)
	default:
		return KindOther
	}
}

// IsFunction reports whether the entry is a function.
func (e Entry) IsFunction() bool {
	return e.Kind() == KindFunction
}

// Signature renders the canonical selector form, e.g. "vote(string)".
func (e Entry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.canonicalType()
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// Equal compares every exported field, including the serialization-only
// parameter attributes.
func (e Entry) Equal(other Entry) bool {
	return e.Type == other.Type &&
		e.Name == other.Name &&
		e.StateMutability == other.StateMutability &&
		e.Anonymous == other.Anonymous &&
		slices.EqualFunc(e.Inputs, other.Inputs, Param.equal) &&
		slices.EqualFunc(e.Outputs, other.Outputs, Param.equal)
}

// entryJSON is the serialized form of an entry built in code. Field order
// follows the alphabetical key order solc emits.
type entryJSON struct {
	Anonymous       *bool    `json:"anonymous,omitempty"`
	Inputs          any      `json:"inputs"`
	Name            string   `json:"name,omitempty"`
	Outputs         *[]Param `json:"outputs,omitempty"`
	StateMutability string   `json:"stateMutability,omitempty"`
	Type            string   `json:"type"`
}

// MarshalJSON emits the source JSON of a loaded entry verbatim, and the
// solc layout for entries built in code.
func (e Entry) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}

	out := entryJSON{
		Inputs:          nonNil(e.Inputs),
		Name:            e.Name,
		StateMutability: e.StateMutability,
		Type:            e.Type,
	}
	switch e.Kind() {
	case KindEvent:
		anonymous := e.Anonymous
		out.Anonymous = &anonymous
		out.Inputs = eventInputs(e.Inputs)
	case KindFunction:
		outputs := nonNil(e.Outputs)
		out.Outputs = &outputs
	}
	return json.Marshal(out)
}

// eventParam always carries "indexed", as solc does for event inputs.
type eventParam struct {
	Components   []Param `json:"components,omitempty"`
	Indexed      bool    `json:"indexed"`
	InternalType string  `json:"internalType,omitempty"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
}

func eventInputs(params []Param) []eventParam {
	out := make([]eventParam, len(params))
	for i, p := range params {
		out[i] = eventParam(p)
	}
	return out
}

func nonNil(params []Param) []Param {
	if params == nil {
		return []Param{}
	}
	return params
}
