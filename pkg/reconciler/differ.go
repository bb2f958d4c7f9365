package reconciler

import (
	"github.com/ballotbox/votekit/pkg/abi"
)

// functionSet groups function entries by name, keeping first-seen order.
type functionSet struct {
	names  []string
	byName map[string][]abi.Entry
}

func newFunctionSet(d abi.Description) functionSet {
	set := functionSet{byName: make(map[string][]abi.Entry)}
	for _, e := range d.Functions() {
		if _, seen := set.byName[e.Name]; !seen {
			set.names = append(set.names, e.Name)
		}
		set.byName[e.Name] = append(set.byName[e.Name], e)
	}
	return set
}

func (s functionSet) has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Diff compares the function entries of authoritative and consumer.
// Non-function entries are ignored. Neither description is modified.
func Diff(authoritative, consumer abi.Description) *Report {
	auth := newFunctionSet(authoritative)
	cons := newFunctionSet(consumer)

	report := &Report{
		AuthoritativeLocation:  authoritative.Location(),
		ConsumerLocation:       consumer.Location(),
		AuthoritativeEntries:   authoritative.Len(),
		ConsumerEntries:        consumer.Len(),
		AuthoritativeFunctions: authoritative.FunctionNames(),
		ConsumerFunctions:      consumer.FunctionNames(),
		MissingInConsumer:      []string{},
		ExtraInConsumer:        []string{},
		SignatureMismatches:    []SignatureMismatch{},
		consumer:               consumer,
		diffed:                 true,
	}

	for _, name := range auth.names {
		if !cons.has(name) {
			report.MissingInConsumer = append(report.MissingInConsumer, name)
		}
	}

	for _, name := range cons.names {
		if !auth.has(name) {
			report.ExtraInConsumer = append(report.ExtraInConsumer, name)
		}
	}

	for _, name := range auth.names {
		if !cons.has(name) {
			continue
		}
		if mismatch, ok := compareOverloads(name, auth.byName[name], cons.byName[name]); ok {
			report.SignatureMismatches = append(report.SignatureMismatches, mismatch)
		}
	}

	report.Identical = len(report.MissingInConsumer) == 0 &&
		len(report.ExtraInConsumer) == 0 &&
		len(report.SignatureMismatches) == 0

	return report
}

// compareOverloads pairs same-named functions by input signature, so the
// declaration order of overloads does not matter. Overloads left unpaired on
// both sides are then paired in order, and any remainder is one-sided. The
// first pair whose inputs or outputs differ is reported.
func compareOverloads(name string, auth, cons []abi.Entry) (SignatureMismatch, bool) {
	paired := make([]bool, len(cons))
	var authLeft []int

	for i, a := range auth {
		sig := a.Signature()
		j := -1
		for k := range cons {
			if !paired[k] && cons[k].Signature() == sig {
				j = k
				break
			}
		}
		if j < 0 {
			authLeft = append(authLeft, i)
			continue
		}
		paired[j] = true
		if m, ok := mismatch(name, i, &auth[i], &cons[j], len(auth), len(cons)); ok {
			return m, true
		}
	}

	var consLeft []int
	for j := range cons {
		if !paired[j] {
			consLeft = append(consLeft, j)
		}
	}

	for k := 0; k < max(len(authLeft), len(consLeft)); k++ {
		var a, c *abi.Entry
		position := 0
		if k < len(consLeft) {
			c = &cons[consLeft[k]]
			position = consLeft[k]
		}
		if k < len(authLeft) {
			a = &auth[authLeft[k]]
			position = authLeft[k]
		}
		if m, ok := mismatch(name, position, a, c, len(auth), len(cons)); ok {
			return m, true
		}
	}
	return SignatureMismatch{}, false
}

// mismatch compares one overload pair. A nil side is an overload the other
// description does not declare.
func mismatch(name string, position int, a, c *abi.Entry, authCount, consCount int) (SignatureMismatch, bool) {
	m := SignatureMismatch{
		Name:                   name,
		Overload:               position,
		AuthoritativeOverloads: authCount,
		ConsumerOverloads:      consCount,
	}
	if a != nil {
		m.AuthoritativeInputs, m.AuthoritativeOutputs = a.Inputs, a.Outputs
	}
	if c != nil {
		m.ConsumerInputs, m.ConsumerOutputs = c.Inputs, c.Outputs
	}
	m.InputsDiffer = a == nil || c == nil || !abi.SameParams(a.Inputs, c.Inputs)
	m.OutputsDiffer = !abi.SameParams(m.AuthoritativeOutputs, m.ConsumerOutputs)
	return m, m.InputsDiffer || m.OutputsDiffer
}
