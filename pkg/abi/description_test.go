package abi_test

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func str(name string) abi.Param { return abi.Param{Name: name, Type: "string"} }

func TestParseArtifact(t *testing.T) {
	d, err := abi.Parse("Voting.json", readFixture(t, "Voting.json"))
	require.NoError(t, err)

	assert.Equal(t, abi.FormatArtifact, d.Format())
	assert.Equal(t, "Voting.json", d.Location())
	assert.Equal(t, 10, d.Len())
	assert.Equal(t, []string{
		"addCandidate", "checkVoteStatus", "getAllCandidates", "getVotes",
		"hasVoted", "owner", "resetAllVotes", "resetVoter", "vote",
	}, d.FunctionNames())

	entries := d.Entries()
	assert.Equal(t, abi.KindConstructor, entries[0].Kind())
	assert.Empty(t, entries[0].Name)

	getVotes, ok := d.Lookup("getVotes")
	require.True(t, ok)
	assert.Equal(t, "getVotes(string)", getVotes.Signature())
	assert.Equal(t, []abi.Param{{InternalType: "uint256", Name: "", Type: "uint256"}}, getVotes.Outputs)
	assert.Equal(t, "view", getVotes.StateMutability)

	_, ok = d.Lookup("legacyVote")
	assert.False(t, ok)
}

func TestParseBare(t *testing.T) {
	d, err := abi.Parse("abi.json", readFixture(t, "Voting.abi.json"))
	require.NoError(t, err)
	assert.Equal(t, abi.FormatBare, d.Format())
	assert.Equal(t, 10, d.Len())

	artifact, err := abi.Parse("Voting.json", readFixture(t, "Voting.json"))
	require.NoError(t, err)
	assert.True(t, d.Equal(artifact))
}

func TestParseKinds(t *testing.T) {
	d, err := abi.Parse("", []byte(`[
		{"type":"event","name":"Voted","anonymous":false,"inputs":[{"indexed":true,"name":"voter","type":"address"}]},
		{"type":"fallback","stateMutability":"payable"},
		{"type":"error","name":"AlreadyVoted","inputs":[]},
		{"type":"function","name":"vote","inputs":[{"name":"candidate","type":"string"}],"outputs":[]}
	]`))
	require.NoError(t, err)

	kinds := []abi.Kind{}
	for _, e := range d.Entries() {
		kinds = append(kinds, e.Kind())
	}
	assert.Equal(t, []abi.Kind{abi.KindEvent, abi.KindOther, abi.KindOther, abi.KindFunction}, kinds)
	assert.Equal(t, []string{"vote"}, d.FunctionNames())
	assert.True(t, d.Entries()[0].Inputs[0].Indexed)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "empty", input: "  ", message: "empty document"},
		{name: "scalar", input: `42`, message: "expected a JSON array"},
		{name: "invalid json", input: `[{"type":`, message: "not a sequence of entries"},
		{name: "object without abi", input: `{"contractName":"Voting"}`, message: `no "abi" member`},
		{name: "abi not array", input: `{"abi":{"type":"function"}}`, message: "not a sequence of entries"},
		{name: "entry not object", input: `[1]`, message: "entry 0: entry is not an object"},
		{name: "null entry", input: `[null]`, message: "entry is not an object"},
		{name: "missing type", input: `[{"name":"vote"}]`, message: `entry 0 (vote): missing "type"`},
		{name: "function missing name", input: `[{"type":"function","inputs":[]}]`, message: `function entry missing "name"`},
		{name: "event missing name", input: `[{"type":"event","inputs":[]}]`, message: `event entry missing "name"`},
		{name: "param missing type", input: `[{"type":"function","name":"vote","inputs":[{"name":"c"}]}]`, message: `inputs: parameter 0 missing "type"`},
		{name: "inputs wrong shape", input: `[{"type":"function","name":"vote","inputs":"string"}]`, message: "entry 0"},
		{name: "trailing data", input: `{"abi":[]} {}`, message: "trailing data"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := abi.Parse("bad.json", []byte(tc.input))
			require.Error(t, err)
			assert.True(t, errors.IsMalformed(err), "got %v", err)
			assert.Contains(t, err.Error(), tc.message)
			assert.Contains(t, err.Error(), "bad.json")
		})
	}
}

func TestConstructorWithoutNameIsValid(t *testing.T) {
	d, err := abi.Parse("", []byte(`[{"type":"constructor","inputs":[]}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Empty(t, d.Functions())
}

func TestMarshalMatchesSourceFormatting(t *testing.T) {
	d, err := abi.Parse("Voting.json", readFixture(t, "Voting.json"))
	require.NoError(t, err)

	data, err := d.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(readFixture(t, "Voting.abi.json")), string(data))
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	d := abi.New(abi.Function("a<b>&c", nil, nil))
	data, err := d.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "a<b>&c"`)
	assert.False(t, strings.HasSuffix(string(data), "\n"))
}

func TestMarshalEmpty(t *testing.T) {
	data, err := abi.New().Marshal()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMarshalBuiltEntries(t *testing.T) {
	d := abi.New(
		abi.Constructor(abi.Param{Name: "_candidateNames", Type: "string[]"}),
		abi.Function("vote", []abi.Param{str("candidate")}, nil),
		abi.Event("Voted", abi.Param{Name: "voter", Type: "address", Indexed: true}),
	)
	data, err := d.Marshal()
	require.NoError(t, err)

	want := `[
  {
    "inputs": [
      {
        "name": "_candidateNames",
        "type": "string[]"
      }
    ],
    "stateMutability": "nonpayable",
    "type": "constructor"
  },
  {
    "inputs": [
      {
        "name": "candidate",
        "type": "string"
      }
    ],
    "name": "vote",
    "outputs": [],
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {
        "indexed": true,
        "name": "voter",
        "type": "address"
      }
    ],
    "name": "Voted",
    "type": "event"
  }
]`
	assert.Equal(t, want, string(data))
}

func TestMarshalEventKeepsIndexedFalse(t *testing.T) {
	d := abi.New(abi.Event("CandidateAdded",
		abi.Param{Name: "name", Type: "string"},
		abi.Param{Name: "by", Type: "address", Indexed: true},
	))
	data, err := d.Marshal()
	require.NoError(t, err)

	want := `[
  {
    "anonymous": false,
    "inputs": [
      {
        "indexed": false,
        "name": "name",
        "type": "string"
      },
      {
        "indexed": true,
        "name": "by",
        "type": "address"
      }
    ],
    "name": "CandidateAdded",
    "type": "event"
  }
]`
	assert.Equal(t, want, string(data))

	fn, err := abi.New(abi.Function("vote", []abi.Param{str("candidate")}, nil)).Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(fn), "indexed")
}

func TestRoundTrip(t *testing.T) {
	loaded, err := abi.Parse("Voting.json", readFixture(t, "Voting.json"))
	require.NoError(t, err)

	built := abi.New(
		abi.Function("vote", []abi.Param{str("candidate")}, nil),
		abi.Function("getVotes", []abi.Param{str("candidate")}, []abi.Param{{Type: "uint256"}}),
		abi.Function("setPair", []abi.Param{{
			Name: "pair", Type: "tuple",
			Components: []abi.Param{{Name: "a", Type: "uint256"}, {Name: "b", Type: "address"}},
		}}, nil),
		abi.Event("Voted", abi.Param{Name: "voter", Type: "address", Indexed: true}),
	)

	for name, d := range map[string]abi.Description{"loaded": loaded, "built": built} {
		t.Run(name, func(t *testing.T) {
			data, err := d.Marshal()
			require.NoError(t, err)

			reloaded, err := abi.Parse("", data)
			require.NoError(t, err)
			assert.True(t, d.Equal(reloaded))
			if diff := cmp.Diff(d.FunctionNames(), reloaded.FunctionNames()); diff != "" {
				t.Errorf("function names differ (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshalForArtifactKeepsOtherMembers(t *testing.T) {
	target, err := abi.Parse("Voting.json", readFixture(t, "Voting.json"))
	require.NoError(t, err)

	replacement := abi.New(abi.Function("vote", []abi.Param{str("candidate")}, nil))
	data, err := replacement.MarshalFor(target)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"contractName": "Voting"`)
	assert.Contains(t, out, `"bytecode": "0x608060405234801561001057600080fd5b50"`)
	assert.Less(t, strings.Index(out, `"contractName"`), strings.Index(out, `"abi"`))
	assert.Less(t, strings.Index(out, `"abi"`), strings.Index(out, `"bytecode"`))

	reloaded, err := abi.Parse("Voting.json", data)
	require.NoError(t, err)
	assert.Equal(t, abi.FormatArtifact, reloaded.Format())
	assert.True(t, replacement.Equal(reloaded))
}

func TestMarshalForBareTarget(t *testing.T) {
	target := abi.New()
	d := abi.New(abi.Function("vote", []abi.Param{str("candidate")}, nil))

	viaTarget, err := d.MarshalFor(target)
	require.NoError(t, err)
	direct, err := d.Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(direct), string(viaTarget))
}

func TestLoadAndSave(t *testing.T) {
	s := store.NewMemory()

	_, err := abi.Load(s, "consumer ABI", "client/abi.json")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	d := abi.New(abi.Function("vote", []abi.Param{str("candidate")}, nil))
	require.NoError(t, abi.Save(s, d, abi.New(), "client/abi.json"))

	loaded, err := abi.Load(s, "consumer ABI", "client/abi.json")
	require.NoError(t, err)
	assert.True(t, d.Equal(loaded))
	assert.Equal(t, "client/abi.json", loaded.Location())
}

func TestEntriesIsACopy(t *testing.T) {
	d := abi.New(abi.Function("vote", nil, nil))
	entries := d.Entries()
	entries[0].Name = "mutated"
	assert.Equal(t, []string{"vote"}, d.FunctionNames())
}

func TestCompile(t *testing.T) {
	d, err := abi.Parse("Voting.json", readFixture(t, "Voting.json"))
	require.NoError(t, err)

	compiled, err := d.Compile()
	require.NoError(t, err)
	assert.Contains(t, compiled.Methods, "getVotes")
	assert.Len(t, compiled.Constructor.Inputs, 1)

	bad := abi.New(abi.Function("broken", []abi.Param{{Name: "x", Type: "notatype"}}, nil))
	_, err = bad.Compile()
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err))
}

func TestSignatureExpandsTuples(t *testing.T) {
	e := abi.Function("setPairs", []abi.Param{{
		Name: "pairs", Type: "tuple[]",
		Components: []abi.Param{{Name: "a", Type: "uint256"}, {Name: "b", Type: "address"}},
	}}, nil)
	assert.Equal(t, "setPairs((uint256,address)[])", e.Signature())
}

func TestSameParams(t *testing.T) {
	a := []abi.Param{{Name: "candidate", Type: "string", InternalType: "string"}}
	b := []abi.Param{{Name: "candidate", Type: "string"}}
	assert.True(t, abi.SameParams(a, b))
	assert.True(t, abi.SameParams(nil, []abi.Param{}))
	assert.False(t, abi.SameParams(a, []abi.Param{{Name: "name", Type: "string"}}))
	assert.False(t, abi.SameParams(
		[]abi.Param{{Name: "a", Type: "uint256"}, {Name: "b", Type: "string"}},
		[]abi.Param{{Name: "b", Type: "string"}, {Name: "a", Type: "uint256"}},
	))
}
