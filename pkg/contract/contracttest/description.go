package contracttest

import "github.com/ballotbox/votekit/pkg/abi"

func param(name, typ string) abi.Param {
	return abi.Param{InternalType: typ, Name: name, Type: typ}
}

func view(name string, inputs []abi.Param, output abi.Param) abi.Entry {
	e := abi.Function(name, inputs, []abi.Param{output})
	e.StateMutability = "view"
	return e
}

func nonpayable(name string, inputs ...abi.Param) abi.Entry {
	e := abi.Function(name, inputs, []abi.Param{})
	e.StateMutability = "nonpayable"
	return e
}

// Description returns the voting contract interface.
func Description() abi.Description {
	return abi.New(
		abi.Constructor(param("_candidateNames", "string[]")),
		nonpayable("addCandidate", param("_name", "string")),
		view("checkVoteStatus", []abi.Param{param("_voter", "address")}, param("", "bool")),
		view("getAllCandidates", nil, param("", "string[]")),
		view("getVotes", []abi.Param{param("candidate", "string")}, param("", "uint256")),
		view("hasVoted", []abi.Param{param("", "address")}, param("", "bool")),
		view("owner", nil, param("", "address")),
		nonpayable("resetAllVotes"),
		nonpayable("resetVoter", param("_voter", "address")),
		nonpayable("vote", param("candidate", "string")),
	)
}
