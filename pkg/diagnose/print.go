package diagnose

import (
	"fmt"
	"io"
	"strings"

	"github.com/ballotbox/votekit/pkg/constants"
)

// Print writes the diagnosis in a human-readable format.
func (r *Report) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "🔍 CONTRACT DIAGNOSIS")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", constants.SeparatorWidth))

	if d := r.Deployment; d != nil {
		_, _ = fmt.Fprintln(w, "✅ Deployment record found")
		_, _ = fmt.Fprintf(w, "🌐 Network: %s\n", d.Network)
		_, _ = fmt.Fprintf(w, "🆔 Chain ID: %d\n", d.ChainID)
		_, _ = fmt.Fprintf(w, "📅 Deployed at: %s\n", d.DeployedAt.Format("2006-01-02T15:04:05.000Z07:00"))
		_, _ = fmt.Fprintf(w, "👥 Candidates: %s\n", strings.Join(d.Candidates, ", "))
	}
	_, _ = fmt.Fprintf(w, "📍 Contract Address: %s\n", r.ContractAddress)

	_, _ = fmt.Fprintln(w, "\n🔗 Connection")
	if r.NetworkError != "" {
		_, _ = fmt.Fprintf(w, "  ❌ %s\n", r.NetworkError)
	} else {
		_, _ = fmt.Fprintf(w, "  🌐 Connected to chain %s\n", r.ChainID)
		_, _ = fmt.Fprintf(w, "  📦 Current block number: %d\n", r.BlockNumber)
	}
	if r.Deployed {
		_, _ = fmt.Fprintln(w, "  ✅ Contract code present")
	} else {
		_, _ = fmt.Fprintln(w, "  ❌ No contract code at address, redeploy the contract")
	}
	if r.OwnerError != "" {
		_, _ = fmt.Fprintf(w, "  ❌ owner: %s\n", r.OwnerError)
	} else {
		_, _ = fmt.Fprintf(w, "  👑 Contract owner: %s\n", r.Owner)
	}

	_, _ = fmt.Fprintf(w, "\n📋 Callable functions (%d):\n", len(r.Functions))
	for _, fn := range r.Functions {
		_, _ = fmt.Fprintf(w, "  • %s\n", fn)
	}

	if len(r.Probes) > 0 {
		_, _ = fmt.Fprintln(w, "\n📊 Vote status probes:")
		for _, p := range r.Probes {
			if p.Error != "" {
				_, _ = fmt.Fprintf(w, "  %s %s: ❌ ERROR - %s\n", p.Short, p.Function, p.Error)
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s %s: %t\n", p.Short, p.Function, p.Value)
		}
	}

	printTallies(w, "\n📈 Current vote results:", r.Candidates, r.Tallies, r.CandidatesError)

	_, _ = fmt.Fprintln(w)
	if r.Healthy() {
		_, _ = fmt.Fprintln(w, "🎯 Contract is deployed and answering calls")
		return
	}
	_, _ = fmt.Fprintln(w, "🚨 Contract check failed: start the node and redeploy if the address has no code")
}

// Print writes the vote status in a human-readable format.
func (s *StatusReport) Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "🔍 Vote status")
	_, _ = fmt.Fprintf(w, "📍 Contract Address: %s\n", s.ContractAddress)

	_, _ = fmt.Fprintln(w, "\n📋 Available Candidates:")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", 30))
	if s.CandidatesError != "" {
		_, _ = fmt.Fprintf(w, "❌ Error getting candidates: %s\n", s.CandidatesError)
	}
	for i, name := range s.Candidates {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, name)
	}

	_, _ = fmt.Fprintln(w, "\n🗳️ Vote Status Check:")
	_, _ = fmt.Fprintln(w, strings.Repeat("=", constants.SeparatorWidth))
	for _, v := range s.Voters {
		switch {
		case v.Error != "":
			_, _ = fmt.Fprintf(w, "%s: ❌ ERROR - %s\n", v.Short, v.Error)
		case v.Voted:
			_, _ = fmt.Fprintf(w, "%s: ✅ VOTED\n", v.Short)
		default:
			_, _ = fmt.Fprintf(w, "%s: ❌ NOT VOTED\n", v.Short)
		}
	}

	if s.CandidatesError == "" {
		printTallies(w, "\n📊 Current Vote Results:", nil, s.Tallies, "")
	}

	_, _ = fmt.Fprintln(w, "\n👑 Contract Owner:")
	if s.OwnerError != "" {
		_, _ = fmt.Fprintf(w, "❌ Error getting owner: %s\n", s.OwnerError)
		return
	}
	_, _ = fmt.Fprintf(w, "Owner: %s\n", s.Owner)
}

func printTallies(w io.Writer, title string, candidates []string, tallies []Tally, candidatesErr string) {
	_, _ = fmt.Fprintln(w, title)
	if candidatesErr != "" {
		_, _ = fmt.Fprintf(w, "  ❌ Error getting candidates: %s\n", candidatesErr)
		return
	}
	if len(candidates) > 0 {
		_, _ = fmt.Fprintf(w, "  👥 Candidates: %s\n", strings.Join(candidates, ", "))
	}
	for _, t := range tallies {
		if t.Error != "" {
			_, _ = fmt.Fprintf(w, "  %s: ❌ ERROR - %s\n", t.Candidate, t.Error)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %s: %s votes\n", t.Candidate, t.Votes)
	}
}
