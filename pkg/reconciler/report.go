package reconciler

import (
	"fmt"
	"io"
	"strings"

	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/constants"
)

// Report is the outcome of comparing an authoritative description against a
// consumer copy. Only function entries are compared.
type Report struct {
	AuthoritativeLocation  string              `json:"authoritativeLocation" yaml:"authoritativeLocation"`
	ConsumerLocation       string              `json:"consumerLocation" yaml:"consumerLocation"`
	AuthoritativeEntries   int                 `json:"authoritativeEntries" yaml:"authoritativeEntries"`
	ConsumerEntries        int                 `json:"consumerEntries" yaml:"consumerEntries"`
	AuthoritativeFunctions []string            `json:"authoritativeFunctions" yaml:"authoritativeFunctions"`
	ConsumerFunctions      []string            `json:"consumerFunctions" yaml:"consumerFunctions"`
	MissingInConsumer      []string            `json:"missingInConsumer" yaml:"missingInConsumer"`
	ExtraInConsumer        []string            `json:"extraInConsumer" yaml:"extraInConsumer"`
	SignatureMismatches    []SignatureMismatch `json:"signatureMismatches" yaml:"signatureMismatches"`
	Identical              bool                `json:"identical" yaml:"identical"`

	// consumer is kept so the rewrite can preserve the consumer's storage format.
	consumer abi.Description
	diffed   bool
}

// SignatureMismatch records a function present on both sides whose parameter
// lists differ. Overload is the zero-based position among same-named functions,
// on the authoritative side when that side declares the overload.
type SignatureMismatch struct {
	Name                   string      `json:"name" yaml:"name"`
	Overload               int         `json:"overload" yaml:"overload"`
	AuthoritativeInputs    []abi.Param `json:"authoritativeInputs" yaml:"authoritativeInputs"`
	ConsumerInputs         []abi.Param `json:"consumerInputs" yaml:"consumerInputs"`
	AuthoritativeOutputs   []abi.Param `json:"authoritativeOutputs" yaml:"authoritativeOutputs"`
	ConsumerOutputs        []abi.Param `json:"consumerOutputs" yaml:"consumerOutputs"`
	InputsDiffer           bool        `json:"inputsDiffer" yaml:"inputsDiffer"`
	OutputsDiffer          bool        `json:"outputsDiffer" yaml:"outputsDiffer"`
	AuthoritativeOverloads int         `json:"authoritativeOverloads" yaml:"authoritativeOverloads"`
	ConsumerOverloads      int         `json:"consumerOverloads" yaml:"consumerOverloads"`
}

// Differences returns the number of recorded differences.
func (r *Report) Differences() int {
	return len(r.MissingInConsumer) + len(r.ExtraInConsumer) + len(r.SignatureMismatches)
}

// Consumer returns the consumer description the report was built from.
func (r *Report) Consumer() abi.Description {
	return r.consumer
}

// String returns a one-line summary of the report.
func (r *Report) String() string {
	if r.Identical {
		return "ABIs are identical"
	}

	var parts []string
	if n := len(r.MissingInConsumer); n > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", n))
	}
	if n := len(r.ExtraInConsumer); n > 0 {
		parts = append(parts, fmt.Sprintf("%d extra", n))
	}
	if n := len(r.SignatureMismatches); n > 0 {
		parts = append(parts, fmt.Sprintf("%d mismatched", n))
	}
	return fmt.Sprintf("ABI drift: %s (Total: %d differences)", strings.Join(parts, ", "), r.Differences())
}

// Print writes a detailed, human-readable view of the report to w.
func (r *Report) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "🔍 Comparing ABIs\n")
	_, _ = fmt.Fprintf(w, "  Authoritative: %s (%d entries)\n", r.AuthoritativeLocation, r.AuthoritativeEntries)
	_, _ = fmt.Fprintf(w, "  Consumer:      %s (%d entries)\n", r.ConsumerLocation, r.ConsumerEntries)
	_, _ = fmt.Fprintln(w, strings.Repeat("─", constants.SeparatorWidth))

	_, _ = fmt.Fprintf(w, "\n📋 Authoritative functions (%d): %s\n", len(r.AuthoritativeFunctions), joinNames(r.AuthoritativeFunctions))
	_, _ = fmt.Fprintf(w, "📋 Consumer functions (%d): %s\n", len(r.ConsumerFunctions), joinNames(r.ConsumerFunctions))

	if len(r.MissingInConsumer) > 0 {
		_, _ = fmt.Fprintf(w, "\n❌ Missing in consumer (%d):\n", len(r.MissingInConsumer))
		for _, name := range r.MissingInConsumer {
			_, _ = fmt.Fprintf(w, "  • %s\n", name)
		}
	}

	if len(r.ExtraInConsumer) > 0 {
		_, _ = fmt.Fprintf(w, "\n⚠️  Extra in consumer (%d):\n", len(r.ExtraInConsumer))
		for _, name := range r.ExtraInConsumer {
			_, _ = fmt.Fprintf(w, "  • %s\n", name)
		}
	}

	if len(r.SignatureMismatches) > 0 {
		_, _ = fmt.Fprintf(w, "\n🔄 Signature mismatches (%d):\n", len(r.SignatureMismatches))
		for _, m := range r.SignatureMismatches {
			_, _ = fmt.Fprintf(w, "  • %s", m.Name)
			if m.AuthoritativeOverloads != m.ConsumerOverloads {
				_, _ = fmt.Fprintf(w, " (overloads: %d → %d)", m.ConsumerOverloads, m.AuthoritativeOverloads)
			}
			_, _ = fmt.Fprintln(w)
			if m.InputsDiffer {
				_, _ = fmt.Fprintf(w, "    - inputs:  %s → %s\n", formatParams(m.ConsumerInputs), formatParams(m.AuthoritativeInputs))
			}
			if m.OutputsDiffer {
				_, _ = fmt.Fprintf(w, "    - outputs: %s → %s\n", formatParams(m.ConsumerOutputs), formatParams(m.AuthoritativeOutputs))
			}
		}
	}

	_, _ = fmt.Fprintln(w)
	if r.Identical {
		_, _ = fmt.Fprintln(w, "✅ ABIs are identical")
		return
	}
	_, _ = fmt.Fprintf(w, "❌ %s\n", r.String())
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

// formatParams renders a parameter list as "(type name, type name)".
func formatParams(params []abi.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "" {
			parts = append(parts, p.Type)
			continue
		}
		parts = append(parts, p.Type+" "+p.Name)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
