// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all commands.
package emoji

// Status symbols.
const (
	// Success marks a completed operation or a passing check.
	Success = "✅"

	// Warning marks something the operator should act on.
	Warning = "⚠️"

	// Info marks informational messages.
	Info = "ℹ️"

	// Skipped marks an operation that was deliberately not performed.
	Skipped = "⏭️"
)

// Subject symbols.
const (
	// Write marks a file that was written.
	Write = "📝"

	// Location marks a contract address.
	Location = "📍"

	// Rocket marks a deployment.
	Rocket = "🚀"

	// Account marks node accounts.
	Account = "👤"

	// Candidates marks the candidate list.
	Candidates = "👥"
)
