// Package appcontext provides the shared application context interface
// used by all commands. Commands accept this interface rather than the
// concrete App type so they can be tested with a Mock.
package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/store"
)

// Paths are the file locations the commands read and write.
type Paths struct {
	Artifact      string
	ConsumerABI   string
	Deployment    string
	ClientContext string
	ExtractDir    string
}

// Network describes the node the commands talk to.
type Network struct {
	RPCURL  string
	ChainID int64
	Name    string
}

// Interface defines the application context that commands need.
type Interface interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Store returns the file store used for every read and write.
	Store() *store.Store

	// Paths returns the configured file locations.
	Paths() Paths

	// Network returns the configured node settings.
	Network() Network

	// Dial connects to the configured node.
	Dial(ctx context.Context) (*contract.Node, error)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
