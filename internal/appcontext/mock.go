package appcontext

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/ballotbox/votekit/pkg/constants"
	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/store"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	StoreFunc        func() *store.Store
	PathsFunc        func() Paths
	NetworkFunc      func() Network
	DialFunc         func(ctx context.Context) (*contract.Node, error)
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string

	memory *store.Store
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Store returns a store using the mock function or a shared in-memory store.
func (m *Mock) Store() *store.Store {
	if m.StoreFunc != nil {
		return m.StoreFunc()
	}
	if m.memory == nil {
		m.memory = store.NewMemory()
	}
	return m.memory
}

// Paths returns paths using the mock function or the defaults.
func (m *Mock) Paths() Paths {
	if m.PathsFunc != nil {
		return m.PathsFunc()
	}
	return Paths{
		Artifact:      constants.DefaultArtifactPath,
		ConsumerABI:   constants.DefaultConsumerABIPath,
		Deployment:    constants.DefaultDeploymentPath,
		ClientContext: constants.DefaultClientContextPath,
		ExtractDir:    constants.DefaultExtractDir,
	}
}

// Network returns node settings using the mock function or the defaults.
func (m *Mock) Network() Network {
	if m.NetworkFunc != nil {
		return m.NetworkFunc()
	}
	return Network{
		RPCURL:  constants.DefaultRPCURL,
		ChainID: constants.DefaultChainID,
		Name:    constants.DefaultNetwork,
	}
}

// Dial returns a node using the mock function or an error.
func (m *Mock) Dial(ctx context.Context) (*contract.Node, error) {
	if m.DialFunc != nil {
		return m.DialFunc(ctx)
	}
	return nil, errors.New("mock: no node configured")
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
