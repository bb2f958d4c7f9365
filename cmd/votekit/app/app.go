// Package app provides the application context and dependency management
// for the votekit CLI. It centralizes configuration, logging, the file
// store and the node connection so commands only see appcontext.Interface.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ballotbox/votekit/internal/appcontext"
	"github.com/ballotbox/votekit/internal/cmd/output"
	"github.com/ballotbox/votekit/pkg/contract"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

// Dialer connects to a node at url.
type Dialer func(ctx context.Context, url string) (*contract.Node, error)

// App represents the votekit application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	store  *store.Store
	dial   Dialer

	// flags are bound to the root command's persistent flags
	flags globalFlags
}

// New creates a new App instance with the given version information.
// The app is initialized from LoadConfig and can be customized using
// functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		store:   store.NewOS(),
		dial:    contract.Dial,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured format, or one detected from stdout.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Store returns the file store.
func (a *App) Store() *store.Store {
	return a.store
}

// Paths returns the configured file locations.
func (a *App) Paths() appcontext.Paths {
	return appcontext.Paths{
		Artifact:      a.config.ArtifactPath,
		ConsumerABI:   a.config.ConsumerABIPath,
		Deployment:    a.config.DeploymentPath,
		ClientContext: a.config.ClientContextPath,
		ExtractDir:    a.config.ExtractDir,
	}
}

// Network returns the configured node settings.
func (a *App) Network() appcontext.Network {
	return appcontext.Network{
		RPCURL:  a.config.RPCURL,
		ChainID: a.config.ChainID,
		Name:    a.config.Network,
	}
}

// Dial connects to the configured node.
func (a *App) Dial(ctx context.Context) (*contract.Node, error) {
	a.logger.Debug().Str("url", a.config.RPCURL).Msg("Dialing node")
	return a.dial(ctx, a.config.RPCURL)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStore sets the file store (useful for testing).
func WithStore(s *store.Store) Option {
	return func(a *App) error {
		if s == nil {
			return errors.NewValidationError("store", nil, "store cannot be nil")
		}
		a.store = s
		return nil
	}
}

// WithDialer sets how the app connects to a node (useful for testing).
func WithDialer(dial Dialer) Option {
	return func(a *App) error {
		if dial == nil {
			return errors.NewValidationError("dialer", nil, "dialer cannot be nil")
		}
		a.dial = dial
		return nil
	}
}

var _ appcontext.Interface = (*App)(nil)
