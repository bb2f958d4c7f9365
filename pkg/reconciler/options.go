package reconciler

import (
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/store"
)

// options configures a reconciler.
type options struct {
	store  *store.Store
	dryRun bool
}

func defaultOptions() *options {
	return &options{
		store: store.NewOS(),
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithStore sets the store used to read and overwrite descriptions.
func WithStore(s *store.Store) Option {
	return func(o *options) error {
		if s == nil {
			return &errors.ValidationError{
				Field:   "store",
				Message: "cannot be nil",
			}
		}
		o.store = s
		return nil
	}
}

// WithDryRun reports drift without ever writing the consumer.
func WithDryRun(enabled bool) Option {
	return func(o *options) error {
		o.dryRun = enabled
		return nil
	}
}
