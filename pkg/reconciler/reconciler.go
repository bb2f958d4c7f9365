// Package reconciler detects drift between an authoritative contract interface
// description and a consumer's copy of it, and repairs the copy by overwriting
// it with the authoritative form.
package reconciler

import (
	"context"

	"github.com/ballotbox/votekit/pkg/abi"
	"github.com/ballotbox/votekit/pkg/errors"
	"github.com/ballotbox/votekit/pkg/logging"
	"github.com/ballotbox/votekit/pkg/store"
)

// Reconciler compares and repairs interface descriptions.
type Reconciler interface {
	// Load reads and parses both descriptions.
	Load(ctx context.Context, authoritativeLocation, consumerLocation string) (authoritative, consumer abi.Description, err error)

	// Reconcile overwrites the consumer at location with authoritative when the
	// report is not identical. It returns whether a write happened. The report
	// must come from Diff, which records the consumer's storage format.
	Reconcile(ctx context.Context, report *Report, authoritative abi.Description, location string) (bool, error)

	// Verify loads both descriptions, diffs them and reconciles.
	Verify(ctx context.Context, authoritativeLocation, consumerLocation string) (*Result, error)
}

// Result is the outcome of Verify.
type Result struct {
	Report  *Report `json:"report" yaml:"report"`
	Written bool    `json:"written" yaml:"written"`
	DryRun  bool    `json:"dryRun" yaml:"dryRun"`
}

type reconciler struct {
	store  *store.Store
	dryRun bool
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		store:  options.store,
		dryRun: options.dryRun,
	}, nil
}

// Load reads the authoritative description first, then the consumer.
func (r *reconciler) Load(ctx context.Context, authoritativeLocation, consumerLocation string) (abi.Description, abi.Description, error) {
	logger := logging.FromContext(ctx)

	authoritative, err := abi.Load(r.store, "authoritative ABI", authoritativeLocation)
	if err != nil {
		return abi.Description{}, abi.Description{}, err
	}
	logger.Debug().
		Str("location", authoritativeLocation).
		Int("entries", authoritative.Len()).
		Str("format", string(authoritative.Format())).
		Msg("Loaded authoritative ABI")

	consumer, err := abi.Load(r.store, "consumer ABI", consumerLocation)
	if err != nil {
		return abi.Description{}, abi.Description{}, err
	}
	logger.Debug().
		Str("location", consumerLocation).
		Int("entries", consumer.Len()).
		Str("format", string(consumer.Format())).
		Msg("Loaded consumer ABI")

	return authoritative, consumer, nil
}

// Reconcile never merges: the authoritative description replaces the
// consumer's in the consumer's own storage format.
func (r *reconciler) Reconcile(ctx context.Context, report *Report, authoritative abi.Description, location string) (bool, error) {
	if report == nil || !report.diffed {
		return false, errors.NewValidationError("report", nil, "report must be produced by Diff")
	}
	logger := logging.FromContext(logging.WithLocation(ctx, location))

	if report.Identical {
		logger.Debug().Msg("Consumer ABI up to date, no write")
		return false, nil
	}
	if r.dryRun {
		logger.Info().Msg("Dry run, consumer ABI left untouched")
		return false, nil
	}

	if err := abi.Save(r.store, authoritative, report.consumer, location); err != nil {
		return false, err
	}

	logger.Info().
		Int("differences", report.Differences()).
		Msg("Consumer ABI overwritten with authoritative ABI")
	return true, nil
}

// Verify runs the full load, diff and reconcile pass.
func (r *reconciler) Verify(ctx context.Context, authoritativeLocation, consumerLocation string) (*Result, error) {
	ctx = logging.WithOperation(ctx, "verify-abi")

	authoritative, consumer, err := r.Load(ctx, authoritativeLocation, consumerLocation)
	if err != nil {
		return nil, err
	}

	report := Diff(authoritative, consumer)
	written, err := r.Reconcile(ctx, report, authoritative, consumerLocation)
	if err != nil {
		return &Result{Report: report, DryRun: r.dryRun}, err
	}
	return &Result{Report: report, Written: written, DryRun: r.dryRun}, nil
}
