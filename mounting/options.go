package mounting

import (
	"github.com/joeycumines/logiface"
)

type (
	// CoordinatorOption configures a Coordinator, see NewCoordinator.
	CoordinatorOption interface {
		applyCoordinator(*coordinatorOptions) error
	}

	coordinatorOptionImpl struct {
		applyCoordinatorFunc func(*coordinatorOptions) error
	}

	coordinatorOptions struct {
		logger         *logiface.Logger[logiface.Event]
		metrics        *Metrics
		differentiator *Differentiator
		coalesce       bool
	}
)

func (x *coordinatorOptionImpl) applyCoordinator(opts *coordinatorOptions) error {
	return x.applyCoordinatorFunc(opts)
}

// WithLogger sets the logger, which defaults to nil (disabled). The logger is
// also used by the default differentiator.
func WithLogger(logger *logiface.Logger[logiface.Event]) CoordinatorOption {
	return &coordinatorOptionImpl{func(opts *coordinatorOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithMetrics sets the metrics to update, which defaults to nil (disabled).
func WithMetrics(metrics *Metrics) CoordinatorOption {
	return &coordinatorOptionImpl{func(opts *coordinatorOptions) error {
		opts.metrics = metrics
		return nil
	}}
}

// WithCoalescing sets whether a flush only mounts the most recent pending
// commit (the default), or every pending commit, in order.
func WithCoalescing(enabled bool) CoordinatorOption {
	return &coordinatorOptionImpl{func(opts *coordinatorOptions) error {
		opts.coalesce = enabled
		return nil
	}}
}

// WithDifferentiator sets the differentiator used to calculate mutations.
// A nil value restores the default.
func WithDifferentiator(d *Differentiator) CoordinatorOption {
	return &coordinatorOptionImpl{func(opts *coordinatorOptions) error {
		opts.differentiator = d
		return nil
	}}
}

func resolveCoordinatorOptions(opts []CoordinatorOption) (*coordinatorOptions, error) {
	cfg := &coordinatorOptions{
		coalesce: true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyCoordinator(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.differentiator == nil {
		cfg.differentiator = &Differentiator{Logger: cfg.logger}
	}
	return cfg, nil
}
