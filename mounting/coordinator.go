package mounting

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-shadowtree/atomiclist"
	"github.com/joeycumines/go-shadowtree/shadow"
	"github.com/joeycumines/logiface"
)

type (
	// Mounter applies mutation lists for a surface, e.g. to platform views.
	// Each list must be applied completely, or an error returned.
	Mounter interface {
		Mount(ctx context.Context, surface shadow.SurfaceID, mutations MutationList) error
	}

	// MounterFunc implements Mounter.
	MounterFunc func(ctx context.Context, surface shadow.SurfaceID, mutations MutationList) error

	// Coordinator is the commit pipeline for one surface. Any number of
	// goroutines may Commit new trees, which are mounted by a single
	// consumer, calling Flush or Run.
	//
	// Commits are queued using a lock-free list, and the consumer is only
	// woken when the queue goes from empty to non-empty.
	Coordinator struct {
		mounter        Mounter
		logger         *logiface.Logger[logiface.Event]
		metrics        *Metrics
		differentiator *Differentiator
		wake           chan struct{}
		pending        []*shadow.Node
		commits        atomiclist.List[*shadow.Node]
		base           atomic.Pointer[shadow.Node]
		revision       atomic.Uint64
		mu             sync.Mutex
		surface        shadow.SurfaceID
		coalesce       bool
	}
)

var _ Mounter = MounterFunc(nil)

// Mount implements Mounter.
func (x MounterFunc) Mount(ctx context.Context, surface shadow.SurfaceID, mutations MutationList) error {
	return x(ctx, surface, mutations)
}

// NewCoordinator initializes a Coordinator for surface, where initial is the
// tree that is already mounted, or nil if nothing is mounted.
// A panic will occur if mounter is nil.
func NewCoordinator(surface shadow.SurfaceID, initial *shadow.Node, mounter Mounter, opts ...CoordinatorOption) (*Coordinator, error) {
	if mounter == nil {
		panic(`mounting: nil mounter`)
	}

	cfg, err := resolveCoordinatorOptions(opts)
	if err != nil {
		return nil, err
	}

	x := &Coordinator{
		mounter:        mounter,
		logger:         cfg.logger,
		metrics:        cfg.metrics,
		differentiator: cfg.differentiator,
		wake:           make(chan struct{}, 1),
		surface:        surface,
		coalesce:       cfg.coalesce,
	}
	if initial != nil {
		initial.Seal()
		x.base.Store(initial)
	}

	return x, nil
}

// Commit seals root and queues it for mounting. It never blocks, and returns
// true if the queue was empty, in which case the consumer has been woken.
func (x *Coordinator) Commit(root *shadow.Node) bool {
	if root == nil {
		panic(`mounting: nil root`)
	}
	root.Seal()
	x.metrics.observeCommit()
	if !x.commits.InsertHead(root) {
		return false
	}
	select {
	case x.wake <- struct{}{}:
	default:
	}
	return true
}

// Flush mounts pending commits, returning the number mounted. With coalescing
// (the default), only the most recent commit is mounted.
//
// The mounted base only advances when the mounter succeeds. On failure, the
// failed commit (and any after it) remain pending, and will be retried by the
// next Flush.
func (x *Coordinator) Flush(ctx context.Context) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.pending = append(x.pending, x.commits.Drain()...)
	if len(x.pending) == 0 {
		return 0, nil
	}

	if x.coalesce && len(x.pending) > 1 {
		x.logger.Debug().
			Int64(`surface`, int64(x.surface)).
			Int(`skipped`, len(x.pending)-1).
			Log(`mounting: coalesced commits`)
		x.pending = x.pending[len(x.pending)-1:]
	}

	var mounted int
	for len(x.pending) != 0 {
		if err := ctx.Err(); err != nil {
			return mounted, err
		}
		if err := x.mount(ctx, x.pending[0]); err != nil {
			return mounted, err
		}
		x.pending[0] = nil
		x.pending = x.pending[1:]
		mounted++
	}
	x.pending = nil

	return mounted, nil
}

func (x *Coordinator) mount(ctx context.Context, root *shadow.Node) error {
	start := time.Now()
	mutations := x.differentiator.Calculate(x.base.Load(), root)
	x.metrics.observeDiff(time.Since(start))

	if len(mutations) != 0 {
		err := x.mounter.Mount(ctx, x.surface, mutations)
		x.metrics.observeMount(mutations, err)
		if err != nil {
			x.logger.Err().
				Err(err).
				Int64(`surface`, int64(x.surface)).
				Int(`mutations`, len(mutations)).
				Log(`mounting: mount failed`)
			return fmt.Errorf(`mounting: surface %d: %w`, x.surface, err)
		}
	}

	x.base.Store(root)
	revision := x.revision.Add(1)

	x.logger.Debug().
		Int64(`surface`, int64(x.surface)).
		Uint64(`revision`, revision).
		Int(`mutations`, len(mutations)).
		Log(`mounting: mounted commit`)

	return nil
}

// Run is the consumer loop, flushing until ctx is done, or a flush fails.
func (x *Coordinator) Run(ctx context.Context) error {
	for {
		if _, err := x.Flush(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-x.wake:
		}
	}
}

// Surface returns the surface the coordinator mounts.
func (x *Coordinator) Surface() shadow.SurfaceID { return x.surface }

// Revision returns the number of commits mounted so far.
func (x *Coordinator) Revision() uint64 { return x.revision.Load() }

// Base returns the most recently mounted tree, or the initial tree.
func (x *Coordinator) Base() *shadow.Node { return x.base.Load() }
