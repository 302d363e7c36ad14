package mounting

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// FlushSurfaces calls Flush on each coordinator, concurrently, with at most
// limit flushes in flight (unlimited if limit <= 0). It returns the sum of
// commits mounted, and the first error, which cancels the remaining flushes.
//
// Each coordinator must be for a different surface.
func FlushSurfaces(ctx context.Context, limit int, coordinators ...*Coordinator) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	var total atomic.Int64
	for _, c := range coordinators {
		g.Go(func() error {
			n, err := c.Flush(ctx)
			total.Add(int64(n))
			return err
		})
	}
	err := g.Wait()
	return int(total.Load()), err
}

// RunSurfaces calls Run on each coordinator, in its own goroutine, until ctx
// is done, or any returns an error, which cancels the rest.
func RunSurfaces(ctx context.Context, coordinators ...*Coordinator) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range coordinators {
		g.Go(func() error {
			return c.Run(ctx)
		})
	}
	return g.Wait()
}
