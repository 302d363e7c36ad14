package atomiclist

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_sweepFIFO(t *testing.T) {
	var l List[int]
	assert.True(t, l.InsertHead(1))
	assert.False(t, l.InsertHead(2))
	assert.False(t, l.InsertHead(3))

	var got []int
	l.Sweep(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.True(t, l.Empty())
}

func TestList_reverseSweepLIFO(t *testing.T) {
	var l List[int]
	l.InsertHead(1)
	l.InsertHead(2)
	l.InsertHead(3)

	var got []int
	l.ReverseSweep(func(v int) { got = append(got, v) })
	assert.Equal(t, []int{3, 2, 1}, got)
	assert.True(t, l.Empty())
}

func TestList_sweepEmpty(t *testing.T) {
	var l List[string]
	var calls int
	l.Sweep(func(string) { calls++ })
	l.ReverseSweep(func(string) { calls++ })
	assert.Zero(t, calls)
	assert.True(t, l.Empty())
	assert.Nil(t, l.Drain())
}

func TestList_insertHeadReportsEmptyTransition(t *testing.T) {
	var l List[int]
	assert.True(t, l.InsertHead(1))
	assert.False(t, l.InsertHead(2))
	l.Clear()
	assert.True(t, l.Empty())
	assert.True(t, l.InsertHead(3))
	assert.Equal(t, []int{3}, l.Drain())
}

// TestList_sweepLoopsUntilEmpty verifies inserts made by the callback (i.e.
// "during" the drain) are delivered by the same Sweep call.
func TestList_sweepLoopsUntilEmpty(t *testing.T) {
	var l List[int]
	l.InsertHead(0)

	var got []int
	l.Sweep(func(v int) {
		got = append(got, v)
		if v < 5 {
			l.InsertHead(v + 1)
		}
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
	assert.True(t, l.Empty())
}

// TestList_reverseSweepSingleBatch verifies late inserts are left for a
// future sweep.
func TestList_reverseSweepSingleBatch(t *testing.T) {
	var l List[int]
	l.InsertHead(1)
	l.InsertHead(2)

	var got []int
	l.ReverseSweep(func(v int) {
		got = append(got, v)
		l.InsertHead(v * 10)
	})
	assert.Equal(t, []int{2, 1}, got)
	assert.False(t, l.Empty())
	assert.Equal(t, []int{20, 10}, l.Drain())
}

func TestList_releasesValues(t *testing.T) {
	var l List[*int]
	v := new(int)
	l.InsertHead(v)
	var got *int
	l.Sweep(func(p *int) { got = p })
	assert.Same(t, v, got)
}

func TestList_concurrentInsertHead(t *testing.T) {
	const (
		producers = 8
		perWorker = 5000
	)

	var (
		l           List[int]
		wg          sync.WaitGroup
		transitions atomic.Int64
	)
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if l.InsertHead(p*perWorker + i) {
					transitions.Add(1)
				}
			}
		}(p)
	}
	wg.Wait()

	// no sweeps, so exactly one insert observed the empty list
	assert.Equal(t, int64(1), transitions.Load())

	seen := make(map[int]int, producers*perWorker)
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	l.Sweep(func(v int) {
		seen[v]++
		// per-producer insertion order is preserved by a FIFO sweep
		p, i := v/perWorker, v%perWorker
		require.Greater(t, i, last[p])
		last[p] = i
	})
	require.Len(t, seen, producers*perWorker)
	for v, n := range seen {
		require.Equal(t, 1, n, "value %d", v)
	}
	assert.True(t, l.Empty())
}

// TestList_concurrentProducersSingleConsumer runs sweeps concurrently with
// many producers, verifying every element is delivered exactly once.
func TestList_concurrentProducersSingleConsumer(t *testing.T) {
	const (
		producers = 4
		perWorker = 10000
		total     = producers * perWorker
	)

	var (
		l        List[int]
		wg       sync.WaitGroup
		received = make([]int32, total)
		count    int
		wake     = make(chan struct{}, 1)
		done     = make(chan struct{})
	)

	go func() {
		defer close(done)
		for count < total {
			<-wake
			l.Sweep(func(v int) {
				received[v]++
				count++
			})
		}
	}()

	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if l.InsertHead(p*perWorker + i) {
					select {
					case wake <- struct{}{}:
					default:
					}
				}
				if i%1000 == 0 {
					runtime.Gosched()
				}
			}
		}(p)
	}
	wg.Wait()

	<-done
	for v, n := range received {
		require.Equal(t, int32(1), n, "value %d", v)
	}
	assert.True(t, l.Empty())
}

func BenchmarkList_InsertHead(b *testing.B) {
	var l List[int]
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.InsertHead(1)
		}
	})
	b.StopTimer()
	l.Clear()
}

func BenchmarkList_InsertHeadSweep(b *testing.B) {
	var l List[int]
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		l.InsertHead(i)
		if i%64 == 63 {
			l.Sweep(func(int) {})
		}
	}
	l.Clear()
}
