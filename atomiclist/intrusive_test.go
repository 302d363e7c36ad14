package atomiclist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTask struct {
	Hook[testTask]
	id int
}

func TestIntrusive_sweepOrder(t *testing.T) {
	var l Intrusive[testTask, *testTask]
	tasks := []*testTask{{id: 1}, {id: 2}, {id: 3}}
	for i, task := range tasks {
		assert.Equal(t, i == 0, l.InsertHead(task))
	}

	var got []int
	l.Sweep(func(task *testTask) {
		assert.Nil(t, task.next)
		got = append(got, task.id)
	})
	assert.Equal(t, []int{1, 2, 3}, got)

	for _, task := range tasks {
		l.InsertHead(task)
	}
	got = got[:0]
	l.ReverseSweep(func(task *testTask) {
		assert.Nil(t, task.next)
		got = append(got, task.id)
	})
	assert.Equal(t, []int{3, 2, 1}, got)
	assert.True(t, l.Empty())
}

func TestIntrusive_reinsertFromCallback(t *testing.T) {
	var a, b Intrusive[testTask, *testTask]
	for i := 1; i <= 3; i++ {
		a.InsertHead(&testTask{id: i})
	}
	a.Sweep(func(task *testTask) {
		b.InsertHead(task)
	})
	assert.True(t, a.Empty())

	var got []int
	b.Sweep(func(task *testTask) { got = append(got, task.id) })
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestIntrusive_insertHeadPanics(t *testing.T) {
	var l Intrusive[testTask, *testTask]
	assert.PanicsWithValue(t, `atomiclist: nil element`, func() {
		l.InsertHead(nil)
	})

	first, second := &testTask{id: 1}, &testTask{id: 2}
	l.InsertHead(first)
	l.InsertHead(second)
	assert.PanicsWithValue(t, `atomiclist: element already linked`, func() {
		l.InsertHead(second)
	})
	l.Clear()
	assert.True(t, l.Empty())
	assert.NotPanics(t, func() { l.InsertHead(second) })
}

func TestIntrusive_concurrentSweepers(t *testing.T) {
	const (
		producers = 4
		sweepers  = 3
		perWorker = 2000
	)

	var (
		l         Intrusive[testTask, *testTask]
		producing sync.WaitGroup
		sweeping  sync.WaitGroup
		mu        sync.Mutex
		seen      = make(map[int]int)
		stop      = make(chan struct{})
	)

	sweep := func() {
		var batch []int
		l.Sweep(func(task *testTask) { batch = append(batch, task.id) })
		mu.Lock()
		for _, id := range batch {
			seen[id]++
		}
		mu.Unlock()
	}

	sweeping.Add(sweepers)
	for s := 0; s < sweepers; s++ {
		go func() {
			defer sweeping.Done()
			for {
				select {
				case <-stop:
					return
				default:
					sweep()
				}
			}
		}()
	}

	producing.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer producing.Done()
			for i := 0; i < perWorker; i++ {
				l.InsertHead(&testTask{id: p*perWorker + i})
			}
		}(p)
	}
	producing.Wait()
	close(stop)
	sweeping.Wait()
	sweep()

	require.Len(t, seen, producers*perWorker)
	for id, n := range seen {
		require.Equal(t, 1, n, "task %d", id)
	}
}
