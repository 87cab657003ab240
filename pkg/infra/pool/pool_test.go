package pool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remon-rakibul/DueDiligence/pkg/infra/pool"
)

func TestPoolSubmitExecutesTask(t *testing.T) {
	p, err := pool.NewPool("test", pool.DefaultPool, &pool.Config{Capacity: 4})
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	var count atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()

	assert.Equal(t, int32(10), count.Load())
	stats := p.Stats()
	assert.Equal(t, int64(10), stats.CompletedTasks)
}

func TestJobsPoolSerializesTasks(t *testing.T) {
	p, err := pool.NewPool("jobs", pool.JobsPool, pool.JobsPoolConfig())
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, 1, p.Cap())

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
		}))
	}
	wg.Wait()

	// 容量 1 的池按提交顺序执行
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestSubmitAfterReleaseFails(t *testing.T) {
	p, err := pool.NewPool("closed", pool.DefaultPool, &pool.Config{Capacity: 1})
	require.NoError(t, err)
	p.Release()

	err = p.Submit(func() {})
	assert.ErrorIs(t, err, pool.ErrPoolClosed)
}

func TestNonblockingPoolRejectsWhenFull(t *testing.T) {
	p, err := pool.NewPool("overload", pool.BackgroundPool, &pool.Config{
		Capacity:    1,
		Nonblocking: true,
	})
	require.NoError(t, err)
	defer p.Release()

	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	err = p.Submit(func() {})
	assert.ErrorIs(t, err, pool.ErrPoolOverload)
	close(block)
}

func TestManagerRegisterAndSubmit(t *testing.T) {
	m := pool.NewManager()
	defer m.ReleaseAll()

	require.NoError(t, m.RegisterWithType(pool.JobsPool, pool.JobsPoolConfig()))
	assert.ErrorIs(t, m.RegisterWithType(pool.JobsPool, nil), pool.ErrPoolAlreadyExists)

	done := make(chan struct{})
	require.NoError(t, m.Submit(string(pool.JobsPool), func() { close(done) }))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	_, err := m.Get("missing")
	assert.ErrorIs(t, err, pool.ErrPoolNotFound)

	infos := m.Stats()
	assert.Contains(t, infos, string(pool.JobsPool))
}
