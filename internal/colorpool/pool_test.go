package colorpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/backlight/internal/geometry"
)

type flag struct{ v atomic.Bool }

func (f *flag) On() bool { return f.v.Load() }

func on() *flag {
	f := &flag{}
	f.v.Store(true)
	return f
}

var counts = [geometry.NumEdges]int{2, 2, 1, 1}

func TestNew_AllEmpty(t *testing.T) {
	p := New(counts)
	assert.Equal(t, PoolSize, p.Empty.Len())
	assert.Equal(t, 0, p.Filled.Len())
	assert.Equal(t, map[Owner]int{OwnerEmpty: PoolSize}, p.Census())

	s, ok := p.Empty.Acquire(on(), OwnerSampler, 0)
	require.True(t, ok)
	assert.Len(t, s.Colors[geometry.Top], 2)
	assert.Len(t, s.Colors[geometry.Right], 1)
}

func TestAcquire_Timeout(t *testing.T) {
	p := New(counts)
	live := on()
	for i := 0; i < PoolSize; i++ {
		_, ok := p.Empty.Acquire(live, OwnerSampler, 0)
		require.True(t, ok)
	}

	start := time.Now()
	_, ok := p.Empty.Acquire(live, OwnerSampler, 20*time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestAcquire_LivenessOff(t *testing.T) {
	p := New(counts)
	live := &flag{}
	_, ok := p.Empty.Acquire(live, OwnerSampler, time.Second)
	assert.False(t, ok, "acquire must fail when power is off")
	assert.Equal(t, PoolSize, p.Empty.Len())
}

func TestAcquire_WokenByWake(t *testing.T) {
	p := New(counts)
	live := on()

	done := make(chan bool)
	go func() {
		_, ok := p.Filled.Acquire(live, OwnerRenderer, 5*time.Second)
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	live.v.Store(false)
	p.Wake()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken")
	}
}

func TestPublish_Displaces(t *testing.T) {
	p := New(counts)
	live := on()

	a, _ := p.Empty.Acquire(live, OwnerSampler, 0)
	b, _ := p.Empty.Acquire(live, OwnerSampler, 0)

	assert.Nil(t, p.Filled.Publish(a, OwnerSampler))
	displaced := p.Filled.Publish(b, OwnerSampler)
	require.NotNil(t, displaced)
	assert.Equal(t, a.ID(), displaced.ID())
	assert.Equal(t, OwnerSampler, displaced.Owner())
	p.Empty.Release(displaced, OwnerSampler)

	got, ok := p.Filled.Acquire(live, OwnerRenderer, 0)
	require.True(t, ok)
	assert.Equal(t, b.ID(), got.ID(), "only the latest snapshot is observed")
	assert.Equal(t, map[Owner]int{OwnerEmpty: 2, OwnerRenderer: 1}, p.Census())
}

func TestRelease_IllegalTransitionPanics(t *testing.T) {
	p := New(counts)
	s, _ := p.Empty.Acquire(on(), OwnerSampler, 0)
	p.Empty.Release(s, OwnerSampler)

	assert.Panics(t, func() { p.Empty.Release(s, OwnerSampler) }, "double release")
	assert.Panics(t, func() { p.Filled.Publish(s, OwnerSampler) }, "publish of a buffer not in flight")
}

func TestRecharge(t *testing.T) {
	p := New(counts)
	live := on()
	s, _ := p.Empty.Acquire(live, OwnerSampler, 0)
	p.Filled.Publish(s, OwnerSampler)

	p.Recharge()
	assert.Equal(t, PoolSize, p.Empty.Len())
	assert.Equal(t, 0, p.Filled.Len())
	assert.Equal(t, map[Owner]int{OwnerEmpty: PoolSize}, p.Census())
}

// A producer and a consumer hammer the pool while a third goroutine checks
// that no buffer is ever lost or duplicated.
func TestPool_ConservationUnderContention(t *testing.T) {
	p := New(counts)
	live := on()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for live.On() {
			s, ok := p.Empty.Acquire(live, OwnerSampler, time.Millisecond)
			if !ok {
				continue
			}
			if d := p.Filled.Publish(s, OwnerSampler); d != nil {
				p.Empty.Release(d, OwnerSampler)
			}
		}
	}()

	var held *Snapshot
	go func() {
		defer wg.Done()
		for live.On() {
			s, ok := p.Filled.Acquire(live, OwnerRenderer, time.Millisecond)
			if !ok {
				continue
			}
			if held != nil {
				p.Empty.Release(held, OwnerRenderer)
			}
			held = s
		}
	}()

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		total := 0
		for _, n := range p.Census() {
			total += n
		}
		require.Equal(t, PoolSize, total)
		filled := p.Filled.Len()
		require.LessOrEqual(t, filled, 1)
	}

	live.v.Store(false)
	p.Wake()
	wg.Wait()

	if held != nil {
		p.Empty.Release(held, OwnerRenderer)
	}
	p.Recharge()
	assert.Equal(t, map[Owner]int{OwnerEmpty: PoolSize}, p.Census())
}
