package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsInPostOrder(t *testing.T) {
	loop := NewLoop()
	var got []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			i := i
			loop.Post(func() { got = append(got, i) })
		}
		loop.Stop()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loop.Run(ctx)
	wg.Wait()

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoopExecutingOnlyInsidePostedFunc(t *testing.T) {
	loop := NewLoop()
	assert.False(t, loop.Executing())

	var inside bool
	loop.Post(func() { inside = loop.Executing() })
	loop.Stop()
	loop.Run(context.Background())

	assert.True(t, inside)
	assert.False(t, loop.Executing())
}

func TestLoopDropsPostAfterStop(t *testing.T) {
	loop := NewLoop()
	loop.Stop()
	ran := false
	loop.Post(func() { ran = true })
	loop.Run(context.Background())
	assert.False(t, ran)
}

func TestLoopRunUntil(t *testing.T) {
	loop := NewLoop()
	done := make(chan struct{})
	var calls int
	go func() {
		loop.Post(func() { calls++ })
		close(done)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	loop.RunUntil(ctx, done)

	require.NoError(t, ctx.Err())
	assert.Equal(t, 1, calls)
}

func TestLoopStopsOnContext(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop.Run(ctx)
}

func TestInline(t *testing.T) {
	ran := false
	Inline{}.Post(func() { ran = true })
	assert.True(t, ran)
}
