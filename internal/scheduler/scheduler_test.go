package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsEverything(t *testing.T) {
	s := New(3)
	var count atomic.Int32
	for i := 0; i < 50; i++ {
		require.NoError(t, s.Submit(func() { count.Add(1) }))
	}
	s.Close()
	assert.Equal(t, int32(50), count.Load())
}

func TestSchedulerSubmitAfterClose(t *testing.T) {
	s := New(1)
	s.Close()
	s.Close()
	assert.ErrorIs(t, s.Submit(func() {}), ErrClosed)
}

func TestSchedulerSurvivesPanics(t *testing.T) {
	s := New(1)
	var ran atomic.Bool
	require.NoError(t, s.Submit(func() { panic("boom") }))
	require.NoError(t, s.Submit(func() { ran.Store(true) }))
	s.Close()
	assert.True(t, ran.Load())
}

func TestNewClampsWorkers(t *testing.T) {
	s := New(0)
	done := make(chan struct{})
	require.NoError(t, s.Submit(func() { close(done) }))
	<-done
	s.Close()
}

func TestDefaultIsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestTaskCanSubmitToItsOwnPool(t *testing.T) {
	s := New(1)
	var count atomic.Int32
	submitted := make(chan error, 1)
	require.NoError(t, s.Submit(func() {
		for i := 0; i < 100; i++ {
			if err := s.Submit(func() { count.Add(1) }); err != nil {
				submitted <- err
				return
			}
		}
		submitted <- nil
	}))

	select {
	case err := <-submitted:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("nested Submit blocked the only worker")
	}
	s.Close()
	assert.Equal(t, int32(100), count.Load())
}
