package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameSession(t *testing.T) {
	l := NewLocker()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WithLock("abc", func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
}

func TestLocker_DifferentSessionsRunInParallel(t *testing.T) {
	l := NewLocker()
	entered := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = l.WithLock("a", func() error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	done := make(chan struct{})
	go func() {
		_ = l.WithLock("b", func() error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for session b blocked on session a")
	}
	close(release)
}

func TestLocker_ReturnsFnError(t *testing.T) {
	l := NewLocker()
	want := errors.New("boom")
	assert.Equal(t, want, l.WithLock("abc", func() error { return want }))
}

func TestLocker_Cleanup(t *testing.T) {
	l := NewLocker()
	_ = l.WithLock("old", func() error { return nil })
	assert.Equal(t, 1, l.Len())

	assert.Equal(t, 0, l.Cleanup(time.Hour))
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 1, l.Cleanup(time.Millisecond))
	assert.Equal(t, 0, l.Len())
}
