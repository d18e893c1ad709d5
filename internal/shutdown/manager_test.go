package shutdown

import (
	"sync"
	"testing"
	"time"

	"scopecam/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownStopsInReverseOrder(t *testing.T) {
	m := NewManager(logger.NopLogger{})

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	m.Register("camera", record("camera"))
	m.Register("capture", record("capture"))
	m.Register("preview", record("preview"))

	m.Shutdown()

	assert.Equal(t, []string{"preview", "capture", "camera"}, order)
	assert.Error(t, m.Context().Err())
	select {
	case <-m.Done():
	default:
		t.Fatal("Done not closed")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	m := NewManager(logger.NopLogger{})
	calls := 0
	m.Register("counter", Func(func() { calls++ }))

	m.Shutdown()
	m.Shutdown()
	assert.Equal(t, 1, calls)
}

func TestShutdownTimesOutSlowComponents(t *testing.T) {
	m := NewManager(logger.NopLogger{})
	m.SetTimeout(20 * time.Millisecond)

	release := make(chan struct{})
	defer close(release)
	fastDone := false
	m.Register("fast", Func(func() { fastDone = true }))
	m.Register("stuck", Func(func() { <-release }))

	finished := make(chan struct{})
	go func() {
		m.Shutdown()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("shutdown blocked on a stuck component")
	}
	require.True(t, fastDone)
}
