package goroutine_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/goroutine"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines)
}

func TestRecoveryHandler_Run(t *testing.T) {
	log := &recordingLogger{}
	rh := goroutine.NewRecoveryHandler(log)

	assert.NotPanics(t, func() {
		rh.Run(func() { panic("boom") })
	})
	require.Equal(t, 1, log.count())
	assert.Contains(t, log.lines[0], "panic in job: boom")
}

func TestRecoveryHandler_SafeGoGroup(t *testing.T) {
	log := &recordingLogger{}
	rh := goroutine.NewRecoveryHandler(log)

	var wg sync.WaitGroup
	rh.SafeGoGroup(&wg, func() { panic("worker failed") })
	rh.SafeGoGroup(&wg, func() {})
	wg.Wait()

	assert.Equal(t, 1, log.count())
}

func TestRecoveryHandler_SafeGoWithContext(t *testing.T) {
	log := &recordingLogger{}
	rh := goroutine.NewRecoveryHandler(log)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	rh.SafeGoWithContext(ctx, func(ctx context.Context) {
		<-ctx.Done()
		close(stopped)
	})
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("цикл не остановился после отмены контекста")
	}
	assert.Zero(t, log.count())
}
