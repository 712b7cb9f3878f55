// Package goroutine запускает фоновую работу так, чтобы panic не ронял процесс.
package goroutine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/ignatzorin/freelance-orders/internal/logger"
)

// Logger куда пишется panic со стеком.
type Logger interface {
	Errorf(format string, args ...interface{})
}

type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic.
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.recover("goroutine")
		fn()
	}()
}

// SafeGoWithContext то же, что SafeGo, для долгоживущих циклов с контекстом.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.recover("loop")
		fn(ctx)
	}()
}

// SafeGoGroup запускает горутину, учитывая её в WaitGroup.
func (rh *RecoveryHandler) SafeGoGroup(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer rh.recover("worker")
		fn()
	}()
}

// Run выполняет fn синхронно и превращает panic в запись лога.
func (rh *RecoveryHandler) Run(fn func()) {
	defer rh.recover("job")
	fn()
}

func (rh *RecoveryHandler) recover(where string) {
	if r := recover(); r != nil {
		rh.logger.Errorf("panic in %s: %v\n%s", where, r, debug.Stack())
	}
}

type logrusLogger struct{}

func (logrusLogger) Errorf(format string, args ...interface{}) {
	logger.Log.Errorf(format, args...)
}

// DefaultRecoveryHandler пишет в logger.Log.
var DefaultRecoveryHandler = NewRecoveryHandler(logrusLogger{})

// SafeGoWithContext запускает fn через DefaultRecoveryHandler.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
