package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/goroutine"
	"github.com/ignatzorin/freelance-orders/internal/logger"
)

const defaultJobTimeout = 30 * time.Second

type job struct {
	name string
	fn   func(ctx context.Context) error
}

// Queue неблокирующая очередь фоновых задач с фиксированным числом воркеров.
// При переполнении задача отбрасывается с записью в лог.
type Queue struct {
	jobs     chan job
	workers  int
	timeout  time.Duration
	recovery *goroutine.RecoveryHandler

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewQueue(size, workers int) *Queue {
	if size <= 0 {
		size = 256
	}
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		jobs:     make(chan job, size),
		workers:  workers,
		timeout:  defaultJobTimeout,
		recovery: goroutine.DefaultRecoveryHandler,
	}
}

// Start запускает воркеры. Повторный вызов ничего не делает.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	for i := 0; i < q.workers; i++ {
		q.recovery.SafeGoGroup(&q.wg, q.work)
	}
}

// Enqueue ставит задачу в очередь. Возвращает false, если очередь закрыта или переполнена.
func (q *Queue) Enqueue(name string, fn func(ctx context.Context) error) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		logger.WithComponent("notify").WithField("job", name).Warn("notify: очередь закрыта, задача отброшена")
		return false
	}

	select {
	case q.jobs <- job{name: name, fn: fn}:
		return true
	default:
		logger.WithComponent("notify").WithField("job", name).Warn("notify: очередь переполнена, задача отброшена")
		return false
	}
}

// Close перестаёт принимать задачи и ждёт, пока воркеры разберут оставшиеся.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *Queue) work() {
	for j := range q.jobs {
		q.run(j)
	}
}

func (q *Queue) run(j job) {
	q.recovery.Run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		defer cancel()

		if err := j.fn(ctx); err != nil {
			logger.WithComponent("notify").WithFields(logrus.Fields{
				"job":   j.name,
				"error": err.Error(),
			}).Error("notify: фоновая задача завершилась с ошибкой")
		}
	})
}
