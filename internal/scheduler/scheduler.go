// Package scheduler периодические фоновые задачи на robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/logger"
)

// Job одна периодическая задача. Ошибка логируется, следующий запуск идёт по расписанию.
type Job func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	log     *logrus.Entry
}

// New timeout ограничивает один запуск задачи.
func New(timeout time.Duration) *Scheduler {
	log := logger.WithComponent("scheduler")
	cronLog := cronLogger{log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		log:     log,
	}
}

// Add регистрирует задачу. spec в стандартном формате cron или @every <duration>.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()

		started := time.Now()
		if err := job(ctx); err != nil {
			s.log.WithFields(logrus.Fields{"job": name, "error": err}).Error("scheduler: задача завершилась ошибкой")
			return
		}
		s.log.WithFields(logrus.Fields{"job": name, "duration": time.Since(started)}).Debug("scheduler: задача выполнена")
	})
	if err != nil {
		return fmt.Errorf("scheduler: некорректное расписание %q для %s: %w", spec, name, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop отменяет контекст текущих запусков и ждёт их завершения.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// cronLogger пишет внутренние сообщения cron в logrus.
type cronLogger struct {
	entry *logrus.Entry
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).Debug("scheduler: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.entry.WithFields(toFields(keysAndValues)).WithError(err).Error("scheduler: " + msg)
}

func toFields(keysAndValues []interface{}) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
