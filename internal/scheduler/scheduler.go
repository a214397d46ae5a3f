// Package scheduler запускает периодические задачи: автоотмену, очистку архива и рассылку напоминаний
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Job периодическая задача; Run должен быть идемпотентным
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler запускает каждую задачу в своей горутине по тикеру
type Scheduler struct {
	jobs   []Job
	logger Logger
	wg     sync.WaitGroup
}

// New создает планировщик; задачи с нулевым интервалом пропускаются
func New(logger Logger, jobs ...Job) *Scheduler {
	active := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Interval <= 0 || j.Run == nil {
			logger.Info("Scheduler: job=%s disabled", j.Name)
			continue
		}
		active = append(active, j)
	}
	return &Scheduler{jobs: active, logger: logger}
}

// Start запускает задачи; первый прогон выполняется сразу
// Остановка через отмену ctx, дождаться завершения - Wait
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
}

// Wait блокируется, пока все задачи не завершатся
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	defer s.wg.Done()

	s.logger.Info("Scheduler: job=%s started, interval=%s", j.Name, j.Interval)
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	s.runOnce(ctx, j)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: job=%s stopping", j.Name)
			return
		case <-ticker.C:
			s.runOnce(ctx, j)
		}
	}
}

// runOnce паника в задаче не должна останавливать планировщик
func (s *Scheduler) runOnce(ctx context.Context, j Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduler: job=%s panicked: %v", j.Name, r)
		}
	}()

	if ctx.Err() != nil {
		return
	}

	started := time.Now()
	if err := j.Run(ctx); err != nil {
		s.logger.Error("Scheduler: job=%s failed after %s: %v", j.Name, time.Since(started), err)
	}
}
