// Package refresh runs the periodic re-fetch loop a dashboard owns for as long
// as it is mounted.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const DefaultInterval = 30 * time.Second

var ErrRunning = errors.New("refresh scheduler already running")

// Task re-fetches one collection. Errors are logged and never stop the loop.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler runs every task once on Start and then every interval until Stop.
// A stopped scheduler can be started again.
type Scheduler struct {
	interval time.Duration
	tasks    []Task

	mu     sync.Mutex
	sched  gocron.Scheduler
	jobs   []gocron.Job
	cancel context.CancelFunc
}

func NewScheduler(interval time.Duration, tasks ...Task) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, tasks: tasks}
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start schedules the tasks. The first run of each task fires immediately.
// ctx bounds every fetch; Stop cancels it.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched != nil {
		return ErrRunning
	}

	sched, err := gocron.NewScheduler(gocron.WithStopTimeout(5 * time.Second))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	jobs := make([]gocron.Job, 0, len(s.tasks))
	for _, task := range s.tasks {
		job, err := sched.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(func() { tick(runCtx, task) }),
			gocron.WithName(task.Name),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			cancel()
			_ = sched.Shutdown()
			return fmt.Errorf("schedule %s: %w", task.Name, err)
		}
		jobs = append(jobs, job)
	}

	sched.Start()
	s.sched = sched
	s.jobs = jobs
	s.cancel = cancel
	return nil
}

// Stop cancels in-flight fetches and releases the schedule. It is safe to call
// more than once.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched == nil {
		return nil
	}

	s.cancel()
	err := s.sched.Shutdown()
	s.sched = nil
	s.jobs = nil
	s.cancel = nil
	if err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}

// RunNow triggers every task out of band without moving the schedule.
func (s *Scheduler) RunNow() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched == nil {
		return nil
	}

	var errs []error
	for _, job := range s.jobs {
		if err := job.RunNow(); err != nil {
			errs = append(errs, fmt.Errorf("run %s: %w", job.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sched != nil
}

func tick(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		return
	}
	if err := task.Run(ctx); err != nil {
		// torn down mid-request
		if ctx.Err() != nil {
			return
		}
		log.Printf("refresh %s failed: %v", task.Name, err)
	}
}
