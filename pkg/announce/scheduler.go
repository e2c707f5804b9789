package announce

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const (
	DefaultPollInterval    = 30 * time.Second
	DefaultDeliveryTimeout = 10 * time.Second
)

type Option func(s *Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
		s.store.now = now
	}
}

// WithPollInterval caps how long the loop sleeps between evaluations.
func WithPollInterval(interval time.Duration) Option {
	return func(s *Scheduler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithDeliveryTimeout(timeout time.Duration) Option {
	return func(s *Scheduler) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler owns the job store and fires due jobs from a single loop. Every
// store access and every tick run under one mutex, so an edit or delete that
// returns before a tick starts is always visible to that tick, and a job is
// never deleted halfway through firing.
type Scheduler struct {
	mu         sync.Mutex
	store      *Store
	dispatcher Dispatcher

	now      func() time.Time
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	running atomic.Bool
	wake    chan struct{}
}

func New(dispatcher Dispatcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:      NewStore(),
		dispatcher: dispatcher,
		now:        time.Now,
		interval:   DefaultPollInterval,
		timeout:    DefaultDeliveryTimeout,
		logger:     slog.Default(),
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule registers a new pending job. start anchors the first occurrence of
// a recurring schedule and is ignored for one-time schedules.
func (s *Scheduler) Schedule(schedule Schedule, start time.Time, target snowflake.ID, payload string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := FirstRun(schedule, s.now(), start)
	if err != nil {
		return Job{}, err
	}
	id := s.store.Create(schedule, target, payload, next)
	job, err := s.store.Get(id)
	if err != nil {
		return Job{}, err
	}
	s.logger.Info("announce: job scheduled",
		slog.String("job.id", job.ID),
		slog.String("job.kind", job.Schedule.Kind.String()),
		slog.Time("job.next_run_at", job.NextRunAt),
		slog.Any("channel.id", target))
	s.notify()
	return job, nil
}

func (s *Scheduler) Get(id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(id)
}

func (s *Scheduler) Edit(id string, payload string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.UpdatePayload(id, payload); err != nil {
		return Job{}, err
	}
	s.logger.Info("announce: job edited", slog.String("job.id", id))
	return s.store.Get(id)
}

func (s *Scheduler) Delete(id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.store.Remove(id)
	if err != nil {
		return Job{}, err
	}
	job.Status = StatusCancelled
	s.logger.Info("announce: job deleted", slog.String("job.id", id))
	s.notify()
	return job, nil
}

func (s *Scheduler) List() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// Run drives the loop until ctx is done. It may only be started once.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	s.logger.Info("announce: scheduler started", slog.Duration("poll.interval", s.interval))

	timer := time.NewTimer(s.untilNextWake())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("announce: scheduler stopped", slog.Int("jobs.dropped", s.Len()))
			return nil
		case <-timer.C:
			s.Tick(ctx, s.now())
		case <-s.wake:
		}
		timer.Reset(s.untilNextWake())
	}
}

// Tick fires every job due at now, in insertion order, and returns how many
// fired. A failed dispatch is logged and the job still transitions.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	fired := 0
	for _, job := range s.store.List() {
		if !IsDue(job, now) {
			continue
		}
		s.fire(ctx, job, now)
		fired++
	}
	return fired
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Len()
}

func (s *Scheduler) fire(ctx context.Context, job Job, now time.Time) {
	if err := s.dispatch(ctx, job); err != nil {
		s.logger.Error("announce: error while dispatching an announcement",
			slog.String("job.id", job.ID),
			slog.Any("channel.id", job.Target),
			tint.Err(err))
	}

	next, ok := NextAfterFire(job.Schedule, now)
	if !ok {
		_, _ = s.store.Remove(job.ID)
		s.logger.Info("announce: one-time job fired", slog.String("job.id", job.ID), slog.String("job.status", StatusFired.String()))
		return
	}
	s.store.rearm(job.ID, next)
	s.logger.Info("announce: recurring job fired", slog.String("job.id", job.ID), slog.Time("job.next_run_at", next))
}

func (s *Scheduler) dispatch(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("dispatcher panicked: %s", fmt.Sprint(r))
		}
	}()
	dctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.dispatcher.Dispatch(dctx, job)
}

func (s *Scheduler) untilNextWake() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	wait := s.interval
	for _, job := range s.store.List() {
		if job.Status != StatusPending || job.NextRunAt.IsZero() {
			continue
		}
		if d := job.NextRunAt.Sub(now); d < wait {
			wait = max(d, 0)
		}
	}
	return wait
}

func (s *Scheduler) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
