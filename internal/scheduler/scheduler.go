package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Job is one screen load.
type Job func(ctx context.Context)

// Scheduler runs the load once, or repeatedly when an interval is set.
type Scheduler struct {
	scheduler *gocron.Scheduler
	job       Job
	interval  time.Duration
	timeout   time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// New creates a new Scheduler. An interval <= 0 means run once.
func New(interval, timeout time.Duration, job Job) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		job:       job,
		interval:  interval,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *Scheduler) run() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
	}

	log.Debug().Msg("scheduler: running screen load")
	s.job(ctx)
}

// Start runs the first load immediately in the background and, with an
// interval, keeps refreshing. Runs never overlap.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Info().Msg("scheduler: refresh disabled; loading once")
		go s.run()
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.run)
	if err != nil {
		return err
	}

	log.Info().Dur("interval", s.interval).Msg("scheduler: refresh enabled")
	s.scheduler.StartAsync()
	return nil
}

// Stop cancels the running load, stops future ones and waits for the
// current one to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.wg.Wait()
}
