// Package scheduler runs the periodic housekeeping of the hostel: expiring
// stale bookings, moving bookings through their stay, flagging overdue
// payments, closing finished events and issuing monthly rent.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var (
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
	ErrInvalidConfig       = errors.New("invalid scheduler configuration")

	// ErrJobQueueFull means a housekeeping run was skipped; the next tick retries it
	ErrJobQueueFull = errors.New("job queue is full")
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Task is one unit of housekeeping. Run returns how many records it changed.
type Task interface {
	Name() string
	Run(ctx context.Context, now time.Time) (int, error)
}

type taskFunc struct {
	name string
	fn   func(ctx context.Context, now time.Time) (int, error)
}

func (t taskFunc) Name() string { return t.name }

func (t taskFunc) Run(ctx context.Context, now time.Time) (int, error) {
	return t.fn(ctx, now)
}

// NewTask adapts a function to Task
func NewTask(name string, fn func(ctx context.Context, now time.Time) (int, error)) Task {
	return taskFunc{name: name, fn: fn}
}

// Job is one execution of a task
type Job struct {
	ID          uuid.UUID
	Task        Task
	Now         time.Time
	Status      JobStatus
	Error       string
	Affected    int
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a pending job for task evaluated at now
func NewJob(task Task, now time.Time, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Task:       task,
		Now:        now,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete(affected int) {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.Affected = affected
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// Duration returns how long the last run took
func (j *Job) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}

// JobObserver is called after every finished run, successful or not
type JobObserver func(job *Job)

// SchedulerConfig holds worker pool settings
type SchedulerConfig struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		MaxConcurrentJobs: 2,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// SchedulerConfigFrom fills unset values from the defaults
func SchedulerConfigFrom(cfg config.SchedulerConfig) SchedulerConfig {
	out := DefaultSchedulerConfig()
	if cfg.MaxConcurrentJobs > 0 {
		out.MaxConcurrentJobs = cfg.MaxConcurrentJobs
	}
	if cfg.JobTimeout > 0 {
		out.JobTimeout = cfg.JobTimeout
	}
	if cfg.RetryAttempts > 0 {
		out.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryDelay > 0 {
		out.RetryDelay = cfg.RetryDelay
	}
	return out
}

// Validate checks the configuration
func (c SchedulerConfig) Validate() error {
	if c.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("%w: max concurrent jobs must be positive", ErrInvalidConfig)
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Scheduler executes submitted jobs on a fixed pool of workers and retries
// failed ones after RetryDelay
type Scheduler struct {
	config   SchedulerConfig
	logger   *zap.Logger
	observer JobObserver

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	retries   map[uuid.UUID]*time.Timer
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithJobObserver registers a callback for finished jobs
func WithJobObserver(observer JobObserver) SchedulerOption {
	return func(s *Scheduler) {
		s.observer = observer
	}
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg SchedulerConfig, logger *zap.Logger, opts ...SchedulerOption) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		config:  cfg,
		logger:  logger.Named("scheduler"),
		jobs:    make(chan *Job, 100),
		retries: make(map[uuid.UUID]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.config.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	for id, timer := range s.retries {
		timer.Stop()
		delete(s.retries, id)
	}
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues task for execution at now
func (s *Scheduler) Submit(task Task, now time.Time) (*Job, error) {
	job := NewJob(task, now, s.config.RetryAttempts)
	return job, s.SubmitJob(job)
}

// SubmitJob queues a job without blocking
func (s *Scheduler) SubmitJob(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("task", job.Task.Name()),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	name := job.Task.Name()

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	affected, err := s.run(jobCtx, job)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("Job failed",
			zap.Int("worker_id", workerID),
			zap.String("task", name),
			zap.Int("attempt", job.RetryCount+1),
			zap.Error(err),
		)
		s.notify(job)
		if job.ShouldRetry() && ctx.Err() == nil {
			s.scheduleRetry(job)
		}
		return
	}

	job.Complete(affected)
	s.notify(job)
	if affected > 0 {
		s.logger.Info("Job completed",
			zap.String("task", name),
			zap.Int("affected", affected),
			zap.Duration("duration", job.Duration()),
		)
	} else {
		s.logger.Debug("Job completed with nothing to do", zap.String("task", name))
	}
}

// run executes the task and turns a panic into a job failure
func (s *Scheduler) run(ctx context.Context, job *Job) (affected int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return job.Task.Run(ctx, job.Now)
}

func (s *Scheduler) notify(job *Job) {
	if s.observer != nil {
		s.observer(job)
	}
}

func (s *Scheduler) scheduleRetry(job *Job) {
	job.RetryCount++
	job.Status = JobStatusPending

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.retries[job.ID] = time.AfterFunc(s.config.RetryDelay, func() {
		s.mu.Lock()
		delete(s.retries, job.ID)
		s.mu.Unlock()
		if err := s.SubmitJob(job); err != nil {
			s.logger.Warn("Failed to re-queue job for retry",
				zap.String("task", job.Task.Name()),
				zap.Error(err),
			)
		}
	})
	s.logger.Info("Job scheduled for retry",
		zap.String("task", job.Task.Name()),
		zap.Int("retry_count", job.RetryCount),
		zap.Duration("delay", s.config.RetryDelay),
	)
}
