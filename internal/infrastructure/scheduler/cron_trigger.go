package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/hostelhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// Interval between runs of the periodic tasks
	Interval time.Duration
	// MonthlyDay is the day of month the monthly tasks run on
	MonthlyDay int
	// Location is the time zone days and months are counted in
	Location *time.Location
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		Interval:   5 * time.Minute,
		MonthlyDay: 1,
		Location:   time.UTC,
	}
}

// CronTriggerConfigFrom maps the scheduler settings onto a trigger config
func CronTriggerConfigFrom(cfg config.SchedulerConfig, loc *time.Location) CronTriggerConfig {
	out := DefaultCronTriggerConfig()
	if cfg.Interval > 0 {
		out.Interval = cfg.Interval
	}
	if loc != nil {
		out.Location = loc
	}
	return out
}

// CronTrigger submits periodic tasks on every tick and monthly tasks once a
// month. The first tick happens right after Start.
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger
	periodic  []Task
	monthly   []Task
	now       func() time.Time

	cancel        context.CancelFunc
	wg            sync.WaitGroup
	mu            sync.Mutex
	isRunning     bool
	lastMonthlyOn string // month the monthly tasks last ran for
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(cfg CronTriggerConfig, scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MonthlyDay < 1 {
		cfg.MonthlyDay = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultCronTriggerConfig().Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronTrigger{
		config:    cfg,
		scheduler: scheduler,
		logger:    logger.Named("cron"),
		now:       time.Now,
	}
}

// Every registers tasks to run on every tick
func (c *CronTrigger) Every(tasks ...Task) *CronTrigger {
	c.periodic = append(c.periodic, tasks...)
	return c
}

// Monthly registers tasks to run once a month on MonthlyDay
func (c *CronTrigger) Monthly(tasks ...Task) *CronTrigger {
	c.monthly = append(c.monthly, tasks...)
	return c
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Duration("interval", c.config.Interval),
		zap.Int("periodic_tasks", len(c.periodic)),
		zap.Int("monthly_tasks", len(c.monthly)),
	)
	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	c.tick()
	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick submits the due tasks. It returns the number of submitted jobs.
func (c *CronTrigger) tick() int {
	now := c.now().In(c.config.Location)
	submitted := c.submit(c.periodic, now)

	month := now.Format("2006-01")
	c.mu.Lock()
	due := now.Day() >= c.config.MonthlyDay && c.lastMonthlyOn != month
	if due {
		c.lastMonthlyOn = month
	}
	c.mu.Unlock()

	if due && len(c.monthly) > 0 {
		c.logger.Info("Triggering monthly tasks", zap.String("month", month))
		submitted += c.submit(c.monthly, now)
	}
	return submitted
}

func (c *CronTrigger) submit(tasks []Task, now time.Time) int {
	n := 0
	for _, task := range tasks {
		if _, err := c.scheduler.Submit(task, now); err != nil {
			c.logger.Warn("Failed to submit task",
				zap.String("task", task.Name()),
				zap.Error(err),
			)
			continue
		}
		n++
	}
	return n
}

