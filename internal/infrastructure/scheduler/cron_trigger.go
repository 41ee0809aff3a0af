package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// DailyRunHour and DailyRunMinute set the daily maintenance time (24h format)
	DailyRunHour   int
	DailyRunMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		DailyRunHour:   3, // 3am, after the business day is long over
		DailyRunMinute: 0,
		CheckInterval:  time.Minute,
	}
}

// CronTrigger submits the daily maintenance jobs to the scheduler
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	logger *zap.Logger,
) *CronTrigger {
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
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
		zap.Int("daily_hour", c.config.DailyRunHour),
		zap.Int("daily_minute", c.config.DailyRunMinute),
		zap.Duration("check_interval", c.config.CheckInterval),
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

// runLoop checks periodically if it's time to run the daily maintenance
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger checks if it's time to run and submits the maintenance jobs
func (c *CronTrigger) checkAndTrigger() {
	now := time.Now()
	currentDate := now.Format("2006-01-02")

	// Skip if we already ran today
	c.mu.Lock()
	if c.lastRunDate == currentDate {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Check if it's the right time
	if now.Hour() != c.config.DailyRunHour || now.Minute() != c.config.DailyRunMinute {
		return
	}

	// It's time to run!
	c.mu.Lock()
	c.lastRunDate = currentDate
	c.mu.Unlock()

	c.logger.Info("Triggering daily maintenance")
	c.triggerMaintenance()
}

// triggerMaintenance submits every maintenance job type to the scheduler
func (c *CronTrigger) triggerMaintenance() {
	for _, jobType := range AllJobTypes() {
		if err := c.scheduler.ScheduleMaintenance(jobType); err != nil {
			c.logger.Error("Failed to schedule maintenance job",
				zap.String("job_type", string(jobType)),
				zap.Error(err),
			)
		}
	}
}

// TriggerManualRun submits a specific maintenance job outside the daily window
func (c *CronTrigger) TriggerManualRun(jobType JobType) error {
	return c.scheduler.ScheduleMaintenance(jobType)
}
