package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler fires the refresh tick once per second. How often a tick turns
// into a full cycle is the loop's decision, not the scheduler's.
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Logger
}

// New registers the tick function on a seconds-resolution cron.
func New(log *logrus.Logger, tick func()) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc("* * * * * *", tick); err != nil {
		return nil, fmt.Errorf("register tick: %w", err)
	}
	return &Scheduler{cron: c, log: log}, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info("scheduler stopped")
}
