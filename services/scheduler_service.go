package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService wraps cron-based jobs: the hourly decay run plus the
// notification-check cadences. Jobs get a bounded context and their
// panics are contained, since a broken job must not take the process
// down with it.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService() *SchedulerService {
	return &SchedulerService{cron: cron.New()}
}

// AddInterval registers a job on a fixed cadence.
func (s *SchedulerService) AddInterval(name string, interval time.Duration, job func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("interval for job %q must be positive", name)
	}
	spec := fmt.Sprintf("@every %s", interval)
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("scheduler: job %q panicked: %v", name, r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("registering job %q: %w", name, err)
	}
	return nil
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
