// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// WordbookCounter reconciles the denormalized total_words counters.
type WordbookCounter interface {
	RecountAll() (int, error)
}

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler with the wordbook recount job registered on the
// given cron schedule (standard 5-field format).
func New(schedule string, counter WordbookCounter) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		count, err := counter.RecountAll()
		if err != nil {
			log.Printf("[CRON] Wordbook recount failed: %v", err)
			return
		}
		log.Printf("[CRON] Reconciled word counters for %d wordbooks", count)
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c}, nil
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Scheduler started")
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		log.Println("Scheduler stop timed out")
	}
}
