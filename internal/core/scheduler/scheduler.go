package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/avatar-chat-be/internal/shared/utils"
)

const defaultJobTimeout = 5 * time.Minute

// Job is a named housekeeping task
type Job func(ctx context.Context) error

// Scheduler runs housekeeping jobs on cron schedules (seconds field included)
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	jobsMux sync.RWMutex
	timeout time.Duration
}

func New() *Scheduler {
	return &Scheduler{
		// SkipIfStillRunning keeps a slow run from overlapping the next tick
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs:    make(map[string]cron.EntryID),
		timeout: defaultJobTimeout,
	}
}

func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.Names())).Msg("⏰ Starting scheduler")
	s.cron.Start()
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("⏰ Stopping scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("✅ Scheduler stopped")
}

// Add registers job under name, replacing an existing job with that name
func (s *Scheduler) Add(name, schedule string, job Job) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}

	entryID, err := s.cron.AddFunc(schedule, func() { s.Run(name, job) })
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}

	s.jobs[name] = entryID
	log.Info().Str("job", name).Str("schedule", schedule).Msg("✅ Scheduled job")
	return nil
}

func (s *Scheduler) Remove(name string) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
	}
}

// Names returns the registered job names
func (s *Scheduler) Names() []string {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Run executes one job with a timeout, recovering panics
func (s *Scheduler) Run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job", name).Interface("panic", r).Msg("❌ Scheduled job panicked")
		}
	}()

	started := time.Now()
	if err := job(ctx); err != nil {
		utils.LogError("❌ Scheduled job failed", err, map[string]interface{}{
			"job":     name,
			"elapsed": time.Since(started).String(),
		})
		return
	}
	log.Debug().Str("job", name).Dur("elapsed", time.Since(started)).Msg("Scheduled job finished")
}
