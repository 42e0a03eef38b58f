// Package scheduler enqueues the periodic maintenance tasks: audit log
// pruning and backend diagnostics.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/consultorio/internal/config"
	"github.com/mrlokans/consultorio/internal/tasks"
)

// Enqueuer is the part of the task client the scheduler needs.
type Enqueuer interface {
	Enqueue(task backlite.Task) (string, error)
}

// Job is one scheduled entry as shown on the diagnostics screen.
type Job struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	NextRun  time.Time `json:"next_run"`
}

type MaintenanceScheduler struct {
	queue Enqueuer
	cfg   config.Maintenance

	cron    *cron.Cron
	entries map[string]cron.EntryID
	specs   map[string]string

	mu        sync.RWMutex
	isRunning bool
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule reports whether expr is a five-field cron expression.
func ValidateSchedule(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}
	return nil
}

func NewMaintenanceScheduler(queue Enqueuer, cfg config.Maintenance) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		queue:   queue,
		cfg:     cfg,
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		specs:   make(map[string]string),
	}
}

// Start registers the configured jobs and starts the cron loop. It stops
// when ctx is cancelled. Empty schedules are skipped.
func (s *MaintenanceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if !s.cfg.Enabled {
		log.Printf("Maintenance scheduler: disabled")
		return nil
	}

	jobs := []struct {
		name     string
		schedule string
		task     func() backlite.Task
	}{
		{"cleanup_audit_events", s.cfg.AuditCleanupSchedule, func() backlite.Task {
			return tasks.CleanupAuditEventsTask{RetentionDays: s.cfg.AuditRetentionDays}
		}},
		{"run_diagnostics", s.cfg.DiagnosticsSchedule, func() backlite.Task {
			return tasks.RunDiagnosticsTask{Trigger: "schedule"}
		}},
	}

	for _, job := range jobs {
		if job.schedule == "" {
			continue
		}
		if err := ValidateSchedule(job.schedule); err != nil {
			return err
		}
		name, build := job.name, job.task
		id, err := s.cron.AddFunc(job.schedule, func() { s.enqueue(name, build()) })
		if err != nil {
			return fmt.Errorf("failed to schedule %s: %w", name, err)
		}
		s.entries[name] = id
		s.specs[name] = job.schedule
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Maintenance scheduler: started with %d jobs", len(s.entries))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop waits for running jobs to return.
func (s *MaintenanceScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	log.Printf("Maintenance scheduler: stopped")
}

func (s *MaintenanceScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Jobs lists scheduled entries with their next run time.
func (s *MaintenanceScheduler) Jobs() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Job
	for name, id := range s.entries {
		out = append(out, Job{Name: name, Schedule: s.specs[name], NextRun: s.cron.Entry(id).Next})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RunNow enqueues the named job immediately.
func (s *MaintenanceScheduler) RunNow(name string) (string, error) {
	switch name {
	case "cleanup_audit_events":
		return s.queue.Enqueue(tasks.CleanupAuditEventsTask{RetentionDays: s.cfg.AuditRetentionDays})
	case "run_diagnostics":
		return s.queue.Enqueue(tasks.RunDiagnosticsTask{Trigger: "admin"})
	default:
		return "", fmt.Errorf("unknown maintenance job %q", name)
	}
}

func (s *MaintenanceScheduler) enqueue(name string, task backlite.Task) {
	id, err := s.queue.Enqueue(task)
	if err != nil {
		log.Printf("Maintenance scheduler: failed to enqueue %s: %v", name, err)
		return
	}
	log.Printf("Maintenance scheduler: enqueued %s (%s)", name, id)
}
