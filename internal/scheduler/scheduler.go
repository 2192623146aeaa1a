package scheduler

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusScheduled JobStatus = "scheduled"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// JobFunc is the work a job performs on every run.
type JobFunc func(ctx context.Context) error

// Job describes a job to register.
type Job struct {
	ID          string
	Name        string
	Description string
	// Schedule is a 5-field cron expression.
	Schedule string
	Run      JobFunc
	// Singleton reschedules a run instead of starting it while the previous one is still busy.
	Singleton bool
	// RunOnStart triggers one run as soon as the scheduler starts.
	RunOnStart bool
}

// JobInfo is a snapshot of a registered job.
type JobInfo struct {
	ID          string
	Name        string
	Description string
	Schedule    string
	Status      JobStatus
	LastRun     time.Time
	NextRun     time.Time
	RunCount    int
	ErrorCount  int
	LastError   string
	Singleton   bool
}

type entry struct {
	info       JobInfo
	job        gocron.Job
	runOnStart bool
}

// Scheduler runs cron jobs and keeps track of their runs.
type Scheduler struct {
	gocron gocron.Scheduler

	mu   sync.RWMutex
	jobs map[string]*entry

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler. Jobs receive a context that is cancelled by Stop.
func New() (*Scheduler, error) {
	gocronScheduler, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		gocron: gocronScheduler,
		jobs:   make(map[string]*entry),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// AddJob registers a job. Job ids must be unique.
func (s *Scheduler) AddJob(j Job) error {
	if j.ID == "" {
		return fmt.Errorf("job id is required")
	}
	if j.Run == nil {
		return fmt.Errorf("job %s has no run function", j.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[j.ID]; exists {
		return fmt.Errorf("job %s already exists", j.ID)
	}

	var opts []gocron.JobOption
	opts = append(opts, gocron.WithName(j.ID))
	if j.Singleton {
		opts = append(opts, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	}

	job, err := s.gocron.NewJob(
		gocron.CronJob(j.Schedule, false),
		gocron.NewTask(s.wrapJobFunc(j.ID, j.Run)),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", j.ID, err)
	}

	s.jobs[j.ID] = &entry{
		info: JobInfo{
			ID:          j.ID,
			Name:        j.Name,
			Description: j.Description,
			Schedule:    j.Schedule,
			Status:      JobStatusScheduled,
			Singleton:   j.Singleton,
		},
		job:        job,
		runOnStart: j.RunOnStart,
	}

	log.Info("Added job to scheduler", "id", j.ID, "schedule", j.Schedule, "singleton", j.Singleton)
	return nil
}

// Start starts the scheduler and triggers the jobs marked with RunOnStart.
func (s *Scheduler) Start() {
	log.Info("Starting job scheduler")
	s.gocron.Start()

	s.mu.Lock()
	var runNow []string
	for id, e := range s.jobs {
		if nextRun, err := e.job.NextRun(); err == nil {
			e.info.NextRun = nextRun
		} else {
			log.Warn("Failed to get next run time for job", "id", id, "error", err)
		}
		if e.runOnStart {
			runNow = append(runNow, id)
		}
	}
	s.mu.Unlock()

	for _, id := range runNow {
		if err := s.RunJobNow(id); err != nil {
			log.Error("Failed to run job after start", "id", id, "error", err)
		}
	}
}

// Stop cancels running jobs, shuts the scheduler down and logs how often each job ran.
func (s *Scheduler) Stop() error {
	log.Info("Stopping job scheduler")
	s.cancel()
	err := s.gocron.Shutdown()

	for _, job := range s.GetJobs() {
		log.Info("Job summary",
			"id", job.ID,
			"status", job.Status,
			"runs", job.RunCount,
			"errors", job.ErrorCount,
			"last_error", job.LastError,
		)
	}
	return err
}

// RunJobNow triggers a job outside of its schedule.
func (s *Scheduler) RunJobNow(id string) error {
	s.mu.RLock()
	e, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}

	log.Debug("Triggering job", "id", id)
	if err := e.job.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}
	return nil
}

// GetJobs returns snapshots of all jobs ordered by id.
func (s *Scheduler) GetJobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.jobs))
	for _, id := range slices.Sorted(maps.Keys(s.jobs)) {
		jobs = append(jobs, s.jobs[id].info)
	}
	return jobs
}

// wrapJobFunc wraps a job function to update job statistics.
func (s *Scheduler) wrapJobFunc(id string, run JobFunc) func() {
	return func() {
		s.mu.Lock()
		e := s.jobs[id]
		if e == nil {
			s.mu.Unlock()
			log.Error("Job info not found", "id", id)
			return
		}
		e.info.Status = JobStatusRunning
		e.info.LastRun = time.Now()
		e.info.RunCount++
		s.mu.Unlock()

		log.Debug("Starting job", "id", id)
		err := run(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if nextRun, nerr := e.job.NextRun(); nerr == nil {
			e.info.NextRun = nextRun
		}
		if err != nil {
			log.Error("Job failed", "id", id, "error", err)
			e.info.Status = JobStatusFailed
			e.info.ErrorCount++
			e.info.LastError = err.Error()
			return
		}
		log.Debug("Job completed", "id", id)
		e.info.Status = JobStatusCompleted
		e.info.LastError = ""
	}
}
