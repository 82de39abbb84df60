package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/metmat-canvas-bot/internal/canvas"
	"github.com/metmat-canvas-bot/internal/closures"
	"github.com/metmat-canvas-bot/internal/notifications"
)

type Scheduler struct {
	store                *Store
	canvasClient         *canvas.APIClient
	closuresService      *closures.Service
	notificationsService *notifications.Service
	markingWindowDays    int
	now                  func() time.Time

	jobsGuard sync.RWMutex
	jobs      map[ID]*Job

	jobFailedCallbacks    []func(context.Context, *Job)
	jobSucceededCallbacks []func(context.Context, *Job)
}

func NewScheduler(
	store *Store,
	canvasClient *canvas.APIClient,
	closuresService *closures.Service,
	notificationsService *notifications.Service,
	markingWindowDays int,
) *Scheduler {
	return &Scheduler{
		store:                store,
		canvasClient:         canvasClient,
		closuresService:      closuresService,
		notificationsService: notificationsService,
		markingWindowDays:    markingWindowDays,
		now:                  time.Now,
		jobs:                 make(map[ID]*Job),
	}
}

func (s *Scheduler) OnJobFailed(cb func(context.Context, *Job)) {
	s.jobFailedCallbacks = append(s.jobFailedCallbacks, cb)
}

func (s *Scheduler) OnJobSucceeded(cb func(context.Context, *Job)) {
	s.jobSucceededCallbacks = append(s.jobSucceededCallbacks, cb)
}

// Init loads all unfinished jobs from the database into memory and starts
// watching them.
func (s *Scheduler) Init(ctx context.Context) error {
	jobs, err := s.store.ListJobs(ctx, ByStatus(StatusPending, StatusFailing, StatusRunning))
	if err != nil {
		return err
	}
	for _, job := range jobs {
		s.watchJob(ctx, job)
	}

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var jobsToRun []*Job
				s.jobsGuard.RLock()
				for _, job := range s.jobs {
					if s.now().After(job.Time) {
						jobsToRun = append(jobsToRun, job)
					}
				}
				s.jobsGuard.RUnlock()

				for _, job := range jobsToRun {
					slog.InfoContext(ctx, "starting job", "job_id", job.ID, "attempt", len(job.Attempts))
					if err := s.runJob(ctx, job); err != nil {
						for _, cb := range s.jobFailedCallbacks {
							cb(ctx, job)
						}
					} else {
						for _, cb := range s.jobSucceededCallbacks {
							cb(ctx, job)
						}
					}
				}
			}
		}
	}()

	return nil
}

func (s *Scheduler) Schedule(ctx context.Context, job *Job) error {
	if err := s.store.InsertJob(ctx, job); err != nil {
		return err
	}
	s.watchJob(ctx, job)
	return nil
}

func (s *Scheduler) watchJob(ctx context.Context, job *Job) {
	s.jobsGuard.Lock()
	s.jobs[job.ID] = job
	s.jobsGuard.Unlock()
	slog.InfoContext(ctx, "scheduled job", "job_id", job.ID)
}

func (s *Scheduler) unwatchJob(ctx context.Context, job *Job) {
	s.jobsGuard.Lock()
	delete(s.jobs, job.ID)
	s.jobsGuard.Unlock()
	slog.InfoContext(ctx, "unscheduled job", "job_id", job.ID)
}

func (s *Scheduler) runJob(ctx context.Context, job *Job) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	job.Status = StatusRunning
	job.Attempts = append(job.Attempts, s.now())

	if err := s.store.InsertJob(ctx, job); err != nil {
		return err
	}

	jobError := job.Do(ctx, s)
	if jobError != nil {
		job.Errors = append(job.Errors, jobError.Error())
		job.Status = StatusFailing
		if next := nextRetry(job); next != nil {
			job.Time = *next
		} else {
			s.unwatchJob(ctx, job)
		}
	} else {
		job.Status = StatusSucceeded
		job.Errors = append(job.Errors, "")
		s.unwatchJob(ctx, job)
	}

	if err := s.store.InsertJob(ctx, job); err != nil {
		return err
	}

	return jobError
}

func nextRetry(job *Job) *time.Time {
	if len(job.Attempts) == maxAttempts {
		return nil
	}
	next := job.Time.Add(time.Minute * 2 << len(job.Attempts))
	return &next
}
