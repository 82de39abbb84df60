// Package reminders runs the nightly sweep that turns assignment deadlines
// into scheduled reminder jobs.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/metmat-canvas-bot/internal/canvas"
	"github.com/metmat-canvas-bot/internal/closures"
	"github.com/metmat-canvas-bot/internal/jobs"
	"github.com/metmat-canvas-bot/internal/notifications"
	"github.com/metmat-canvas-bot/internal/workdays"
)

type Service struct {
	canvasClient      *canvas.APIClient
	closuresService   *closures.Service
	jobsStore         *jobs.Store
	scheduler         *jobs.Scheduler
	courseIDs         []string
	markingWindowDays int
	now               func() time.Time
}

func NewService(
	canvasClient *canvas.APIClient,
	closuresService *closures.Service,
	jobsStore *jobs.Store,
	scheduler *jobs.Scheduler,
	courseIDs []string,
	markingWindowDays int,
) *Service {
	return &Service{
		canvasClient:      canvasClient,
		closuresService:   closuresService,
		jobsStore:         jobsStore,
		scheduler:         scheduler,
		courseIDs:         courseIDs,
		markingWindowDays: markingWindowDays,
		now:               time.Now,
	}
}

// Start sweeps once immediately, then every interval until the context is
// cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	go func() {
		if err := s.Sweep(ctx); err != nil {
			slog.ErrorContext(ctx, "reminder sweep", "error", err)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Sweep(ctx); err != nil {
					slog.ErrorContext(ctx, "reminder sweep", "error", err)
				}
			}
		}
	}()
}

// Sweep walks every watched course and enqueues one reminder job per
// assignment whose marking countdown sits on a milestone today. Reminders
// only fire on working days, so nobody is nagged over a weekend or
// closure.
func (s *Service) Sweep(ctx context.Context) error {
	closed, err := s.closuresService.ClosedDates(ctx)
	if err != nil {
		return fmt.Errorf("closed dates: %w", err)
	}
	now := s.now()

	for _, courseID := range s.courseIDs {
		assignments, err := s.canvasClient.ListAssignments(ctx, courseID)
		if err != nil {
			return fmt.Errorf("list assignments of course %s: %w", courseID, err)
		}
		for _, assignment := range assignments {
			if err := s.sweepAssignment(ctx, courseID, assignment, closed, now); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) sweepAssignment(
	ctx context.Context,
	courseID string,
	assignment *canvas.Assignment,
	closed workdays.ClosedDates,
	now time.Time,
) error {
	if assignment.DueAt == nil || assignment.DueAt.After(now) {
		return nil
	}
	if assignment.NeedsGradingCount == 0 {
		return nil
	}

	status, err := workdays.DeadlineStatus(*assignment.DueAt, now, closed, s.markingWindowDays)
	if errors.Is(err, workdays.ErrScanBudgetExceeded) {
		// Closed-date configuration is broken; no sweep can make
		// progress until an operator fixes it.
		return err
	} else if err != nil {
		return fmt.Errorf("deadline status for assignment %d: %w", assignment.ID, err)
	}
	if !status.TodayIsWorkingDay {
		return nil
	}

	milestone, ok := notifications.MilestoneFor(status, s.markingWindowDays)
	if !ok {
		return nil
	}

	existing, err := s.jobsStore.ListJobs(ctx, jobs.SendReminderFor(courseID, assignment.ID, milestone))
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	job := jobs.NewSendReminderJob(courseID, assignment.ID, milestone, *assignment.DueAt, now)
	if err := s.scheduler.Schedule(ctx, job); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}
	slog.InfoContext(ctx, "reminder scheduled",
		"course_id", courseID,
		"assignment_id", assignment.ID,
		"milestone", milestone)
	return nil
}
