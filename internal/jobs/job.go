// Package jobs persists and runs the bot's scheduled work: one
// send-reminder job per assignment and milestone.
package jobs

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/metmat-canvas-bot/internal/canvas"
	"github.com/metmat-canvas-bot/internal/workdays"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

type Status uint

const (
	StatusUndefined Status = iota
	StatusPending
	StatusRunning
	StatusSucceeded
	StatusFailing
)

const maxAttempts = 5

type Job struct {
	ID       ID          `json:"id"`
	Time     time.Time   `json:"time"`
	Status   Status      `json:"status"`
	Attempts []time.Time `json:"attempts"`
	Errors   []string    `json:"errors"`

	SendReminder *SendReminderJob `json:"send_reminder,omitempty"`
}

type SendReminderJob struct {
	CourseID     string `json:"course_id"`
	AssignmentID int64  `json:"assignment_id"`
	// Milestone is the reminder stage, e.g. "5 days left".
	Milestone string `json:"milestone"`
	// Deadline is the assignment's submission deadline the countdown is
	// measured from.
	Deadline time.Time `json:"deadline"`
}

func NewSendReminderJob(courseID string, assignmentID int64, milestone string, deadline, ts time.Time) *Job {
	return &Job{
		ID:     NewID(),
		Status: StatusPending,
		Time:   ts,
		SendReminder: &SendReminderJob{
			CourseID:     courseID,
			AssignmentID: assignmentID,
			Milestone:    milestone,
			Deadline:     deadline,
		},
	}
}

func (j Job) Do(ctx context.Context, s *Scheduler) error {
	if j.SendReminder != nil {
		reminder := j.SendReminder

		assignments, err := s.canvasClient.ListAssignments(ctx, reminder.CourseID)
		if err != nil {
			return fmt.Errorf("list assignments: %w", err)
		}
		assignment := findAssignment(assignments, reminder.AssignmentID)
		if assignment == nil {
			return fmt.Errorf("assignment %d not found in course %s", reminder.AssignmentID, reminder.CourseID)
		}

		closed, err := s.closuresService.ClosedDates(ctx)
		if err != nil {
			return fmt.Errorf("closed dates: %w", err)
		}
		status, err := workdays.DeadlineStatus(reminder.Deadline, s.now(), closed, s.markingWindowDays)
		if err != nil {
			return fmt.Errorf("deadline status: %w", err)
		}

		if err := s.notificationsService.SendReminder(ctx, assignment, status, reminder.Milestone); err != nil {
			return fmt.Errorf("send reminder: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported job type")
}

func findAssignment(assignments []*canvas.Assignment, id int64) *canvas.Assignment {
	for _, assignment := range assignments {
		if assignment.ID == id {
			return assignment
		}
	}
	return nil
}
