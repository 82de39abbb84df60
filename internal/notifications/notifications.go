// Package notifications composes and delivers marking reminders: one email
// per assignment each time its marking countdown passes a milestone.
package notifications

import (
	"regexp"

	"github.com/metmat-canvas-bot/internal/workdays"
)

// Milestones reminders are sent at, keyed exactly as they appear in
// marking_messages.json.
const (
	Milestone15Days  = "15 days left"
	Milestone10Days  = "10 days left"
	Milestone5Days   = "5 days left"
	Milestone1Day    = "1 day left"
	MilestoneOverdue = "overdue"
)

// MilestoneFor returns the milestone to announce for the current deadline
// status, if any. Reminders fire when the remaining window hits 15, 10, 5
// and 1 working days, then once the window is exhausted.
func MilestoneFor(status workdays.Status, markingWindowDays int) (string, bool) {
	remaining := markingWindowDays - status.ElapsedWorkingDays
	switch remaining {
	case 15:
		return Milestone15Days, true
	case 10:
		return Milestone10Days, true
	case 5:
		return Milestone5Days, true
	case 1:
		return Milestone1Day, true
	}
	if remaining <= 0 {
		return MilestoneOverdue, true
	}
	return "", false
}

var markerAddress = regexp.MustCompile(`[A-Za-z0-9.]*@bham\.ac\.uk`)

// Recipients returns the addresses a reminder goes to: the Taught School
// Office list always, plus any marker addresses found in the assignment
// description at the 5-day and 1-day milestones.
func Recipients(tso []string, description, milestone string) []string {
	out := append([]string(nil), tso...)
	if milestone == Milestone5Days || milestone == Milestone1Day {
		out = append(out, markerAddress.FindAllString(description, -1)...)
	}
	return out
}
