package notifications

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/metmat-canvas-bot/internal/workdays"
)

func TestMilestoneFor(t *testing.T) {
	for _, tc := range []struct {
		elapsed   int
		milestone string
		ok        bool
	}{
		{0, Milestone15Days, true},
		{1, "", false},
		{5, Milestone10Days, true},
		{6, "", false},
		{10, Milestone5Days, true},
		{14, Milestone1Day, true},
		{15, MilestoneOverdue, true},
		{20, MilestoneOverdue, true},
	} {
		status := workdays.Status{ElapsedWorkingDays: tc.elapsed}
		milestone, ok := MilestoneFor(status, workdays.DefaultMarkingWindowDays)
		if milestone != tc.milestone || ok != tc.ok {
			t.Errorf("MilestoneFor(elapsed %d) = %q, %t; want %q, %t",
				tc.elapsed, milestone, ok, tc.milestone, tc.ok)
		}
	}
}

func TestRecipients(t *testing.T) {
	tso := []string{"tso@bham.ac.uk"}
	description := `<p>Marked by a.marker@bham.ac.uk and b.lecturer@bham.ac.uk, moderated externally (ext@other.ac.uk).</p>`

	got := Recipients(tso, description, Milestone1Day)
	want := []string{"tso@bham.ac.uk", "a.marker@bham.ac.uk", "b.lecturer@bham.ac.uk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recipients(1 day) = %v, want %v", got, want)
	}

	// Early milestones go to the office only.
	got = Recipients(tso, description, Milestone15Days)
	if !reflect.DeepEqual(got, tso) {
		t.Errorf("Recipients(15 days) = %v, want %v", got, tso)
	}

	// The input slice must never be mutated.
	if len(tso) != 1 {
		t.Errorf("tso mutated: %v", tso)
	}
}

func TestEmbeddedMessagesCoverAllMilestones(t *testing.T) {
	var m messages
	if err := json.Unmarshal(messagesJSON, &m); err != nil {
		t.Fatal(err)
	}
	for _, milestone := range []string{
		Milestone15Days, Milestone10Days, Milestone5Days, Milestone1Day, MilestoneOverdue,
	} {
		if _, ok := m.Subject[milestone]; !ok {
			t.Errorf("subject template missing for %q", milestone)
		}
		if _, ok := m.Body[milestone]; !ok {
			t.Errorf("body template missing for %q", milestone)
		}
	}
}

func TestMarkingDeadlineRendering(t *testing.T) {
	// The body templates expect a long-form date.
	deadline := time.Date(2023, time.January, 17, 0, 0, 0, 0, time.UTC)
	if got := deadline.Format("Monday 2 January 2006"); got != "Tuesday 17 January 2023" {
		t.Errorf("formatted deadline = %q", got)
	}
}
