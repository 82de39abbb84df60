package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func TestStore(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := NewStore(db)
	ctx := context.Background()

	deadline := time.Date(2022, time.December, 16, 0, 0, 0, 0, time.UTC)
	job := NewSendReminderJob("42", 999, "5 days left", deadline, time.Now().UTC())
	if err := store.InsertJob(ctx, job); err != nil {
		t.Fatal(err)
	}

	found, err := store.FindByID(ctx, job.ID)
	if err != nil {
		t.Fatal(err)
	}
	if found.SendReminder == nil || found.SendReminder.AssignmentID != 999 {
		t.Fatalf("found %+v", found)
	}
	if found.Status != StatusPending {
		t.Errorf("Status = %d, want StatusPending", found.Status)
	}

	pending, err := store.ListJobs(ctx, ByStatus(StatusPending))
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("len(pending) = %d, want 1", len(pending))
	}

	matching, err := store.ListJobs(ctx, SendReminderFor("42", 999, "5 days left"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matching) != 1 {
		t.Fatalf("len(matching) = %d, want 1", len(matching))
	}

	other, err := store.ListJobs(ctx, SendReminderFor("42", 999, "1 day left"))
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Fatalf("len(other) = %d, want 0", len(other))
	}

	if err := store.DeleteJob(ctx, job.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FindByID(ctx, job.ID); err != ErrNotFound {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}
}
