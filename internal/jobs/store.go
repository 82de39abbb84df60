package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) InsertJob(_ context.Context, job *Job) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(job)
		if err != nil {
			return err
		}
		return txn.Set(idKey(job.ID), data)
	})
}

func (s *Store) FindByID(ctx context.Context, id ID) (*Job, error) {
	var job Job
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &job)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

func ByStatus(status ...Status) func(*Job) bool {
	filter := make(map[Status]bool, len(status))
	for _, s := range status {
		filter[s] = true
	}
	return func(job *Job) bool {
		return filter[job.Status]
	}
}

// SendReminderFor matches jobs for one assignment milestone, whatever
// their status. The sweep uses it to avoid enqueueing duplicates.
func SendReminderFor(courseID string, assignmentID int64, milestone string) func(*Job) bool {
	return func(job *Job) bool {
		if job.SendReminder == nil {
			return false
		}
		return job.SendReminder.CourseID == courseID &&
			job.SendReminder.AssignmentID == assignmentID &&
			job.SendReminder.Milestone == milestone
	}
}

func (s *Store) ListJobs(_ context.Context, filters ...func(*Job) bool) ([]*Job, error) {
	var jobs []*Job
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("jobs/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				job := &Job{}
				if err := json.Unmarshal(value, job); err != nil {
					return err
				}
				for _, filter := range filters {
					if !filter(job) {
						return nil
					}
				}
				jobs = append(jobs, job)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *Store) DeleteJob(_ context.Context, id ID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(idKey(id))
	})
}

func idKey(id ID) []byte {
	return []byte(fmt.Sprintf("jobs/%s", id))
}
