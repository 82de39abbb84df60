package closures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

func (s *Store) Insert(_ context.Context, closure *Closure) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(closure)
		if err != nil {
			return err
		}
		return txn.Set(dateKey(closure.Date), data)
	})
}

func (s *Store) FindByDate(_ context.Context, date time.Time) (*Closure, error) {
	var closure Closure
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(dateKey(date))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &closure)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &closure, nil
}

func (s *Store) ListClosures(_ context.Context) ([]*Closure, error) {
	var out []*Closure
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("closures/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				closure := &Closure{}
				if err := json.Unmarshal(value, closure); err != nil {
					return err
				}
				out = append(out, closure)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteByDate(_ context.Context, date time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(dateKey(date))
	})
}

func dateKey(date time.Time) []byte {
	return []byte(fmt.Sprintf("closures/%s", date.Format(time.DateOnly)))
}
