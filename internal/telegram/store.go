package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

type Chat struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

type Store struct {
	db *badger.DB
}

func NewStore(db *badger.DB) *Store {
	return &Store{
		db: db,
	}
}

func (s *Store) InsertChat(_ context.Context, chat *Chat) error {
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(chat)
		if err != nil {
			return err
		}
		return txn.Set(chatKey(chat.ID), data)
	})
}

func (s *Store) ListChats(_ context.Context) ([]*Chat, error) {
	var chats []*Chat
	if err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("telegram/chats/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(func(value []byte) error {
				chat := &Chat{}
				if err := json.Unmarshal(value, chat); err != nil {
					return err
				}
				chats = append(chats, chat)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return chats, nil
}

var offsetKey = []byte("telegram/offset")

func (s *Store) GetUpdatesOffset(_ context.Context) (int, error) {
	var offset int
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(offsetKey)
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			offset, err = strconv.Atoi(string(value))
			return err
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return offset, nil
}

func (s *Store) SetUpdatesOffset(_ context.Context, offset int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(offsetKey, []byte(strconv.Itoa(offset)))
	})
}

func chatKey(id int64) []byte {
	return []byte(fmt.Sprintf("telegram/chats/%d", id))
}
