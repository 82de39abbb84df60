package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/metmat-canvas-bot/internal/keys"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db            *badger.DB
	encryptionKey *keys.Key
}

func NewStore(
	db *badger.DB,
	encryptionKey *keys.Key,
) *Store {
	return &Store{
		db:            db,
		encryptionKey: encryptionKey,
	}
}

func (s *Store) FindByID(ctx context.Context, id ID) (*Credentials, error) {
	var credential EncodedCredentials
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &credential)
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return credential.Decode(s.encryptionKey)
}

// FindByService returns the credentials registered for a service name,
// following the service index to the record.
func (s *Store) FindByService(ctx context.Context, service string) (*Credentials, error) {
	var credential EncodedCredentials
	if err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(serviceKey(service))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			item, err := txn.Get(value)
			if err != nil {
				return err
			}
			return item.Value(func(value []byte) error {
				return json.Unmarshal(value, &credential)
			})
		})
	}); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return credential.Decode(s.encryptionKey)
}

func (s *Store) Insert(ctx context.Context, credential *Credentials) error {
	encoded, err := credential.Encode(s.encryptionKey)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		data, err := json.Marshal(encoded)
		if err != nil {
			return err
		}
		if err := txn.Set(idKey(encoded.ID), data); err != nil {
			return err
		}
		if err := txn.Set(serviceKey(encoded.Service), idKey(encoded.ID)); err != nil {
			return err
		}
		return nil
	})
}

func idKey(id ID) []byte {
	return []byte(fmt.Sprintf("credentials/%s", id))
}

func serviceKey(service string) []byte {
	return []byte(fmt.Sprintf("credentials-service/%s", service))
}
