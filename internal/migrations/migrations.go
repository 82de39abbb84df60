// Package migrations rewrites badger keys left behind by older versions of
// the bot.
package migrations

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

func Run(db *badger.DB) error {
	if err := renameClosedKeysPrefix(db); err != nil {
		return fmt.Errorf("rename closed keys prefix: %w", err)
	}
	return nil
}

// renameClosedKeysPrefix moves closures stored under the old "closed/"
// prefix to "closures/".
func renameClosedKeysPrefix(db *badger.DB) error {
	return db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte("closed/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			oldKey := it.Item().KeyCopy(nil)
			newKey := append([]byte("closures/"), bytes.TrimPrefix(oldKey, prefix)...)
			if err := it.Item().Value(func(value []byte) error {
				return txn.Set(newKey, value)
			}); err != nil {
				return fmt.Errorf("failed to set new key: %w", err)
			}
			if err := txn.Delete(oldKey); err != nil {
				return fmt.Errorf("delete old key: %w", err)
			}
			slog.Info(
				"closure migrated",
				"old_key", string(oldKey),
				"new_key", string(newKey))
		}
		return nil
	})
}
