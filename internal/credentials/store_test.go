package credentials

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/metmat-canvas-bot/internal/keys"
)

func Test(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	key, err := keys.NewKey()
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore(db, key)

	inserted := Credentials{
		ID:       "id",
		Service:  ServiceSMTP,
		Login:    "login",
		Password: "password",
	}

	ctx := context.Background()
	if err := store.Insert(ctx, &inserted); err != nil {
		t.Fatal(err)
	}

	foundByID, err := store.FindByID(ctx, inserted.ID)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != *foundByID {
		t.Fatal("inserted != foundByID")
	}

	foundByService, err := store.FindByService(ctx, ServiceSMTP)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != *foundByService {
		t.Fatal("inserted != foundByService")
	}

	if _, err := store.FindByService(ctx, ServiceCanvas); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
