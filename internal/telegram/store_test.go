package telegram

import (
	"context"
	"testing"

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

	offset, err := store.GetUpdatesOffset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if offset != 0 {
		t.Fatalf("initial offset = %d, want 0", offset)
	}

	if err := store.SetUpdatesOffset(ctx, 17); err != nil {
		t.Fatal(err)
	}
	offset, err = store.GetUpdatesOffset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if offset != 17 {
		t.Fatalf("offset = %d, want 17", offset)
	}

	if err := store.InsertChat(ctx, &Chat{ID: 1, FirstName: "Ada"}); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertChat(ctx, &Chat{ID: 2, FirstName: "Grace"}); err != nil {
		t.Fatal(err)
	}

	chats, err := store.ListChats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(chats) != 2 {
		t.Fatalf("len(chats) = %d, want 2", len(chats))
	}
}
