package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()

	creds, err := Static{Login: "bot", Password: "secret"}.Credentials(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if creds.Login != "bot" || creds.Password != "secret" {
		t.Fatalf("got %+v", creds)
	}

	if _, err := (Static{Login: "bot"}).Credentials(ctx); err == nil {
		t.Error("expected error for missing password")
	}
}

func TestFileProvider(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".mailcredentials")

	if err := os.WriteFile(path, []byte("bot@example.org\nsecret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	creds, err := File{Path: path}.Credentials(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if creds.Login != "bot@example.org" || creds.Password != "secret" {
		t.Fatalf("got %+v", creds)
	}

	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (File{Path: path}).Credentials(ctx); err == nil {
		t.Error("expected error for world-readable credentials file")
	}

	if _, err := (File{Path: filepath.Join(t.TempDir(), "missing")}).Credentials(ctx); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileProviderMalformed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".mailcredentials")

	if err := os.WriteFile(path, []byte("only-login\n"), 0o400); err != nil {
		t.Fatal(err)
	}
	if _, err := (File{Path: path}).Credentials(ctx); err == nil {
		t.Error("expected error for single-line file")
	}
}

func TestChainProvider(t *testing.T) {
	ctx := context.Background()

	chain := Chain{
		Static{}, // fails, empty
		Static{Login: "bot", Password: "secret"},
	}
	creds, err := chain.Credentials(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if creds.Login != "bot" {
		t.Fatalf("got %+v", creds)
	}

	if _, err := (Chain{Static{}}).Credentials(ctx); err == nil {
		t.Error("expected error when every provider fails")
	}
	if _, err := (Chain{}).Credentials(ctx); err == nil {
		t.Error("expected error for empty chain")
	}
}
