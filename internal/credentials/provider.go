package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider resolves the credentials for an upstream service at call time.
type Provider interface {
	Credentials(ctx context.Context) (*Credentials, error)
}

// Static returns a fixed pair, typically from flags or the environment.
type Static struct {
	Login    string
	Password string
}

func (s Static) Credentials(_ context.Context) (*Credentials, error) {
	if s.Login == "" || s.Password == "" {
		return nil, errors.New("credentials: static login or password empty")
	}
	return &Credentials{Login: s.Login, Password: s.Password}, nil
}

// File reads a two-line login/password file, typically ~/.mailcredentials.
// The file must be readable by its owner only (mode 0400 or 0600).
type File struct {
	Path string
}

func (f File) Credentials(_ context.Context) (*Credentials, error) {
	path := f.Path
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("credentials: resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	if perm := info.Mode().Perm(); perm != 0o400 && perm != 0o600 {
		return nil, fmt.Errorf("credentials: %s has mode %04o, want 0400 or 0600", path, perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("credentials: %s must hold a login line and a password line", path)
	}
	login, password := strings.TrimSpace(lines[0]), strings.TrimSpace(lines[1])
	if login == "" || password == "" {
		return nil, fmt.Errorf("credentials: %s has an empty login or password line", path)
	}
	return &Credentials{Login: login, Password: password}, nil
}

// StoreProvider resolves credentials for a service from the encrypted
// store.
type StoreProvider struct {
	Store   *Store
	Service string
}

func (p StoreProvider) Credentials(ctx context.Context) (*Credentials, error) {
	return p.Store.FindByService(ctx, p.Service)
}

// Chain tries each provider in order and returns the first success.
type Chain []Provider

func (c Chain) Credentials(ctx context.Context) (*Credentials, error) {
	var errs []error
	for _, provider := range c {
		creds, err := provider.Credentials(ctx)
		if err == nil {
			return creds, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, errors.New("credentials: empty provider chain")
	}
	return nil, errors.Join(errs...)
}
