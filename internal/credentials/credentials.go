// Package credentials holds login/password pairs for upstream services
// (the SMTP relay, the Canvas API) and the providers that resolve them at
// runtime. Passwords are encrypted before they touch the database.
package credentials

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/metmat-canvas-bot/internal/keys"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

// Service names credentials are stored under.
const (
	ServiceSMTP   = "smtp"
	ServiceCanvas = "canvas"
)

type Credentials struct {
	ID       ID     `json:"id"`
	Service  string `json:"service"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (c Credentials) Encode(key *keys.Key) (*EncodedCredentials, error) {
	sealed, err := key.Seal([]byte(c.Password))
	if err != nil {
		return nil, err
	}
	return &EncodedCredentials{
		ID:       c.ID,
		Service:  c.Service,
		Login:    c.Login,
		Password: sealed,
	}, nil
}

type EncodedCredentials struct {
	ID       ID     `json:"id"`
	Service  string `json:"service"`
	Login    string `json:"login"`
	Password []byte `json:"password"`
}

func (e EncodedCredentials) Decode(key *keys.Key) (*Credentials, error) {
	password, err := key.Open(e.Password)
	if err != nil {
		return nil, err
	}
	return &Credentials{
		ID:       e.ID,
		Service:  e.Service,
		Login:    e.Login,
		Password: string(password),
	}, nil
}
