// Package mail sends the bot's outbound email. The transport details live
// in one place so every script shares the same relay configuration.
package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"github.com/metmat-canvas-bot/internal/credentials"
)

// Config is the explicit transport configuration. Username and Password
// may be left empty, in which case the credential provider is consulted on
// every send.
type Config struct {
	Server   string
	Port     int
	Username string
	Password string
	FromName string
	FromAddr string
}

type Client struct {
	config   Config
	provider credentials.Provider
}

func NewClient(config Config, provider credentials.Provider) *Client {
	return &Client{
		config:   config,
		provider: provider,
	}
}

// Message is an outbound email under construction.
type Message struct {
	to      []string
	cc      []string
	subject string
	body    string
	files   []string
}

func NewMessage(to []string, subject string) *Message {
	return &Message{
		to:      to,
		subject: subject,
	}
}

func (m *Message) Cc(addresses ...string) {
	m.cc = append(m.cc, addresses...)
}

func (m *Message) Body(text string) {
	m.body = text
}

func (m *Message) AttachFile(path string) {
	m.files = append(m.files, path)
}

// Send delivers the message over implicit-TLS SMTP. Each send dials a
// fresh session, which doubles as the reconnect path when the relay
// dropped the previous one.
func (c *Client) Send(ctx context.Context, message *Message) error {
	if len(message.to) == 0 {
		return errors.New("mail: message has no recipients")
	}

	login, password := c.config.Username, c.config.Password
	if login == "" || password == "" {
		if c.provider == nil {
			return errors.New("mail: no credentials configured and no provider set")
		}
		creds, err := c.provider.Credentials(ctx)
		if err != nil {
			return fmt.Errorf("mail: resolve credentials: %w", err)
		}
		login, password = creds.Login, creds.Password
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(c.config.FromName, c.config.FromAddr); err != nil {
		return fmt.Errorf("mail: from address: %w", err)
	}
	if err := msg.To(message.to...); err != nil {
		return fmt.Errorf("mail: to addresses: %w", err)
	}
	if len(message.cc) > 0 {
		if err := msg.Cc(message.cc...); err != nil {
			return fmt.Errorf("mail: cc addresses: %w", err)
		}
	}
	msg.Subject(message.subject)
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, message.body)
	for _, path := range message.files {
		msg.AttachFile(path)
	}

	client, err := gomail.NewClient(c.config.Server,
		gomail.WithPort(c.config.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(login),
		gomail.WithPassword(password),
	)
	if err != nil {
		return fmt.Errorf("mail: client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
