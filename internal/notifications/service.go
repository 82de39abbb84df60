package notifications

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/metmat-canvas-bot/internal/canvas"
	"github.com/metmat-canvas-bot/internal/mail"
	"github.com/metmat-canvas-bot/internal/workdays"
)

//go:embed marking_messages.json
var messagesJSON []byte

type messages struct {
	Subject map[string]string `json:"subject"`
	Body    map[string]string `json:"body"`
}

type Service struct {
	mailClient *mail.Client
	tso        []string
	messages   messages
}

func NewService(mailClient *mail.Client, tsoRecipients []string) (*Service, error) {
	var m messages
	if err := json.Unmarshal(messagesJSON, &m); err != nil {
		return nil, fmt.Errorf("parse marking messages: %w", err)
	}
	return &Service{
		mailClient: mailClient,
		tso:        tsoRecipients,
		messages:   m,
	}, nil
}

// SendReminder emails a marking reminder for one assignment at one
// milestone.
func (s *Service) SendReminder(
	ctx context.Context,
	assignment *canvas.Assignment,
	status workdays.Status,
	milestone string,
) error {
	subjectFormat, ok := s.messages.Subject[milestone]
	if !ok {
		return fmt.Errorf("no subject template for milestone %q", milestone)
	}
	bodyFormat, ok := s.messages.Body[milestone]
	if !ok {
		return fmt.Errorf("no body template for milestone %q", milestone)
	}

	subject := fmt.Sprintf(subjectFormat, assignment.Name)
	body := fmt.Sprintf(bodyFormat,
		assignment.Name,
		assignment.HTMLURL,
		status.MarkingDeadline.Format("Monday 2 January 2006"),
		assignment.NeedsGradingCount,
	)

	message := mail.NewMessage(Recipients(s.tso, assignment.Description, milestone), subject)
	message.Body(body)

	if err := s.mailClient.Send(ctx, message); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}
