package contact

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rocketpool/rocketpool-web/internal/email"
)

// Service validates, stores and forwards enquiries.
type Service struct {
	store     Store
	sender    email.Sender
	recipient string
	validate  *Validator
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates a Service delivering to recipient.
func NewService(store Store, sender email.Sender, recipient string) *Service {
	return &Service{
		store:     store,
		sender:    sender,
		recipient: recipient,
		validate:  NewValidator(),
		now:       time.Now,
		logger:    slog.Default().With("component", "contact.service"),
	}
}

// Submit validates req, stores the enquiry and emails it to the recipient.
// A validation failure is returned as a *ValidationError.
func (s *Service) Submit(ctx context.Context, req Request) (Enquiry, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if err := s.validate.Validate(req); err != nil {
		return Enquiry{}, &ValidationError{Message: describe(err)}
	}

	e := Enquiry{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Account:   req.Account,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, e); err != nil {
		return Enquiry{}, err
	}

	if s.recipient == "" {
		s.logger.Warn("No contact recipient configured; enquiry stored only", "id", e.ID)
		return e, nil
	}

	subject := fmt.Sprintf("Rocket Pool enquiry from %s", e.Name)
	if err := s.sender.Send(ctx, s.recipient, subject, renderEmail(e)); err != nil {
		s.logger.Error("Failed to forward enquiry", "id", e.ID, "error", err)
		return e, fmt.Errorf("failed to deliver enquiry: %w", err)
	}

	if err := s.store.MarkDelivered(ctx, e.ID); err != nil {
		s.logger.Warn("Failed to mark enquiry delivered", "id", e.ID, "error", err)
	} else {
		e.Delivered = true
	}
	s.logger.Info("Enquiry delivered", "id", e.ID)
	return e, nil
}

func renderEmail(e Enquiry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(e.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(e.Email))
	if e.Account != "" {
		fmt.Fprintf(&b, "<p><strong>Account:</strong> %s</p>", html.EscapeString(e.Account))
	}
	fmt.Fprintf(&b, "<p><strong>Received:</strong> %s</p>", e.CreatedAt.Format(time.RFC1123))
	for _, line := range strings.Split(e.Message, "\n") {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(line))
	}
	return b.String()
}
