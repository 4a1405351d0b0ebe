// Package contact relays contact-form messages to the site admins.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"ecohubs/internal/integrations/email"
	"ecohubs/internal/integrations/zapier"
	dErrors "ecohubs/pkg/domain-errors"
	pkgemail "ecohubs/pkg/email"
	"ecohubs/pkg/requestcontext"
)

const (
	DefaultAdminEmail = "admin@ecohubs.community"

	MsgSent     = "Message sent successfully! We'll get back to you soon."
	MsgReceived = "Message received! We'll get back to you soon."
	MsgFailed   = "Failed to send message. Please try again or contact us directly."
)

// Mailer sends Markdown e-mail.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// Webhook receives the message when e-mail delivery fails.
type Webhook interface {
	Post(ctx context.Context, payload any) error
}

// Request is the contact form body.
type Request struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate sanitizes the fields in place, then checks them. Angle brackets
// are stripped and the address is lower-cased.
func (r *Request) Validate() error {
	r.Name = sanitize(r.Name)
	r.Email = strings.ToLower(sanitize(r.Email))
	r.Message = sanitize(r.Message)

	if utf8.RuneCountInString(r.Name) < 2 {
		return dErrors.New(dErrors.CodeValidation, "Please provide a valid name.")
	}
	if !pkgemail.Valid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Please provide a valid email address.")
	}
	if utf8.RuneCountInString(r.Message) < 10 {
		return dErrors.New(dErrors.CodeValidation, "Please provide a message (at least 10 characters).")
	}
	return nil
}

func sanitize(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(strings.TrimSpace(s))
}

type Service struct {
	mailer     Mailer
	webhook    Webhook
	adminEmail string
	logger     *slog.Logger
}

type Option func(*Service)

func WithMailer(m Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

func WithWebhook(w Webhook) Option {
	return func(s *Service) {
		s.webhook = w
	}
}

func WithAdminEmail(addr string) Option {
	return func(s *Service) {
		if addr != "" {
			s.adminEmail = addr
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(opts ...Option) *Service {
	s := &Service{adminEmail: DefaultAdminEmail, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers the message by e-mail, falling back to the webhook. The
// returned string is the message shown to the sender.
func (s *Service) Send(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	requestID := requestcontext.RequestID(ctx)
	at := requestcontext.Now(ctx).UTC()

	err := s.sendEmails(ctx, req, at)
	if err == nil {
		return MsgSent, nil
	}
	s.logger.WarnContext(ctx, "contact email failed, trying webhook",
		"request_id", requestID,
		"error", err,
	)

	if s.webhook != nil {
		hookErr := s.webhook.Post(ctx, zapier.ContactPayload{
			Name:      req.Name,
			Email:     req.Email,
			Message:   req.Message,
			Timestamp: at.Format(time.RFC3339Nano),
			Source:    "contact_form",
		})
		if hookErr == nil {
			return MsgReceived, nil
		}
		s.logger.ErrorContext(ctx, "contact webhook failed",
			"request_id", requestID,
			"error", hookErr,
		)
	}

	s.logger.ErrorContext(ctx, "contact message not delivered",
		"request_id", requestID,
		"from", req.Email,
		"preview", preview(req.Message, 50),
	)
	return "", dErrors.Wrap(err, dErrors.CodeInternal, MsgFailed)
}

func (s *Service) sendEmails(ctx context.Context, req Request, at time.Time) error {
	if s.mailer == nil {
		return fmt.Errorf("email not configured")
	}
	notice := fmt.Sprintf("# New contact form submission\n\n**From:** %s  \n**Email:** %s  \n**Received:** %s\n\n%s\n\n---\n\nThis message was sent via the EcoHubs.community contact form.\n",
		req.Name, req.Email, at.Format(time.RFC1123), req.Message)
	if err := s.mailer.Send(ctx, email.Message{
		To:       []string{s.adminEmail},
		ReplyTo:  req.Email,
		Subject:  "New Contact Form: " + req.Name,
		Markdown: notice,
	}); err != nil {
		return err
	}

	confirmation := fmt.Sprintf("Hi %s,\n\nThank you for contacting EcoHubs.community. We've received your message and will get back to you as soon as possible.\n\nOur team typically responds within 24-48 hours. In the meantime, feel free to explore our vision for regenerative communities at [ecohubs.community/vision](https://ecohubs.community/vision).\n\n*The EcoHubs Team*\n",
		req.Name)
	return s.mailer.Send(ctx, email.Message{
		To:       []string{req.Email},
		Subject:  "Thanks for reaching out to EcoHubs",
		Markdown: confirmation,
	})
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
