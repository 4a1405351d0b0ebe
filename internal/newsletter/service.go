// Package newsletter subscribes visitors to the mailing list.
package newsletter

import (
	"context"
	"log/slog"
	"time"

	"ecohubs/internal/integrations/zapier"
	dErrors "ecohubs/pkg/domain-errors"
	"ecohubs/pkg/email"
	"ecohubs/pkg/requestcontext"
)

const (
	MsgSubscribed = "Successfully subscribed! Please check your email to confirm."
	MsgFailed     = "An error occurred. Please try again later."
)

// Subscriber adds an address to the mailing list.
type Subscriber interface {
	Subscribe(ctx context.Context, address string) error
}

// Webhook receives subscriptions the list could not take.
type Webhook interface {
	Post(ctx context.Context, payload any) error
}

// RejectedFunc reports whether a Subscriber error is a refusal rather than
// an outage.
type RejectedFunc func(err error) bool

type Request struct {
	Email string `json:"email"`
}

// Validate normalises the address and checks it.
func (r *Request) Validate() error {
	r.Email = email.Normalize(r.Email)
	if !email.Valid(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "Please provide a valid email address.")
	}
	return nil
}

type Service struct {
	list     Subscriber
	rejected RejectedFunc
	webhook  Webhook
	logger   *slog.Logger
}

type Option func(*Service)

// WithList sets the mailing list and how to tell its refusals apart.
func WithList(list Subscriber, rejected RejectedFunc) Option {
	return func(s *Service) {
		s.list = list
		s.rejected = rejected
	}
}

func WithWebhook(w Webhook) Option {
	return func(s *Service) {
		s.webhook = w
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(opts ...Option) *Service {
	s := &Service{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rejected == nil {
		s.rejected = func(error) bool { return false }
	}
	return s
}

// Subscribe tries the mailing list, then the webhook. A list refusal is an
// error; an unreachable list falls through. With nothing configured the
// address is only logged and the call still succeeds.
func (s *Service) Subscribe(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	requestID := requestcontext.RequestID(ctx)

	if s.list != nil {
		err := s.list.Subscribe(ctx, req.Email)
		if err == nil {
			return MsgSubscribed, nil
		}
		if s.rejected(err) {
			s.logger.ErrorContext(ctx, "mailing list rejected subscriber",
				"request_id", requestID,
				"error", err,
			)
			return "", dErrors.Wrap(err, dErrors.CodeInternal, MsgFailed)
		}
		s.logger.WarnContext(ctx, "mailing list unreachable, trying webhook",
			"request_id", requestID,
			"error", err,
		)
	}

	if s.webhook != nil {
		err := s.webhook.Post(ctx, zapier.NewsletterPayload{
			Email:     req.Email,
			Timestamp: requestcontext.Now(ctx).UTC().Format(time.RFC3339Nano),
			Source:    "website",
		})
		if err == nil {
			return MsgSubscribed, nil
		}
		s.logger.ErrorContext(ctx, "newsletter webhook failed",
			"request_id", requestID,
			"error", err,
		)
	}

	s.logger.WarnContext(ctx, "newsletter subscription not forwarded",
		"request_id", requestID,
		"email", req.Email,
	)
	return MsgSubscribed, nil
}
