package service

import (
	"context"
	"fmt"
	"log/slog"

	"ecohubs/internal/ratelimit/models"
	dErrors "ecohubs/pkg/domain-errors"
)

// Service applies the per-class fixed-window policies.
type Service struct {
	buckets  BucketStore
	policies map[models.Class]models.Policy
	metrics  DecisionRecorder
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m DecisionRecorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithPolicy overrides the budget of a single class.
func WithPolicy(class models.Class, p models.Policy) Option {
	return func(s *Service) {
		s.policies[class] = p
	}
}

func New(buckets BucketStore, policies map[models.Class]models.Policy, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, fmt.Errorf("bucket store is required")
	}
	s := &Service{
		buckets:  buckets,
		policies: make(map[models.Class]models.Policy, len(policies)),
		logger:   slog.Default(),
	}
	for c, p := range policies {
		s.policies[c] = p
	}
	for _, opt := range opts {
		opt(s)
	}
	for c, p := range s.policies {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("policy %s: %w", c, err)
		}
	}
	return s, nil
}

// Check counts one request by identifier against the class budget.
func (s *Service) Check(ctx context.Context, class models.Class, identifier string) (*models.RateLimitResult, error) {
	policy, ok := s.policies[class]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown rate limit class %q", class))
	}
	res, err := s.buckets.Allow(ctx, models.NewKey(class, identifier), policy.Limit, policy.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "rate limit store unavailable")
	}
	if s.metrics != nil {
		s.metrics.RecordDecision(class, res.Allowed)
	}
	if !res.Allowed {
		s.logger.InfoContext(ctx, "rate limit exceeded", "class", class, "retry_after", res.RetryAfter)
	}
	return res, nil
}

// Allow is Check reduced to a boolean. Store errors allow the request.
func (s *Service) Allow(ctx context.Context, class models.Class, identifier string) bool {
	res, err := s.Check(ctx, class, identifier)
	if err != nil {
		s.logger.WarnContext(ctx, "rate limit check failed, allowing request", "class", class, "error", err)
		return true
	}
	return res.Allowed
}

// Policy returns the budget of a class.
func (s *Service) Policy(class models.Class) (models.Policy, bool) {
	p, ok := s.policies[class]
	return p, ok
}
