package models

import (
	"time"

	dErrors "ecohubs/pkg/domain-errors"
)

// Class groups endpoints that share one limit.
type Class string

const (
	// ClassAuth covers wallet sign-in (5 req/min).
	ClassAuth Class = "auth"
	// ClassContact covers the contact form (RATE_LIMIT_MAX_REQUESTS per RATE_LIMIT_WINDOW).
	ClassContact Class = "contact"
	// ClassNewsletter covers newsletter sign-up (3 req/min).
	ClassNewsletter Class = "newsletter"
	// ClassApplication covers the membership application form (5 req/min).
	ClassApplication Class = "application"
)

// IsValid checks if the class is one of the supported values.
func (c Class) IsValid() bool {
	switch c {
	case ClassAuth, ClassContact, ClassNewsletter, ClassApplication:
		return true
	}
	return false
}

// Policy is the fixed-window budget of a class.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Validate rejects budgets the stores cannot honour.
func (p Policy) Validate() error {
	if p.Limit <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "rate limit must be positive")
	}
	if p.Window <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "rate limit window must be positive")
	}
	return nil
}

// DefaultPolicies returns the budgets for every class. Only the contact
// form budget is tunable.
func DefaultPolicies(contactLimit int, contactWindow time.Duration) map[Class]Policy {
	contact := Policy{Limit: contactLimit, Window: contactWindow}
	if contact.Validate() != nil {
		contact = Policy{Limit: 5, Window: time.Minute}
	}
	return map[Class]Policy{
		ClassAuth:        {Limit: 5, Window: time.Minute},
		ClassContact:     contact,
		ClassNewsletter:  {Limit: 3, Window: time.Minute},
		ClassApplication: {Limit: 5, Window: time.Minute},
	}
}

// RateLimitResult is the outcome of one check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}
