package ratelimit

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	SetClientIP(ip string)
	GetLastResponseStatus() int
}

// RegisterSteps registers rate-limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I am a visitor from IP "([^"]*)"$`, steps.visitorFromIP)
	ctx.Step(`^I send (\d+) contact messages$`, steps.sendContactMessages)
	ctx.Step(`^every response should have been (\d+)$`, steps.everyResponseShouldBe)
	ctx.Step(`^I send one more contact message$`, steps.sendOneMore)
}

type ratelimitSteps struct {
	tc       TestContext
	statuses []int
}

func (s *ratelimitSteps) visitorFromIP(ctx context.Context, ip string) error {
	s.tc.SetClientIP(ip)
	s.statuses = nil
	return nil
}

// sendContactMessages posts invalid messages. They are rejected after the
// limiter has counted them, so no mail is sent.
func (s *ratelimitSteps) sendContactMessages(ctx context.Context, n int) error {
	for range n {
		if err := s.sendOneMore(ctx); err != nil {
			return err
		}
		s.statuses = append(s.statuses, s.tc.GetLastResponseStatus())
	}
	return nil
}

func (s *ratelimitSteps) sendOneMore(ctx context.Context) error {
	return s.tc.POST("/api/contact", map[string]any{
		"name":    "E2E",
		"email":   "not-an-email",
		"message": "rate limit check",
	})
}

func (s *ratelimitSteps) everyResponseShouldBe(ctx context.Context, expected int) error {
	for i, got := range s.statuses {
		if got != expected {
			return fmt.Errorf("request %d: expected status %d, got %d", i+1, expected, got)
		}
	}
	return nil
}
