package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers wallet sign-in step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^I request a sign-in challenge$`, steps.requestChallenge)
	ctx.Step(`^I save the challenge message$`, steps.saveChallenge)
	ctx.Step(`^I verify the challenge as "([^"]*)" with signature "([^"]*)"$`, steps.verifyWithSignature)
	ctx.Step(`^I request "([^"]*)" with session cookie "([^"]*)"$`, steps.requestWithCookie)
}

type authSteps struct {
	tc      TestContext
	message string
}

func (s *authSteps) requestChallenge(ctx context.Context) error {
	return s.tc.GET("/auth/login", nil)
}

func (s *authSteps) saveChallenge(ctx context.Context) error {
	v, err := s.tc.GetResponseField("message")
	if err != nil {
		return err
	}
	msg, ok := v.(string)
	if !ok || msg == "" {
		return fmt.Errorf("challenge message missing")
	}
	s.message = msg
	return nil
}

func (s *authSteps) verifyWithSignature(ctx context.Context, address, signature string) error {
	if s.message == "" {
		return fmt.Errorf("no challenge saved")
	}
	return s.tc.POST("/auth/verify", map[string]any{
		"address":   address,
		"signature": signature,
		"message":   s.message,
	})
}

func (s *authSteps) requestWithCookie(ctx context.Context, path, token string) error {
	return s.tc.GET(path, map[string]string{"Cookie": "auth_token=" + token})
}
