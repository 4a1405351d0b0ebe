package e2e

import (
	"github.com/cucumber/godog"

	"ecohubs/e2e/steps/auth"
	"ecohubs/e2e/steps/common"
	"ecohubs/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and assertions
	common.RegisterSteps(ctx, tc)

	// Wallet sign-in and the admin gate
	auth.RegisterSteps(ctx, tc)

	// Per-client request limits
	ratelimit.RegisterSteps(ctx, tc)
}
