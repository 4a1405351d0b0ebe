package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"ecohubs/internal/integrations"
)

type submission struct {
	Email string
}

type PipelineSuite struct {
	suite.Suite
	ctx     context.Context
	metrics *Metrics
	runner  *Runner[submission]
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.ctx = context.Background()
	s.metrics = NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.runner = NewRunner(logger, WithMetrics[submission](s.metrics), WithStepTimeout[submission](time.Second))
}

func ok(context.Context, submission) error { return nil }

func (s *PipelineSuite) TestAllStepsSucceed() {
	steps := []Step[submission]{
		{Name: "airtable", Blocking: true, Run: ok},
		{Name: "email", Run: ok},
		{Name: "zapier", Run: ok},
	}

	report, err := s.runner.Run(s.ctx, steps, submission{Email: "a@example.org"})
	s.Require().NoError(err)
	s.Require().Len(report, 3)
	for _, e := range report {
		s.Equal(StatusOK, e.Status, e.Name)
	}
	s.Empty(report.Failed())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Steps.WithLabelValues("email", "ok")))
}

func (s *PipelineSuite) TestBlockingFailureAbortsRemainingSteps() {
	var ran atomic.Bool
	upstream := integrations.NewError(integrations.CategoryUnavailable, "airtable", "upstream down", nil)
	steps := []Step[submission]{
		{Name: "airtable", Blocking: true, Run: func(context.Context, submission) error { return upstream }},
		{Name: "email", Run: func(context.Context, submission) error { ran.Store(true); return nil }},
	}

	report, err := s.runner.Run(s.ctx, steps, submission{})
	s.Require().Error(err)

	var blocking *BlockingError
	s.Require().ErrorAs(err, &blocking)
	s.Equal("airtable", blocking.Step)
	s.ErrorIs(err, upstream)
	s.False(ran.Load())

	s.Require().Len(report, 1)
	s.Equal(StatusFailed, report[0].Status)
	s.Equal(integrations.CategoryUnavailable, report[0].Category)
}

func (s *PipelineSuite) TestBlockingSkipDoesNotAbort() {
	steps := []Step[submission]{
		{Name: "airtable", Blocking: true, Run: func(context.Context, submission) error { return Skip("not configured") }},
		{Name: "email", Run: ok},
	}

	report, err := s.runner.Run(s.ctx, steps, submission{})
	s.Require().NoError(err)

	entry, found := report.Get("airtable")
	s.Require().True(found)
	s.Equal(StatusSkipped, entry.Status)
	s.Equal("not configured", entry.Detail)
	s.Empty(entry.Error)
}

func (s *PipelineSuite) TestBestEffortFailuresAreRecordedNotReturned() {
	steps := []Step[submission]{
		{Name: "email", Run: func(context.Context, submission) error {
			return integrations.NewError(integrations.CategoryAuthentication, "smtp", "bad credentials", nil)
		}},
		{Name: "listmonk", Run: func(context.Context, submission) error { return errors.New("boom") }},
		{Name: "zapier", Run: ok},
	}

	report, err := s.runner.Run(s.ctx, steps, submission{})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"email", "listmonk"}, report.Failed())

	email, _ := report.Get("email")
	s.Equal(integrations.CategoryAuthentication, email.Category)
	lm, _ := report.Get("listmonk")
	s.Equal(integrations.CategoryInternal, lm.Category)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Steps.WithLabelValues("email", "failed")))
}

func (s *PipelineSuite) TestReportKeepsDeclarationOrder() {
	steps := []Step[submission]{
		{Name: "slow", Run: func(context.Context, submission) error { time.Sleep(20 * time.Millisecond); return nil }},
		{Name: "fast", Run: ok},
	}

	report, err := s.runner.Run(s.ctx, steps, submission{})
	s.Require().NoError(err)
	s.Equal("slow", report[0].Name)
	s.Equal("fast", report[1].Name)
}

func (s *PipelineSuite) TestPanicIsRecordedAsFailure() {
	steps := []Step[submission]{
		{Name: "broken", Run: func(context.Context, submission) error { panic("nil map") }},
	}

	report, err := s.runner.Run(s.ctx, steps, submission{})
	s.Require().NoError(err)
	s.Equal(StatusFailed, report[0].Status)
	s.Contains(report[0].Error, "nil map")
}

func (s *PipelineSuite) TestBestEffortStepsSurviveCancelledRequest() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	steps := []Step[submission]{
		{Name: "email", Run: func(ctx context.Context, _ submission) error { return ctx.Err() }},
	}

	report, err := s.runner.Run(ctx, steps, submission{})
	s.Require().NoError(err)
	s.Equal(StatusOK, report[0].Status)
}

func TestStepTimeoutIsClassified(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := NewRunner(logger, WithStepTimeout[int](10*time.Millisecond))
	steps := []Step[int]{
		{Name: "ghost", Run: func(ctx context.Context, _ int) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	}

	report, err := runner.Run(context.Background(), steps, 0)
	require.NoError(t, err)
	assert.Equal(t, integrations.CategoryTimeout, report[0].Category)
}
