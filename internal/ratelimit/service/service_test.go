package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"ecohubs/internal/ratelimit/metrics"
	"ecohubs/internal/ratelimit/models"
	"ecohubs/internal/ratelimit/store/window"
	dErrors "ecohubs/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	metrics *metrics.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	s.metrics = metrics.New(prometheus.NewRegistry())
	store := window.NewInMemoryStore(window.WithClock(func() time.Time { return s.now }))
	svc, err := New(store, models.DefaultPolicies(5, time.Minute), WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceSuite) TestNewsletterAllowsThreePerMinute() {
	for range 3 {
		s.True(s.service.Allow(s.ctx, models.ClassNewsletter, "198.51.100.1"))
	}
	s.False(s.service.Allow(s.ctx, models.ClassNewsletter, "198.51.100.1"))

	s.Equal(float64(3), testutil.ToFloat64(s.metrics.Decisions.WithLabelValues("newsletter", "allowed")))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Decisions.WithLabelValues("newsletter", "denied")))
}

func (s *ServiceSuite) TestClassesDoNotShareBudgets() {
	for range 5 {
		s.True(s.service.Allow(s.ctx, models.ClassAuth, "ip"))
	}
	s.False(s.service.Allow(s.ctx, models.ClassAuth, "ip"))
	s.True(s.service.Allow(s.ctx, models.ClassApplication, "ip"))
}

func (s *ServiceSuite) TestWindowResets() {
	for range 5 {
		s.service.Allow(s.ctx, models.ClassAuth, "ip")
	}
	s.now = s.now.Add(time.Minute)
	res, err := s.service.Check(s.ctx, models.ClassAuth, "ip")
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.Equal(4, res.Remaining)
}

func (s *ServiceSuite) TestUnknownClass() {
	_, err := s.service.Check(s.ctx, models.Class("bogus"), "ip")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestInvalidPolicyRejected() {
	_, err := New(window.NewInMemoryStore(), map[models.Class]models.Policy{
		models.ClassAuth: {Limit: 0, Window: time.Minute},
	})
	s.Error(err)
}
