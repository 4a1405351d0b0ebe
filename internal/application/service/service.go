// Package service validates membership applications and fans them out to
// the configured sinks.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"ecohubs/internal/application/models"
	"ecohubs/internal/application/schema"
	"ecohubs/internal/integrations"
	"ecohubs/internal/integrations/airtable"
	"ecohubs/internal/integrations/email"
	"ecohubs/internal/integrations/eventbus"
	"ecohubs/internal/pipeline"
	"ecohubs/pkg/requestcontext"
)

// Sink names, as they appear in reports and metrics.
const (
	SinkUpstream          = "ecohubsos"
	SinkAdminEmail        = "admin_email"
	SinkConfirmationEmail = "confirmation_email"
	SinkAirtable          = "airtable"
	SinkProposal          = "snapshot_proposal"
	SinkEventBus          = "eventbus"
)

const (
	DefaultAdminEmail = "admin@ecohubs.community"
	notConfigured     = "not configured"
	recentLimit       = 100
)

// Upstream accepts applications on behalf of the member platform.
type Upstream interface {
	SubmitApplication(ctx context.Context, answers map[string]any, submittedAt time.Time) error
}

// Mailer sends Markdown e-mail.
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// RecordStore keeps members and their applications.
type RecordStore interface {
	FindOrCreateMember(ctx context.Context, m airtable.Member) (string, error)
	CreateApplication(ctx context.Context, app airtable.NewApplication) (string, error)
}

// EventPublisher emits domain events.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event eventbus.Event) error
}

// SubmissionLog remembers submissions with their sink reports.
type SubmissionLog interface {
	Append(ctx context.Context, rec models.Record) error
	Recent(ctx context.Context, limit int) ([]models.Record, error)
}

// Service handles membership applications. Every dependency is optional;
// a missing one turns its sink into a skip.
type Service struct {
	schema     *schema.Schema
	upstream   Upstream
	mailer     Mailer
	records    RecordStore
	events     EventPublisher
	log        SubmissionLog
	adminEmail string
	runnerOpts []pipeline.Option[*models.Submission]
	runner     *pipeline.Runner[*models.Submission]
	logger     *slog.Logger
}

type Option func(*Service)

func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		s.upstream = u
	}
}

func WithMailer(m Mailer) Option {
	return func(s *Service) {
		s.mailer = m
	}
}

func WithRecordStore(r RecordStore) Option {
	return func(s *Service) {
		s.records = r
	}
}

func WithEvents(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func WithSubmissionLog(l SubmissionLog) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithAdminEmail sets the recipient of new-application notices.
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

// WithPipelineOptions forwards options to the sink runner.
func WithPipelineOptions(opts ...pipeline.Option[*models.Submission]) Option {
	return func(s *Service) {
		s.runnerOpts = append(s.runnerOpts, opts...)
	}
}

func New(sc *schema.Schema, opts ...Option) *Service {
	s := &Service{
		schema:     sc,
		adminEmail: DefaultAdminEmail,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.runner = pipeline.NewRunner[*models.Submission](s.logger, s.runnerOpts...)
	return s
}

// Schema returns the question schema.
func (s *Service) Schema() *schema.Schema {
	return s.schema
}

// Submit validates form and runs every sink. Validation failures return
// *models.ValidationError; upstream refusals return *models.RejectedError.
// Best-effort sink failures only show up in the result's report.
func (s *Service) Submit(ctx context.Context, form url.Values) (*models.SubmitResult, error) {
	answers, fieldErrs := s.schema.Validate(form)
	if len(fieldErrs) > 0 {
		return nil, &models.ValidationError{Fields: fieldErrs}
	}

	sub := &models.Submission{
		ID:          uuid.New(),
		Answers:     answers,
		SubmittedAt: requestcontext.Now(ctx),
		RequestID:   requestcontext.RequestID(ctx),
	}

	report, err := s.runner.Run(ctx, s.steps(), sub)
	if err != nil {
		var rejected *models.RejectedError
		if errors.As(err, &rejected) {
			return nil, rejected
		}
		return nil, models.Rejected(http.StatusInternalServerError, models.MsgUpstreamUnreachable, err)
	}

	s.logger.InfoContext(ctx, "application submitted",
		"request_id", sub.RequestID,
		"submission_id", sub.ID.String(),
		"failed_sinks", report.Failed(),
	)
	s.remember(ctx, sub, report)

	return &models.SubmitResult{
		Success:      true,
		SubmissionID: sub.ID.String(),
		Sinks:        report,
	}, nil
}

// Recent returns the newest submission log records.
func (s *Service) Recent(ctx context.Context, limit int) ([]models.Record, error) {
	if s.log == nil {
		return []models.Record{}, nil
	}
	if limit <= 0 || limit > recentLimit {
		limit = recentLimit
	}
	return s.log.Recent(ctx, limit)
}

func (s *Service) remember(ctx context.Context, sub *models.Submission, report pipeline.Report) {
	if s.log == nil {
		return
	}
	err := s.log.Append(context.WithoutCancel(ctx), models.Record{
		SubmissionID: sub.ID.String(),
		Email:        sub.Email(),
		FullName:     sub.FullName(),
		SubmittedAt:  sub.SubmittedAt,
		Report:       report,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to append submission log",
			"request_id", sub.RequestID,
			"submission_id", sub.ID.String(),
			"error", err,
		)
	}
}

func (s *Service) steps() []pipeline.Step[*models.Submission] {
	return []pipeline.Step[*models.Submission]{
		{Name: SinkUpstream, Blocking: true, Run: s.forwardUpstream},
		{Name: SinkAdminEmail, Run: s.notifyAdmin},
		{Name: SinkConfirmationEmail, Run: s.confirmApplicant},
		{Name: SinkAirtable, Run: s.storeRecord},
		{Name: SinkProposal, Run: createProposal},
		{Name: SinkEventBus, Run: s.publishEvent},
	}
}

func (s *Service) forwardUpstream(ctx context.Context, sub *models.Submission) error {
	if s.upstream == nil {
		return pipeline.Skip(notConfigured)
	}
	err := s.upstream.SubmitApplication(ctx, sub.Answers, sub.SubmittedAt)
	if err == nil {
		return nil
	}
	ie, ok := integrations.AsError(err)
	switch {
	case ok && ie.StatusCode == http.StatusTooManyRequests:
		return models.Rejected(http.StatusTooManyRequests, models.MsgTooManyApplications, err)
	case ok && ie.StatusCode != 0:
		msg := ie.Message
		if msg == "" || msg == http.StatusText(ie.StatusCode) {
			msg = models.MsgUpstreamFailed
		}
		return models.Rejected(ie.StatusCode, msg, err)
	default:
		return models.Rejected(http.StatusInternalServerError, models.MsgUpstreamUnreachable, err)
	}
}

func (s *Service) notifyAdmin(ctx context.Context, sub *models.Submission) error {
	if s.mailer == nil {
		return pipeline.Skip(notConfigured)
	}
	body, err := renderAdminNotice(s.schema, sub)
	if err != nil {
		return integrations.NewError(integrations.CategoryInternal, SinkAdminEmail, "render notice", err)
	}
	return s.mailer.Send(ctx, email.Message{
		To:       []string{s.adminEmail},
		ReplyTo:  sub.Email(),
		Subject:  "New Application: " + sub.FullName(),
		Markdown: body,
	})
}

func (s *Service) confirmApplicant(ctx context.Context, sub *models.Submission) error {
	if s.mailer == nil {
		return pipeline.Skip(notConfigured)
	}
	body, err := renderConfirmation(sub.FullName())
	if err != nil {
		return integrations.NewError(integrations.CategoryInternal, SinkConfirmationEmail, "render confirmation", err)
	}
	return s.mailer.Send(ctx, email.Message{
		To:       []string{sub.Email()},
		Subject:  "Application Received - EcoHubs Community",
		Markdown: body,
	})
}

func (s *Service) storeRecord(ctx context.Context, sub *models.Submission) error {
	if s.records == nil {
		return pipeline.Skip(notConfigured)
	}
	memberID, err := s.records.FindOrCreateMember(ctx, airtable.Member{
		Name:             sub.FullName(),
		Email:            sub.Email(),
		Location:         sub.Answers.String("location"),
		TimeAvailability: sub.Answers.String("timeAvailability"),
		Languages:        sub.Answers.String("languages"),
	})
	if err != nil {
		return err
	}
	_, err = s.records.CreateApplication(ctx, airtable.NewApplication{
		ApplicationID: sub.ID.String(),
		MemberID:      memberID,
		Answers:       columns(s.schema, sub.Answers),
		SubmittedAt:   sub.SubmittedAt,
	})
	return err
}

// createProposal never runs: Snapshot only accepts proposals signed by a
// space member's wallet, which the server does not hold.
func createProposal(context.Context, *models.Submission) error {
	return pipeline.Skip("proposals are created by space members")
}

func (s *Service) publishEvent(ctx context.Context, sub *models.Submission) error {
	if s.events == nil {
		return pipeline.Skip(notConfigured)
	}
	return s.events.Publish(ctx, sub.ID.String(), eventbus.Event{
		ID:         sub.ID.String(),
		Type:       eventbus.TypeApplicationSubmitted,
		OccurredAt: sub.SubmittedAt,
		RequestID:  sub.RequestID,
		Payload: map[string]any{
			"application_id": sub.ID.String(),
			"email":          sub.Email(),
			"full_name":      sub.FullName(),
			"answers":        sub.Answers,
		},
	})
}

// columns keys answers by their Airtable column. Multi-select answers are
// joined; scales stay numeric.
func columns(sc *schema.Schema, answers schema.Answers) map[string]any {
	out := make(map[string]any, len(answers))
	for _, f := range sc.Fields {
		if f.Column == "" {
			continue
		}
		v, ok := answers[f.Name]
		if !ok {
			continue
		}
		if n, isInt := v.(int); isInt {
			out[f.Column] = n
			continue
		}
		out[f.Column] = answers.String(f.Name)
	}
	return out
}
