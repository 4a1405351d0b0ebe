// Package admin serves the Safe-owner admin area: the dashboard, the
// applications review list and the blog publication gate.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ecohubs/internal/admin/types"
	appModels "ecohubs/internal/application/models"
	authmw "ecohubs/internal/auth/middleware"
	authModel "ecohubs/internal/auth/models"
	"ecohubs/internal/integrations/airtable"
	"ecohubs/internal/integrations/ghost"
	dErrors "ecohubs/pkg/domain-errors"
	audit "ecohubs/pkg/platform/audit"
	"ecohubs/pkg/platform/sentinel"
)

const (
	DefaultSnapshotSpace = "ecohubs.eth"
	DefaultCacheTTL      = 5 * time.Minute
	submissionsLimit     = 100
	auditLimit           = 200
	draftLookups         = 4
	unknownAuthor        = "Unknown"
)

// OwnerDirectory lists the Safe owners allowed into the admin area.
type OwnerDirectory interface {
	ListAuthorized(ctx context.Context) []string
}

// ApplicationStore reads and annotates membership applications.
type ApplicationStore interface {
	ListApplications(ctx context.Context) ([]airtable.Application, error)
	UpdateProposalID(ctx context.Context, recordID, proposalID string) error
}

// DraftStore reads and publishes CMS drafts.
type DraftStore interface {
	Drafts(ctx context.Context) ([]ghost.Post, error)
	Draft(ctx context.Context, id string) (*ghost.Post, error)
	Publish(ctx context.Context, post *ghost.Post) (*ghost.Post, error)
	SetCustomFields(ctx context.Context, post *ghost.Post, fields map[string]any) (*ghost.Post, error)
}

// Governance resolves publication proposals.
type Governance interface {
	FindDraftProposal(ctx context.Context, title string) (string, error)
	ProposalState(ctx context.Context, id string) (*types.ProposalState, error)
}

// SubmissionLog exposes recent application submissions.
type SubmissionLog interface {
	Recent(ctx context.Context, limit int) ([]appModels.Record, error)
}

// Auditor records admin actions and serves the recent trail.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
	Recent(ctx context.Context, limit int) ([]audit.Event, error)
}

// Service implements the admin operations. Every dependency is optional; an
// operation whose dependency is missing fails with CodeUnavailable.
type Service struct {
	owners      OwnerDirectory
	apps        ApplicationStore
	drafts      DraftStore
	governance  Governance
	submissions SubmissionLog
	auditor     Auditor
	cache       *applicationsCache
	cacheTTL    time.Duration
	space       string
	appVoting   time.Duration
	blogVoting  time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*Service)

func WithOwners(owners OwnerDirectory) Option {
	return func(s *Service) {
		s.owners = owners
	}
}

// WithApplications sets the application store and how long its list is cached.
func WithApplications(apps ApplicationStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.apps = apps
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithDrafts(drafts DraftStore) Option {
	return func(s *Service) {
		s.drafts = drafts
	}
}

func WithGovernance(g Governance) Option {
	return func(s *Service) {
		s.governance = g
	}
}

func WithSubmissions(log SubmissionLog) Option {
	return func(s *Service) {
		s.submissions = log
	}
}

func WithAudit(a Auditor) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

// WithSnapshot sets the space name and the voting windows shown to admins
// drafting application and blog proposals.
func WithSnapshot(space string, applicationVoting, blogVoting time.Duration) Option {
	return func(s *Service) {
		if space != "" {
			s.space = space
		}
		s.appVoting = applicationVoting
		s.blogVoting = blogVoting
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL:   DefaultCacheTTL,
		space:      DefaultSnapshotSpace,
		appVoting:  7 * 24 * time.Hour,
		blogVoting: 2 * 24 * time.Hour,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.apps != nil {
		s.cache = &applicationsCache{
			store:  s.apps,
			ttl:    s.cacheTTL,
			now:    s.now,
			logger: s.logger,
		}
	}
	return s
}

// Dashboard summarizes the admin area for the signed-in owner.
func (s *Service) Dashboard(ctx context.Context, id *authModel.Identity) *DashboardResponse {
	resp := &DashboardResponse{}
	if id != nil {
		resp.User = UserInfo{Address: id.Address, IsOwner: id.IsOwner}
	}
	if s.owners != nil {
		resp.Stats.SafeOwnersCount = len(s.owners.ListAuthorized(ctx))
	}
	return resp
}

// Applications lists applications newest first. withoutProposal keeps only
// those not yet linked to a governance proposal.
func (s *Service) Applications(ctx context.Context, withoutProposal bool) (*ApplicationsResponse, error) {
	if s.cache == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "Airtable is not configured")
	}
	apps, err := s.cache.get(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to fetch applications")
	}
	if withoutProposal {
		kept := apps[:0]
		for _, app := range apps {
			if app.ProposalID == "" {
				kept = append(kept, app)
			}
		}
		apps = kept
	}
	return &ApplicationsResponse{
		Applications:   apps,
		SnapshotSpace:  s.space,
		VotingDuration: int64(s.appVoting.Seconds()),
	}, nil
}

// SetApplicationProposal links an application to its proposal and drops the
// cached list.
func (s *Service) SetApplicationProposal(ctx context.Context, req *ApplicationProposalRequest) error {
	if s.cache == nil {
		return dErrors.New(dErrors.CodeUnavailable, "Airtable is not configured")
	}
	if err := s.apps.UpdateProposalID(ctx, req.RecordID, req.ProposalID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "Failed to update proposal")
	}
	s.cache.invalidate()
	s.logger.InfoContext(ctx, "application proposal recorded",
		"record_id", req.RecordID,
		"proposal_id", req.ProposalID,
	)
	s.record(ctx, audit.EventApplicationProposalSet, req.RecordID, "granted", "proposal:"+req.ProposalID)
	return nil
}

// Drafts lists CMS drafts with the state of their publication proposals.
// A proposal that cannot be resolved leaves the draft at status none.
func (s *Service) Drafts(ctx context.Context) (*DraftsResponse, error) {
	if s.drafts == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "Ghost Admin API is not configured")
	}
	posts, err := s.drafts.Drafts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to fetch drafts")
	}

	drafts := make([]Draft, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(draftLookups)
	for i := range posts {
		drafts[i] = toDraft(&posts[i])
		g.Go(func() error {
			s.enrich(gctx, &posts[i], &drafts[i])
			return nil
		})
	}
	_ = g.Wait()

	return &DraftsResponse{
		Drafts:         drafts,
		SnapshotSpace:  s.space,
		VotingDuration: int64(s.blogVoting.Seconds()),
	}, nil
}

func (s *Service) enrich(ctx context.Context, post *ghost.Post, d *Draft) {
	id, err := s.proposalFor(ctx, post)
	if err != nil {
		s.logger.WarnContext(ctx, "draft proposal lookup failed",
			"draft_id", post.ID,
			"error", err,
		)
		return
	}
	if id == "" {
		return
	}
	d.ProposalID = &id
	if s.governance == nil {
		return
	}
	state, err := s.governance.ProposalState(ctx, id)
	if err != nil {
		s.logger.WarnContext(ctx, "draft proposal state unavailable",
			"draft_id", post.ID,
			"proposal_id", id,
			"error", err,
		)
		return
	}
	d.ProposalStatus = state.Status
	d.IsApproved = state.Approved
	d.ProposalEnd = state.End
	d.ProposalURL = state.URL
}

// proposalFor prefers the id recorded on the draft and falls back to a title
// search in the governance space.
func (s *Service) proposalFor(ctx context.Context, post *ghost.Post) (string, error) {
	if id := post.ProposalID(); id != "" {
		return id, nil
	}
	if s.governance == nil {
		return "", nil
	}
	return s.governance.FindDraftProposal(ctx, post.Title)
}

// PublishDraft publishes a draft whose proposal has closed with approval.
func (s *Service) PublishDraft(ctx context.Context, id string) error {
	if s.drafts == nil {
		return dErrors.New(dErrors.CodeUnavailable, "Ghost Admin API is not configured")
	}
	post, err := s.draft(ctx, id)
	if err != nil {
		return err
	}

	proposalID, err := s.publicationGate(ctx, post)
	if err != nil {
		if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
			s.record(ctx, audit.EventDraftPublishRefused, post.ID, "denied", de.Message)
		}
		return err
	}

	if _, err := s.drafts.Publish(ctx, post); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "Failed to publish draft")
	}
	s.logger.InfoContext(ctx, "draft published",
		"draft_id", post.ID,
		"proposal_id", proposalID,
	)
	s.record(ctx, audit.EventDraftPublished, post.ID, "granted", "proposal:"+proposalID)
	return nil
}

// publicationGate returns the draft's proposal id when that proposal has
// closed with approval.
func (s *Service) publicationGate(ctx context.Context, post *ghost.Post) (string, error) {
	proposalID, err := s.proposalFor(ctx, post)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "Failed to check proposal")
	}
	if proposalID == "" || s.governance == nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "No Snapshot proposal found for this draft")
	}
	state, err := s.governance.ProposalState(ctx, proposalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeBadRequest, "No Snapshot proposal found for this draft")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "Failed to check proposal")
	}
	if !state.Closed() {
		return "", dErrors.New(dErrors.CodeBadRequest, "Proposal voting is still active")
	}
	if !state.Approved {
		return "", dErrors.New(dErrors.CodeForbidden, "Proposal was not approved")
	}
	return proposalID, nil
}

// SetDraftProposal records the publication proposal on a draft.
func (s *Service) SetDraftProposal(ctx context.Context, id string, req *DraftProposalRequest) error {
	if s.drafts == nil {
		return dErrors.New(dErrors.CodeUnavailable, "Ghost Admin API is not configured")
	}
	post, err := s.draft(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.drafts.SetCustomFields(ctx, post, map[string]any{ghost.ProposalField: req.ProposalID}); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "Failed to save proposal ID")
	}
	s.record(ctx, audit.EventDraftProposalSet, post.ID, "granted", "proposal:"+req.ProposalID)
	return nil
}

// Submissions returns the newest submission log records.
func (s *Service) Submissions(ctx context.Context) ([]appModels.Record, error) {
	if s.submissions == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "Submission log is not configured")
	}
	records, err := s.submissions.Recent(ctx, submissionsLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to read submissions")
	}
	return records, nil
}

// AuditTrail returns the most recent admin audit events, newest first.
func (s *Service) AuditTrail(ctx context.Context) ([]audit.Event, error) {
	if s.auditor == nil {
		return nil, dErrors.New(dErrors.CodeUnavailable, "Audit log is not configured")
	}
	events, err := s.auditor.Recent(ctx, auditLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to read audit log")
	}
	return events, nil
}

// record emits an audit event attributed to the signed-in owner. Failures
// are logged and never fail the admin action.
func (s *Service) record(ctx context.Context, action audit.AuditEvent, subject, decision, reason string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Subject:  subject,
		Action:   string(action),
		Decision: decision,
		Reason:   reason,
	}
	if id := authmw.GetIdentity(ctx); id != nil {
		event.ActorID = id.Address
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to record admin audit event",
			"action", action,
			"error", err,
		)
	}
}

func (s *Service) draft(ctx context.Context, id string) (*ghost.Post, error) {
	post, err := s.drafts.Draft(ctx, id)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.New(dErrors.CodeNotFound, "Draft not found")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "Failed to fetch draft")
	}
	return post, nil
}

func toDraft(p *ghost.Post) Draft {
	author := unknownAuthor
	if len(p.Authors) > 0 && p.Authors[0].Name != "" {
		author = p.Authors[0].Name
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
	}
	return Draft{
		ID:             p.ID,
		Slug:           p.Slug,
		Title:          p.Title,
		Excerpt:        strings.TrimSpace(firstNonEmpty(p.CustomExcerpt, p.Excerpt)),
		Author:         author,
		UpdatedAt:      p.UpdatedAt,
		Tags:           tags,
		ProposalStatus: types.ProposalNone,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
