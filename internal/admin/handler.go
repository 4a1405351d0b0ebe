package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appModels "ecohubs/internal/application/models"
	authmw "ecohubs/internal/auth/middleware"
	authModel "ecohubs/internal/auth/models"
	audit "ecohubs/pkg/platform/audit"
	"ecohubs/pkg/platform/httputil"
	"ecohubs/pkg/requestcontext"
)

// AdminService defines the admin operations the handler needs.
type AdminService interface {
	Dashboard(ctx context.Context, id *authModel.Identity) *DashboardResponse
	Applications(ctx context.Context, withoutProposal bool) (*ApplicationsResponse, error)
	SetApplicationProposal(ctx context.Context, req *ApplicationProposalRequest) error
	Drafts(ctx context.Context) (*DraftsResponse, error)
	PublishDraft(ctx context.Context, id string) error
	SetDraftProposal(ctx context.Context, id string, req *DraftProposalRequest) error
	Submissions(ctx context.Context) ([]appModels.Record, error)
	AuditTrail(ctx context.Context) ([]audit.Event, error)
}

// Handler serves the admin area. Every route expects the session gate to
// have run.
type Handler struct {
	service AdminService
	logger  *slog.Logger
}

func NewHandler(service AdminService, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the admin routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin", h.HandleDashboard)
	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/applications", h.HandleApplications)
		r.Post("/applications/proposal", h.HandleApplicationProposal)
		r.Get("/blog/drafts", h.HandleDrafts)
		r.Post("/blog/drafts/{id}/publish", h.HandlePublishDraft)
		r.Post("/blog/drafts/{id}/proposal", h.HandleDraftProposal)
		r.Get("/submissions", h.HandleSubmissions)
		r.Get("/audit", h.HandleAudit)
	})
}

// HandleDashboard handles GET /admin.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	httputil.WriteJSON(w, http.StatusOK, h.service.Dashboard(ctx, authmw.GetIdentity(ctx)))
}

// HandleApplications handles GET /api/admin/applications.
func (h *Handler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	withoutProposal, _ := strconv.ParseBool(r.URL.Query().Get("without_proposal"))

	res, err := h.service.Applications(ctx, withoutProposal)
	if err != nil {
		h.fail(ctx, w, "failed to list applications", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleApplicationProposal handles POST /api/admin/applications/proposal.
func (h *Handler) HandleApplicationProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ApplicationProposalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.SetApplicationProposal(ctx, req); err != nil {
		h.fail(ctx, w, "failed to record application proposal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Success: true})
}

// HandleDrafts handles GET /api/admin/blog/drafts.
func (h *Handler) HandleDrafts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.Drafts(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to list drafts", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandlePublishDraft handles POST /api/admin/blog/drafts/{id}/publish.
func (h *Handler) HandlePublishDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.PublishDraft(ctx, chi.URLParam(r, "id")); err != nil {
		h.fail(ctx, w, "draft publication refused", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Success: true, Message: "Draft published successfully"})
}

// HandleDraftProposal handles POST /api/admin/blog/drafts/{id}/proposal.
func (h *Handler) HandleDraftProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[DraftProposalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.SetDraftProposal(ctx, chi.URLParam(r, "id"), req); err != nil {
		h.fail(ctx, w, "failed to record draft proposal", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ResultResponse{Success: true, Message: "Proposal ID saved"})
}

// HandleSubmissions handles GET /api/admin/submissions.
func (h *Handler) HandleSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	records, err := h.service.Submissions(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to read submissions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, appModels.SubmissionsResponse{Submissions: records})
}

// HandleAudit handles GET /api/admin/audit.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	events, err := h.service.AuditTrail(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to read audit log", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuditResponse{Events: events})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
