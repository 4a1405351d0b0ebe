package blog

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ecohubs/pkg/platform/httputil"
	"ecohubs/pkg/requestcontext"
)

// Reader is the blog surface the handler serves.
type Reader interface {
	Posts(ctx context.Context) []Post
	Post(ctx context.Context, slug string) (*Detail, error)
}

// PostsResponse lists posts.
type PostsResponse struct {
	Posts []Post `json:"posts"`
}

type Handler struct {
	service Reader
	siteURL string
	logger  *slog.Logger
}

func NewHandler(service Reader, siteURL string, logger *slog.Logger) *Handler {
	return &Handler{service: service, siteURL: siteURL, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/blog", h.HandleList)
	r.Get("/api/blog/{slug}", h.HandlePost)
	r.Get("/feed.xml", h.HandleFeed)
}

// HandleList handles GET /api/blog.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, PostsResponse{Posts: h.service.Posts(r.Context())})
}

// HandlePost handles GET /api/blog/{slug}.
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	detail, err := h.service.Post(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		h.logger.InfoContext(ctx, "blog post unavailable",
			"request_id", requestcontext.RequestID(ctx),
			"slug", chi.URLParam(r, "slug"),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail)
}

// HandleFeed handles GET /feed.xml.
func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := Feed(h.siteURL, h.service.Posts(ctx), requestcontext.Now(ctx))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render feed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(body)
}
