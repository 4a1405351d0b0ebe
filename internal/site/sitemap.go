// Package site serves site-wide documents such as the sitemap.
package site

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ecohubs/internal/blog"
	"ecohubs/pkg/requestcontext"
)

type route struct {
	path       string
	priority   string
	changefreq string
}

var staticRoutes = []route{
	{"", "1.0", "weekly"},
	{"/vision", "0.9", "monthly"},
	{"/dao", "0.8", "monthly"},
	{"/ecotoken", "0.8", "monthly"},
	{"/blueprint", "0.8", "monthly"},
	{"/join", "0.9", "monthly"},
	{"/contact", "0.7", "yearly"},
	{"/about", "0.8", "monthly"},
	{"/blog", "0.8", "weekly"},
}

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Posts lists published blog posts.
type Posts interface {
	Posts(ctx context.Context) []blog.Post
}

type Handler struct {
	posts   Posts
	siteURL string
	logger  *slog.Logger
}

func NewHandler(posts Posts, siteURL string, logger *slog.Logger) *Handler {
	return &Handler{posts: posts, siteURL: strings.TrimRight(siteURL, "/"), logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/sitemap.xml", h.HandleSitemap)
}

// Sitemap builds the document: static pages first, then blog posts.
func (h *Handler) Sitemap(ctx context.Context) ([]byte, error) {
	today := requestcontext.Now(ctx).UTC().Format(time.DateOnly)
	doc := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, r := range staticRoutes {
		doc.URLs = append(doc.URLs, entry{Loc: h.siteURL + r.path, LastMod: today, ChangeFreq: r.changefreq, Priority: r.priority})
	}
	if h.posts != nil {
		for _, p := range h.posts.Posts(ctx) {
			lastMod := today
			if at := p.Published(); !at.IsZero() {
				lastMod = at.UTC().Format(time.DateOnly)
			}
			doc.URLs = append(doc.URLs, entry{Loc: h.siteURL + "/blog/" + p.Slug, LastMod: lastMod, ChangeFreq: "monthly", Priority: "0.6"})
		}
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// HandleSitemap handles GET /sitemap.xml.
func (h *Handler) HandleSitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := h.Sitemap(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to render sitemap",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}
