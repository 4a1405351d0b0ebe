// Package blog serves published posts from the CMS as JSON and RSS.
package blog

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"ecohubs/internal/integrations/ghost"
	dErrors "ecohubs/pkg/domain-errors"
	"ecohubs/pkg/platform/sentinel"
	"ecohubs/pkg/requestcontext"
)

const (
	DefaultAuthor  = "EcoHubs Team"
	wordsPerMinute = 200
	relatedLimit   = 3
)

// Source reads published posts.
type Source interface {
	PublishedPosts(ctx context.Context) ([]ghost.Post, error)
	PostBySlug(ctx context.Context, slug string) (*ghost.Post, error)
	RelatedPosts(ctx context.Context, slug string, tags []ghost.Tag, limit int) ([]ghost.Post, error)
}

// Post is the public shape of a blog post.
type Post struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Excerpt     string   `json:"excerpt"`
	Date        string   `json:"date"`
	Author      string   `json:"author"`
	Image       string   `json:"image,omitempty"`
	Tags        []string `json:"tags"`
	ReadingTime int      `json:"readingTime"`
	HTML        string   `json:"html,omitempty"`
}

// Published parses Date, returning the zero time when it is not RFC 3339.
func (p Post) Published() time.Time {
	t, _ := time.Parse(time.RFC3339, p.Date)
	return t
}

// Detail is a single post with related reading.
type Detail struct {
	Post    Post   `json:"post"`
	Related []Post `json:"related"`
}

type Service struct {
	source Source
	logger *slog.Logger
}

// New returns the blog service. A nil source serves an empty blog.
func New(source Source, logger *slog.Logger) *Service {
	return &Service{source: source, logger: logger}
}

// Posts returns published posts, newest first. CMS failures degrade to an
// empty list.
func (s *Service) Posts(ctx context.Context) []Post {
	if s.source == nil {
		return []Post{}
	}
	raw, err := s.source.PublishedPosts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list blog posts",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return []Post{}
	}
	posts := make([]Post, 0, len(raw))
	for i := range raw {
		p := fromGhost(&raw[i])
		p.HTML = ""
		posts = append(posts, p)
	}
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.Published().Compare(a.Published())
	})
	return posts
}

// Post returns one post with up to three related posts.
func (s *Service) Post(ctx context.Context, slug string) (*Detail, error) {
	if s.source == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "Post not found")
	}
	raw, err := s.source.PostBySlug(ctx, slug)
	switch {
	case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrNotConfigured):
		return nil, dErrors.New(dErrors.CodeNotFound, "Post not found")
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "blog temporarily unavailable")
	}

	detail := &Detail{Post: fromGhost(raw), Related: []Post{}}
	related, err := s.source.RelatedPosts(ctx, raw.Slug, raw.Tags, relatedLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load related posts",
			"request_id", requestcontext.RequestID(ctx),
			"slug", slug,
			"error", err,
		)
		return detail, nil
	}
	for i := range related {
		p := fromGhost(&related[i])
		p.HTML = ""
		detail.Related = append(detail.Related, p)
	}
	return detail, nil
}

func fromGhost(g *ghost.Post) Post {
	p := Post{
		Slug:        g.Slug,
		Title:       g.Title,
		Excerpt:     firstNonEmpty(g.Excerpt, g.CustomExcerpt, g.MetaDescription),
		Date:        firstNonEmpty(g.PublishedAt, g.UpdatedAt),
		Author:      DefaultAuthor,
		Image:       g.FeatureImage,
		Tags:        make([]string, 0, len(g.Tags)),
		ReadingTime: g.ReadingTime,
		HTML:        g.HTML,
	}
	if len(g.Authors) > 0 && g.Authors[0].Name != "" {
		p.Author = g.Authors[0].Name
	}
	for _, t := range g.Tags {
		p.Tags = append(p.Tags, t.Name)
	}
	if p.ReadingTime == 0 {
		p.ReadingTime = ReadingTime(g.HTML)
	}
	return p
}

// ReadingTime estimates minutes at 200 words per minute, never less than one.
func ReadingTime(content string) int {
	words := max(len(strings.Fields(content)), 1)
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
