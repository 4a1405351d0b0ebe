package ghost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/platform/sentinel"
)

const (
	integrationName = "ghost"
	acceptVersion   = "v5.0"
	include         = "authors,tags"
)

type Config struct {
	URL        string
	ContentKey string
	AdminKey   string
}

// Client covers both APIs. Either half may be disabled: content calls need
// the content key, admin calls the admin key.
type Client struct {
	http       integrations.Doer
	baseURL    string
	contentKey string
	admin      *adminKey
	now        func() time.Time
}

type Option func(*Client)

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func New(cfg Config, doer integrations.Doer, opts ...Option) (*Client, error) {
	if cfg.URL == "" || (cfg.ContentKey == "" && cfg.AdminKey == "") {
		return nil, sentinel.ErrNotConfigured
	}
	c := &Client{
		http:       doer,
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		contentKey: cfg.ContentKey,
		now:        time.Now,
	}
	if cfg.AdminKey != "" {
		key, err := parseAdminKey(cfg.AdminKey)
		if err != nil {
			return nil, err
		}
		c.admin = &key
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) ContentEnabled() bool { return c.contentKey != "" }
func (c *Client) AdminEnabled() bool   { return c.admin != nil }

// PublishedPosts returns every published post with authors and tags.
func (c *Client) PublishedPosts(ctx context.Context) ([]Post, error) {
	return c.browseContent(ctx, "all", "status:published")
}

// PostBySlug returns one published post or sentinel.ErrNotFound.
func (c *Client) PostBySlug(ctx context.Context, slug string) (*Post, error) {
	if !c.ContentEnabled() {
		return nil, sentinel.ErrNotConfigured
	}
	params := url.Values{"key": {c.contentKey}, "include": {include}}
	var env postsEnvelope
	err := c.do(ctx, http.MethodGet, c.contentURL("posts/slug/"+url.PathEscape(slug)+"/", params), "", nil, &env)
	if err != nil {
		return nil, notFound(err)
	}
	if len(env.Posts) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &env.Posts[0], nil
}

// RelatedPosts returns up to limit published posts sharing a tag with the
// given post, excluding the post itself.
func (c *Client) RelatedPosts(ctx context.Context, slug string, tags []Tag, limit int) ([]Post, error) {
	if len(tags) == 0 || limit <= 0 {
		return nil, nil
	}
	slugs := make([]string, 0, len(tags))
	for _, t := range tags {
		s := t.Slug
		if s == "" {
			s = strings.Join(strings.Fields(strings.ToLower(t.Name)), "-")
		}
		slugs = append(slugs, s)
	}
	posts, err := c.browseContent(ctx, fmt.Sprint(limit+1), "status:published+tag:["+strings.Join(slugs, ",")+"]")
	if err != nil {
		return nil, err
	}
	related := make([]Post, 0, limit)
	for _, p := range posts {
		if p.Slug == slug {
			continue
		}
		related = append(related, p)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}

// Drafts lists draft posts through the Admin API.
func (c *Client) Drafts(ctx context.Context) ([]Post, error) {
	params := url.Values{"limit": {"all"}, "include": {include}, "filter": {"status:draft"}, "formats": {"html"}}
	var env postsEnvelope
	if err := c.doAdmin(ctx, http.MethodGet, c.adminURL("posts/", params), nil, &env); err != nil {
		return nil, err
	}
	return env.Posts, nil
}

// Draft reads one post by id through the Admin API.
func (c *Client) Draft(ctx context.Context, id string) (*Post, error) {
	params := url.Values{"include": {include}, "formats": {"html"}}
	var env postsEnvelope
	if err := c.doAdmin(ctx, http.MethodGet, c.adminURL("posts/"+url.PathEscape(id)+"/", params), nil, &env); err != nil {
		return nil, notFound(err)
	}
	if len(env.Posts) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return &env.Posts[0], nil
}

// Publish flips a draft to published. Ghost requires the current
// updated_at for collision detection.
func (c *Client) Publish(ctx context.Context, post *Post) (*Post, error) {
	return c.edit(ctx, post.ID, map[string]any{
		"status":     StatusPublished,
		"updated_at": post.UpdatedAt,
	})
}

// SetCustomFields merges fields into the post's custom fields.
func (c *Client) SetCustomFields(ctx context.Context, post *Post, fields map[string]any) (*Post, error) {
	merged := make(map[string]any, len(post.CustomFields)+len(fields))
	for k, v := range post.CustomFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return c.edit(ctx, post.ID, map[string]any{
		"custom_fields": merged,
		"updated_at":    post.UpdatedAt,
	})
}

func (c *Client) edit(ctx context.Context, id string, changes map[string]any) (*Post, error) {
	params := url.Values{"include": {include}}
	body := map[string]any{"posts": []map[string]any{changes}}
	var env postsEnvelope
	if err := c.doAdmin(ctx, http.MethodPut, c.adminURL("posts/"+url.PathEscape(id)+"/", params), body, &env); err != nil {
		return nil, notFound(err)
	}
	if len(env.Posts) == 0 {
		return nil, integrations.NewError(integrations.CategoryBadData, integrationName, "edit returned no post", nil)
	}
	return &env.Posts[0], nil
}

func (c *Client) browseContent(ctx context.Context, limit, filter string) ([]Post, error) {
	if !c.ContentEnabled() {
		return nil, sentinel.ErrNotConfigured
	}
	params := url.Values{"key": {c.contentKey}, "limit": {limit}, "include": {include}, "filter": {filter}}
	var env postsEnvelope
	if err := c.do(ctx, http.MethodGet, c.contentURL("posts/", params), "", nil, &env); err != nil {
		return nil, err
	}
	return env.Posts, nil
}

func (c *Client) doAdmin(ctx context.Context, method, target string, body, out any) error {
	if c.admin == nil {
		return sentinel.ErrNotConfigured
	}
	token, err := c.admin.sign(c.now())
	if err != nil {
		return integrations.NewError(integrations.CategoryInternal, integrationName, "sign admin token", err)
	}
	return c.do(ctx, method, target, "Ghost "+token, body, out)
}

func (c *Client) do(ctx context.Context, method, target, authorization string, body, out any) error {
	header := http.Header{"Accept-Version": {acceptVersion}}
	if authorization != "" {
		header.Set("Authorization", authorization)
	}
	return integrations.DoJSON(ctx, c.http, integrationName, integrations.Request{
		Method: method,
		URL:    target,
		Header: header,
		Body:   body,
	}, out)
}

func (c *Client) contentURL(path string, params url.Values) string {
	return c.baseURL + "/ghost/api/content/" + path + "?" + params.Encode()
}

func (c *Client) adminURL(path string, params url.Values) string {
	return c.baseURL + "/ghost/api/admin/" + path + "?" + params.Encode()
}

// notFound maps an upstream 404 to sentinel.ErrNotFound.
func notFound(err error) error {
	if integrations.IsStatus(err, http.StatusNotFound) {
		return errors.Join(sentinel.ErrNotFound, err)
	}
	return err
}
