package ghost

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecohubs/pkg/platform/sentinel"
)

const (
	testAdminKey  = "6489a3b1c2d3e4f5a6b7c8d9:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testAdminID   = "6489a3b1c2d3e4f5a6b7c8d9"
	testAdminHex  = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	testContentKy = "content-key"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{URL: srv.URL + "/", ContentKey: testContentKy, AdminKey: testAdminKey},
		srv.Client(), WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return c
}

func TestPublishedPostsQuery(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ghost/api/content/posts/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, testContentKy, q.Get("key"))
		assert.Equal(t, "all", q.Get("limit"))
		assert.Equal(t, "authors,tags", q.Get("include"))
		assert.Equal(t, "status:published", q.Get("filter"))
		assert.Equal(t, "v5.0", r.Header.Get("Accept-Version"))
		_, _ = w.Write([]byte(`{"posts":[{"id":"1","slug":"soil","title":"Soil"}]}`))
	})

	posts, err := c.PublishedPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "soil", posts[0].Slug)
}

func TestPostBySlugNotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ghost/api/content/posts/slug/missing/", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"message":"Resource not found","type":"NotFoundError"}]}`))
	})

	_, err := c.PostBySlug(context.Background(), "missing")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRelatedPostsExcludesCurrent(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "4", q.Get("limit"))
		assert.Equal(t, "status:published+tag:[regenerative-living,soil]", q.Get("filter"))
		_, _ = w.Write([]byte(`{"posts":[{"slug":"current"},{"slug":"a"},{"slug":"b"},{"slug":"c"}]}`))
	})

	posts, err := c.RelatedPosts(context.Background(), "current",
		[]Tag{{Name: "Regenerative Living"}, {Name: "Soil", Slug: "soil"}}, 3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "a", posts[0].Slug)
	assert.Equal(t, "c", posts[2].Slug)
}

func TestRelatedPostsWithoutTags(t *testing.T) {
	c := newClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	posts, err := c.RelatedPosts(context.Background(), "current", nil, 3)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestAdminRequestsCarrySignedToken(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ghost/api/admin/posts/", r.URL.Path)
		assert.Equal(t, "status:draft", r.URL.Query().Get("filter"))

		auth := r.Header.Get("Authorization")
		require.True(t, strings.HasPrefix(auth, "Ghost "))
		secret, _ := hex.DecodeString(testAdminHex)
		token, err := jwt.Parse(strings.TrimPrefix(auth, "Ghost "), func(tok *jwt.Token) (any, error) {
			assert.Equal(t, testAdminID, tok.Header["kid"])
			return secret, nil
		}, jwt.WithTimeFunc(func() time.Time { return fixedNow }), jwt.WithAudience("/admin/"))
		require.NoError(t, err)
		assert.True(t, token.Valid)

		_, _ = w.Write([]byte(`{"posts":[{"id":"d1","title":"Draft","status":"draft","custom_fields":{"snapshot_proposal_id":"0xp"}}]}`))
	})

	drafts, err := c.Drafts(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "0xp", drafts[0].ProposalID())
}

func TestPublishSendsStatusAndUpdatedAt(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/ghost/api/admin/posts/d1/", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		var body struct {
			Posts []map[string]any `json:"posts"`
		}
		require.NoError(t, json.Unmarshal(raw, &body))
		require.Len(t, body.Posts, 1)
		assert.Equal(t, "published", body.Posts[0]["status"])
		assert.Equal(t, "2026-05-01T00:00:00.000Z", body.Posts[0]["updated_at"])
		_, _ = w.Write([]byte(`{"posts":[{"id":"d1","status":"published"}]}`))
	})

	post, err := c.Publish(context.Background(), &Post{ID: "d1", UpdatedAt: "2026-05-01T00:00:00.000Z"})
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, post.Status)
}

func TestSetCustomFieldsMerges(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Posts []struct {
				CustomFields map[string]any `json:"custom_fields"`
			} `json:"posts"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"keep": "me", ProposalField: "0xnew"}, body.Posts[0].CustomFields)
		_, _ = w.Write([]byte(`{"posts":[{"id":"d1"}]}`))
	})

	_, err := c.SetCustomFields(context.Background(),
		&Post{ID: "d1", CustomFields: map[string]any{"keep": "me", ProposalField: "0xold"}},
		map[string]any{ProposalField: "0xnew"})
	require.NoError(t, err)
}

func TestNewConfiguration(t *testing.T) {
	_, err := New(Config{URL: "https://blog.example.org"}, http.DefaultClient)
	require.ErrorIs(t, err, sentinel.ErrNotConfigured)

	_, err = New(Config{URL: "https://blog.example.org", AdminKey: "nocolon"}, http.DefaultClient)
	require.ErrorIs(t, err, ErrInvalidAdminKey)

	c, err := New(Config{URL: "https://blog.example.org", ContentKey: "k"}, http.DefaultClient)
	require.NoError(t, err)
	assert.True(t, c.ContentEnabled())
	assert.False(t, c.AdminEnabled())

	_, err = c.Drafts(context.Background())
	require.ErrorIs(t, err, sentinel.ErrNotConfigured)
}
