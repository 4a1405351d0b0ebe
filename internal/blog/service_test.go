package blog

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Source

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ecohubs/internal/blog/mocks"
	"ecohubs/internal/integrations/ghost"
	dErrors "ecohubs/pkg/domain-errors"
	"ecohubs/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	source  *mocks.MockSource
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.source = mocks.NewMockSource(gomock.NewController(s.T()))
	s.service = New(s.source, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *ServiceSuite) TestPostsMapsAndSortsNewestFirst() {
	s.source.EXPECT().PublishedPosts(gomock.Any()).Return([]ghost.Post{
		{Slug: "old", Title: "Old", CustomExcerpt: "custom", PublishedAt: "2025-01-01T00:00:00Z", HTML: strings.Repeat("word ", 401)},
		{Slug: "new", Title: "New", MetaDescription: "meta", UpdatedAt: "2026-02-01T00:00:00Z", ReadingTime: 4,
			Authors: []ghost.Author{{Name: "Ada"}}, Tags: []ghost.Tag{{Name: "Governance", Slug: "governance"}}},
	}, nil)

	posts := s.service.Posts(s.ctx)
	s.Require().Len(posts, 2)

	s.Equal("new", posts[0].Slug)
	s.Equal("meta", posts[0].Excerpt)
	s.Equal("2026-02-01T00:00:00Z", posts[0].Date)
	s.Equal("Ada", posts[0].Author)
	s.Equal([]string{"Governance"}, posts[0].Tags)
	s.Equal(4, posts[0].ReadingTime)

	s.Equal("custom", posts[1].Excerpt)
	s.Equal(DefaultAuthor, posts[1].Author)
	s.Equal(3, posts[1].ReadingTime)
	s.Empty(posts[1].HTML)
}

func (s *ServiceSuite) TestPostsDegradeToEmpty() {
	s.source.EXPECT().PublishedPosts(gomock.Any()).Return(nil, errors.New("ghost down"))

	s.Empty(s.service.Posts(s.ctx))
	s.Empty(New(nil, slog.Default()).Posts(s.ctx))
}

func (s *ServiceSuite) TestPostWithRelated() {
	tags := []ghost.Tag{{Name: "Land", Slug: "land"}}
	s.source.EXPECT().PostBySlug(gomock.Any(), "hello").Return(&ghost.Post{Slug: "hello", Title: "Hello", HTML: "<p>hi</p>", Tags: tags}, nil)
	s.source.EXPECT().RelatedPosts(gomock.Any(), "hello", tags, 3).Return([]ghost.Post{{Slug: "other", Title: "Other"}}, nil)

	detail, err := s.service.Post(s.ctx, "hello")
	s.Require().NoError(err)
	s.Equal("<p>hi</p>", detail.Post.HTML)
	s.Equal(1, detail.Post.ReadingTime)
	s.Require().Len(detail.Related, 1)
	s.Equal("other", detail.Related[0].Slug)
}

func (s *ServiceSuite) TestPostNotFound() {
	s.source.EXPECT().PostBySlug(gomock.Any(), "missing").Return(nil, sentinel.ErrNotFound)

	_, err := s.service.Post(s.ctx, "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestPostSurvivesRelatedFailure() {
	s.source.EXPECT().PostBySlug(gomock.Any(), "hello").Return(&ghost.Post{Slug: "hello"}, nil)
	s.source.EXPECT().RelatedPosts(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

	detail, err := s.service.Post(s.ctx, "hello")
	s.Require().NoError(err)
	s.Empty(detail.Related)
}

func TestReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{401, 3},
	}
	for _, tc := range cases {
		content := strings.Repeat("w ", tc.words)
		if got := ReadingTime(content); got != tc.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}
