package services

import (
	"errors"
	"testing"

	"conduit-cms/models"

	"github.com/stretchr/testify/suite"
)

type ArticleServiceSuite struct {
	ServiceSuite
}

func TestArticleServiceSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceSuite))
}

func (s *ArticleServiceSuite) TestCreateArticle() {
	alice := s.createUser("alice", models.RoleWriter)
	bob := s.createUser("bob", models.RoleWriter)

	article, err := s.articles.CreateArticle(alice.ID, models.CreateArticleRequest{
		Title:     "  Hello, World!  ",
		Body:      "content",
		TagList:   []string{"go", "go", " news "},
		CoAuthors: []string{bob.Email, "nobody@example.com"},
	})
	s.Require().NoError(err)

	s.Equal("Hello, World!", article.Title)
	s.Regexp(`^hello-world-[0-9a-f]{8}$`, article.Slug)
	s.ElementsMatch([]string{"go", "news"}, article.TagList)
	s.Equal("alice", article.Author.Username)
	s.Require().Len(article.Coauthors, 1)
	s.Equal("bob", article.Coauthors[0].Username)
	s.False(article.IsLocked)
	s.Zero(article.FavoritesCount)
}

func (s *ArticleServiceSuite) TestGetArticleNotFound() {
	_, err := s.articles.GetArticle(0, "missing")
	var notFound models.ErrorNotFound
	s.True(errors.As(err, &notFound))
}

func (s *ArticleServiceSuite) TestFavoriteIsIdempotent() {
	alice := s.createUser("alice", models.RoleWriter)
	bob := s.createUser("bob", models.RoleWriter)
	carol := s.createUser("carol", models.RoleWriter)
	article := s.createArticle(alice, "Liked")

	res, err := s.articles.Favorite(bob.ID, article.Slug)
	s.Require().NoError(err)
	s.True(res.Favorited)
	s.Equal(1, res.FavoritesCount)

	res, err = s.articles.Favorite(bob.ID, article.Slug)
	s.Require().NoError(err)
	s.Equal(1, res.FavoritesCount)

	res, err = s.articles.Favorite(carol.ID, article.Slug)
	s.Require().NoError(err)
	s.Equal(2, res.FavoritesCount)

	res, err = s.articles.Unfavorite(bob.ID, article.Slug)
	s.Require().NoError(err)
	s.False(res.Favorited)
	s.Equal(1, res.FavoritesCount)

	res, err = s.articles.Unfavorite(bob.ID, article.Slug)
	s.Require().NoError(err)
	s.Equal(1, res.FavoritesCount)

	var rows int64
	s.Require().NoError(s.db.Model(&models.Favorite{}).Count(&rows).Error)
	s.Equal(int64(res.FavoritesCount), rows)
}

func (s *ArticleServiceSuite) TestUpdateArticle() {
	alice := s.createUser("alice", models.RoleWriter)
	bob := s.createUser("bob", models.RoleWriter)
	s.createUser("carol", models.RoleWriter)
	article := s.createArticle(alice, "Draft", bob.Email)

	title := "Final"
	tags := []string{"release"}
	coauthors := []string{"carol@example.com"}
	updated, err := s.articles.UpdateArticle(bob.ID, article.Slug, models.UpdateArticleRequest{
		Title:     &title,
		TagList:   &tags,
		CoAuthors: &coauthors,
	})
	s.Require().NoError(err)

	s.Equal("Final", updated.Title)
	s.Equal(article.Slug, updated.Slug)
	s.Equal(article.Body, updated.Body)
	s.Equal([]string{"release"}, updated.TagList)
	s.Require().Len(updated.Coauthors, 1)
	s.Equal("carol", updated.Coauthors[0].Username)
}

func (s *ArticleServiceSuite) TestUpdateArticleRequiresAuthorship() {
	alice := s.createUser("alice", models.RoleWriter)
	mallory := s.createUser("mallory", models.RoleWriter)
	article := s.createArticle(alice, "Guarded")

	body := "defaced"
	_, err := s.articles.UpdateArticle(mallory.ID, article.Slug, models.UpdateArticleRequest{Body: &body})
	var forbidden models.ErrorForbidden
	s.True(errors.As(err, &forbidden))
	s.Equal(article.Body, s.loadArticle(article.Slug).Body)
}

func (s *ArticleServiceSuite) TestUpdateByHolderKeepsLock() {
	alice := s.createUser("alice", models.RoleWriter)
	article := s.createArticle(alice, "Holder")

	_, err := s.locks.LockArticle(alice.ID, article.Slug)
	s.Require().NoError(err)

	body := "edited under lock"
	updated, err := s.articles.UpdateArticle(alice.ID, article.Slug, models.UpdateArticleRequest{Body: &body})
	s.Require().NoError(err)
	s.Equal(body, updated.Body)
	s.True(updated.IsLocked)
	s.assertLockConsistent(article.Slug)
}

func (s *ArticleServiceSuite) TestDeleteArticle() {
	alice := s.createUser("alice", models.RoleWriter)
	bob := s.createUser("bob", models.RoleWriter)
	article := s.createArticle(alice, "Doomed", bob.Email)

	_, err := s.articles.Favorite(bob.ID, article.Slug)
	s.Require().NoError(err)
	_, err = s.comments.AddComment(bob.ID, article.Slug, models.CreateCommentRequest{Body: "nice"})
	s.Require().NoError(err)

	err = s.articles.DeleteArticle(bob.ID, article.Slug)
	var forbidden models.ErrorForbidden
	s.Require().True(errors.As(err, &forbidden))

	s.Require().NoError(s.articles.DeleteArticle(alice.ID, article.Slug))

	_, err = s.articles.GetArticle(alice.ID, article.Slug)
	var notFound models.ErrorNotFound
	s.True(errors.As(err, &notFound))

	for _, model := range []interface{}{&models.Favorite{}, &models.Comment{}, &models.ArticleCoauthor{}} {
		var count int64
		s.Require().NoError(s.db.Model(model).Count(&count).Error)
		s.Zero(count)
	}
}

func (s *ArticleServiceSuite) TestAdminCanDelete() {
	alice := s.createUser("alice", models.RoleWriter)
	root := s.createUser("root", models.RoleAdmin)
	article := s.createArticle(alice, "Moderated")

	s.NoError(s.articles.DeleteArticle(root.ID, article.Slug))
}

func (s *ArticleServiceSuite) TestListFilters() {
	alice := s.createUser("alice", models.RoleWriter)
	bob := s.createUser("bob", models.RoleWriter)

	goPost := s.createArticle(alice, "Go post")
	_, err := s.articles.CreateArticle(bob.ID, models.CreateArticleRequest{
		Title: "Rust post", Body: "b", TagList: []string{"rust"},
	})
	s.Require().NoError(err)
	_, err = s.articles.Favorite(bob.ID, goPost.Slug)
	s.Require().NoError(err)

	all, err := s.articles.GetArticles(0, models.ArticleListParams{})
	s.Require().NoError(err)
	s.Equal(int64(2), all.ArticlesCount)

	byTag, err := s.articles.GetArticles(0, models.ArticleListParams{Tag: "rust"})
	s.Require().NoError(err)
	s.Require().Len(byTag.Articles, 1)
	s.Equal("Rust post", byTag.Articles[0].Title)

	byAuthor, err := s.articles.GetArticles(0, models.ArticleListParams{Author: "alice"})
	s.Require().NoError(err)
	s.Require().Len(byAuthor.Articles, 1)
	s.Equal(goPost.Slug, byAuthor.Articles[0].Slug)

	byFavorite, err := s.articles.GetArticles(bob.ID, models.ArticleListParams{Favorited: "bob"})
	s.Require().NoError(err)
	s.Require().Len(byFavorite.Articles, 1)
	s.True(byFavorite.Articles[0].Favorited)

	page, err := s.articles.GetArticles(0, models.ArticleListParams{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Len(page.Articles, 1)
	s.Equal(int64(2), page.ArticlesCount)
}

func (s *ArticleServiceSuite) TestFeedShowsFollowedAuthors() {
	alice := s.createUser("alice", models.RoleWriter)
	bob := s.createUser("bob", models.RoleWriter)
	reader := s.createUser("reader", models.RoleWriter)
	s.createArticle(alice, "From alice")
	s.createArticle(bob, "From bob")

	feed, err := s.articles.GetFeed(reader.ID, models.ArticleListParams{})
	s.Require().NoError(err)
	s.Empty(feed.Articles)

	_, err = s.profiles.Follow(reader.ID, "alice")
	s.Require().NoError(err)

	feed, err = s.articles.GetFeed(reader.ID, models.ArticleListParams{})
	s.Require().NoError(err)
	s.Require().Len(feed.Articles, 1)
	s.Equal("From alice", feed.Articles[0].Title)
	s.True(feed.Articles[0].Author.Following)
}

func (s *ArticleServiceSuite) TestTagsTrackUsage() {
	alice := s.createUser("alice", models.RoleWriter)
	s.createArticle(alice, "First")
	s.createArticle(alice, "Second")
	_, err := s.articles.CreateArticle(alice.ID, models.CreateArticleRequest{
		Title: "Third", Body: "b", TagList: []string{"misc"},
	})
	s.Require().NoError(err)

	tags, err := s.tags.GetTags()
	s.Require().NoError(err)
	s.Equal([]string{"go", "misc"}, tags)

	var goTag models.Tag
	s.Require().NoError(s.db.Where("name = ?", "go").First(&goTag).Error)
	s.Equal(2, goTag.UsageCount)
}
