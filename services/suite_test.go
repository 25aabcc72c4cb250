package services

import (
	"fmt"
	"testing"
	"time"

	"conduit-cms/config"
	"conduit-cms/models"
	"conduit-cms/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// ServiceSuite wires every service on a fresh in-memory database per test.
type ServiceSuite struct {
	suite.Suite
	db *gorm.DB

	userRepo     repositories.UserRepository
	articleRepo  repositories.ArticleRepository
	favoriteRepo repositories.FavoriteRepository
	followRepo   repositories.FollowRepository

	articles  ArticleService
	locks     LockService
	coauthors CoauthorService
	profiles  ProfileService
	comments  CommentService
	tags      TagService
}

func (s *ServiceSuite) SetupTest() {
	t := s.T()
	log := zaptest.NewLogger(t)

	s.db = newTestDB(t)
	s.userRepo = repositories.NewUserRepository(s.db)
	s.articleRepo = repositories.NewArticleRepository(s.db)
	s.favoriteRepo = repositories.NewFavoriteRepository(s.db)
	s.followRepo = repositories.NewFollowRepository(s.db)
	coauthorRepo := repositories.NewCoauthorRepository(s.db)
	tagRepo := repositories.NewTagRepository(s.db)
	commentRepo := repositories.NewCommentRepository(s.db)

	s.tags = NewTagService(tagRepo, s.articleRepo)
	s.coauthors = NewCoauthorService(coauthorRepo, s.articleRepo, s.userRepo, s.followRepo, log)
	s.articles = NewArticleService(s.articleRepo, s.userRepo, s.favoriteRepo, s.followRepo, s.coauthors, s.tags, log)
	s.locks = NewLockService(s.articleRepo, s.userRepo, s.followRepo, s.favoriteRepo, 0, log)
	s.profiles = NewProfileService(s.userRepo, s.followRepo, s.articleRepo)
	s.comments = NewCommentService(commentRepo, s.articleRepo, s.userRepo, s.followRepo)
}

func (s *ServiceSuite) createUser(username string, role models.UserRole) *models.User {
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "x",
		Role:     role,
	}
	s.Require().NoError(s.userRepo.Create(user))
	return user
}

func (s *ServiceSuite) createArticle(author *models.User, title string, coauthorEmails ...string) *models.ArticleResponse {
	article, err := s.articles.CreateArticle(author.ID, models.CreateArticleRequest{
		Title:       title,
		Description: "about " + title,
		Body:        "body of " + title,
		TagList:     []string{"go"},
		CoAuthors:   coauthorEmails,
	})
	s.Require().NoError(err)
	return article
}

func (s *ServiceSuite) loadArticle(slug string) *models.Article {
	article, err := s.articleRepo.GetBySlug(slug)
	s.Require().NoError(err)
	return article
}

// assertLockConsistent checks that the lock columns are all set or all clear.
func (s *ServiceSuite) assertLockConsistent(slug string) {
	a := s.loadArticle(slug)
	if a.IsLocked {
		s.NotNil(a.LockedByID, "locked article without holder")
		s.NotNil(a.LockedAt, "locked article without timestamp")
	} else {
		s.Nil(a.LockedByID, "unlocked article keeps holder")
		s.Nil(a.LockedAt, "unlocked article keeps timestamp")
	}
}

func (s *ServiceSuite) setLockClock(now func() time.Time) {
	s.locks.(*lockService).now = now
}

func (s *ServiceSuite) setLockTTL(ttl time.Duration) {
	s.locks.(*lockService).ttl = ttl
}
