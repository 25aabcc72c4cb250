package services

import (
	"fmt"
	"time"

	"conduit-cms/models"
	"conduit-cms/repositories"

	"go.uber.org/zap"
)

// LockService moves articles between Unlocked and Locked(owner, lockedAt).
type LockService interface {
	LockArticle(userID uint, slug string) (*models.ArticleResponse, error)
	UnlockArticle(userID uint, slug string) (*models.ArticleResponse, error)
}

type lockService struct {
	articleRepo repositories.ArticleRepository
	userRepo    repositories.UserRepository
	presenter   *articlePresenter
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

func NewLockService(
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	favoriteRepo repositories.FavoriteRepository,
	ttl time.Duration,
	logger *zap.Logger,
) LockService {
	return &lockService{
		articleRepo: articleRepo,
		userRepo:    userRepo,
		presenter:   &articlePresenter{followRepo: followRepo, favoriteRepo: favoriteRepo},
		ttl:         ttl,
		now:         time.Now,
		logger:      logger,
	}
}

// LockArticle takes the edit lock for userID. A lock held by someone else is
// a conflict unless it is older than the configured TTL; re-locking an
// article already held by userID refreshes the timestamp.
func (s *lockService) LockArticle(userID uint, slug string) (*models.ArticleResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	if !CanEdit(user.ID, article) {
		return nil, models.Forbiddenf("only the author or a co-author can lock %q", slug)
	}

	now := s.now().UTC()
	var staleBefore *time.Time
	if s.ttl > 0 {
		cutoff := now.Add(-s.ttl)
		staleBefore = &cutoff
	}

	acquired, err := s.articleRepo.AcquireLock(article.ID, user.ID, now, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	current, err := s.articleRepo.GetByID(article.ID)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	if !acquired {
		s.logger.Info("article lock refused",
			zap.String("slug", slug),
			zap.Uint("user_id", user.ID),
			zap.String("holder", lockHolderName(current)),
		)
		return nil, models.ArticleLocked(slug, lockHolderName(current))
	}

	s.logger.Info("article locked", zap.String("slug", slug), zap.Uint("user_id", user.ID))
	return s.presenter.one(user.ID, current)
}

// UnlockArticle releases the lock. Only the holder may release it, except
// admins who can clear abandoned locks. Unlocking an unlocked article is a
// no-op.
func (s *lockService) UnlockArticle(userID uint, slug string) (*models.ArticleResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	if !article.IsLocked {
		return s.presenter.one(user.ID, article)
	}

	force := user.IsAdmin()
	released, err := s.articleRepo.ReleaseLock(article.ID, user.ID, force)
	if err != nil {
		return nil, fmt.Errorf("release lock: %w", err)
	}

	current, err := s.articleRepo.GetByID(article.ID)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	if !released && current.IsLocked {
		return nil, models.Forbiddenf("article %q is locked by %s", slug, lockHolderName(current))
	}

	if released {
		s.logger.Info("article unlocked",
			zap.String("slug", slug),
			zap.Uint("user_id", user.ID),
			zap.Bool("forced", force && !article.LockHeldBy(user.ID)),
		)
	}
	return s.presenter.one(user.ID, current)
}
