package services

import (
	"errors"
	"fmt"
	"strings"

	"conduit-cms/models"
	"conduit-cms/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CoauthorService interface {
	ReplaceCoauthors(articleID uint, emails []string) error
	ListCoauthors(articleID uint) ([]models.ArticleCoauthor, error)
	GetCoauthorProfiles(viewerID uint, slug string) ([]models.CoauthorResponse, error)
}

type coauthorService struct {
	coauthorRepo repositories.CoauthorRepository
	articleRepo  repositories.ArticleRepository
	userRepo     repositories.UserRepository
	followRepo   repositories.FollowRepository
	logger       *zap.Logger
}

func NewCoauthorService(
	coauthorRepo repositories.CoauthorRepository,
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	logger *zap.Logger,
) CoauthorService {
	return &coauthorService{
		coauthorRepo: coauthorRepo,
		articleRepo:  articleRepo,
		userRepo:     userRepo,
		followRepo:   followRepo,
		logger:       logger,
	}
}

// NormalizeEmails trims and lower-cases emails and drops blanks and repeats,
// keeping the first occurrence of each.
func NormalizeEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// ReplaceCoauthors makes the users behind emails the article's co-authors,
// in the given order. Unknown emails and the article's own author are
// skipped silently.
func (s *coauthorService) ReplaceCoauthors(articleID uint, emails []string) error {
	article, err := s.articleRepo.GetByID(articleID)
	if err != nil {
		return lookupErr(err, "article")
	}

	var userIDs []uint
	for _, email := range NormalizeEmails(emails) {
		user, err := s.userRepo.GetByEmail(email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Debug("skipping unknown co-author", zap.String("email", email), zap.String("slug", article.Slug))
			continue
		}
		if err != nil {
			return fmt.Errorf("resolve co-author %s: %w", email, err)
		}
		if user.ID == article.AuthorID {
			continue
		}
		userIDs = append(userIDs, user.ID)
	}

	if err := s.coauthorRepo.Replace(article.ID, userIDs); err != nil {
		return fmt.Errorf("replace co-authors: %w", err)
	}
	return nil
}

func (s *coauthorService) ListCoauthors(articleID uint) ([]models.ArticleCoauthor, error) {
	return s.coauthorRepo.ListByArticle(articleID)
}

func (s *coauthorService) GetCoauthorProfiles(viewerID uint, slug string) ([]models.CoauthorResponse, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	coauthors, err := s.coauthorRepo.ListByArticle(article.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(coauthors))
	for _, c := range coauthors {
		ids = append(ids, c.UserID)
	}
	following, err := s.followRepo.FollowingSet(viewerID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.CoauthorResponse, 0, len(coauthors))
	for _, c := range coauthors {
		out = append(out, models.CoauthorResponse{
			Profile: models.NewProfile(c.User, following[c.UserID]),
			Email:   c.User.Email,
		})
	}
	return out, nil
}
