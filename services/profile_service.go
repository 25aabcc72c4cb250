package services

import (
	"fmt"

	"conduit-cms/models"
	"conduit-cms/repositories"
)

type ProfileService interface {
	GetProfile(viewerID uint, username string) (*models.Profile, error)
	Follow(followerID uint, username string) (*models.Profile, error)
	Unfollow(followerID uint, username string) (*models.Profile, error)
	FollowArticleAuthor(followerID uint, slug, username string) (*models.Profile, error)
	UnfollowArticleAuthor(followerID uint, slug, username string) (*models.Profile, error)
}

type profileService struct {
	userRepo    repositories.UserRepository
	followRepo  repositories.FollowRepository
	articleRepo repositories.ArticleRepository
}

func NewProfileService(
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	articleRepo repositories.ArticleRepository,
) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		articleRepo: articleRepo,
	}
}

func (s *profileService) GetProfile(viewerID uint, username string) (*models.Profile, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "profile")
	}

	following, err := s.followRepo.IsFollowing(viewerID, user.ID)
	if err != nil {
		return nil, err
	}

	profile := models.NewProfile(*user, following)
	return &profile, nil
}

func (s *profileService) Follow(followerID uint, username string) (*models.Profile, error) {
	target, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "profile")
	}
	return s.follow(followerID, *target)
}

func (s *profileService) Unfollow(followerID uint, username string) (*models.Profile, error) {
	target, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, lookupErr(err, "profile")
	}
	return s.unfollow(followerID, *target)
}

// FollowArticleAuthor follows the main author or a co-author of the article,
// whichever username names.
func (s *profileService) FollowArticleAuthor(followerID uint, slug, username string) (*models.Profile, error) {
	target, err := s.articleAuthor(slug, username)
	if err != nil {
		return nil, err
	}
	return s.follow(followerID, target.User)
}

func (s *profileService) UnfollowArticleAuthor(followerID uint, slug, username string) (*models.Profile, error) {
	target, err := s.articleAuthor(slug, username)
	if err != nil {
		return nil, err
	}
	return s.unfollow(followerID, target.User)
}

func (s *profileService) articleAuthor(slug, username string) (FollowTarget, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return FollowTarget{}, lookupErr(err, "article")
	}

	target, ok := ResolveFollowTarget(article, username)
	if !ok {
		return FollowTarget{}, models.NotFoundf("%s is not an author of %q", username, slug)
	}
	return target, nil
}

func (s *profileService) follow(followerID uint, target models.User) (*models.Profile, error) {
	if _, err := s.userRepo.GetByID(followerID); err != nil {
		return nil, lookupErr(err, "user")
	}
	if followerID == target.ID {
		return nil, models.ErrorBadRequest{Message: "you cannot follow yourself"}
	}

	if err := s.followRepo.Add(followerID, target.ID); err != nil {
		return nil, fmt.Errorf("follow %s: %w", target.Username, err)
	}

	profile := models.NewProfile(target, true)
	return &profile, nil
}

func (s *profileService) unfollow(followerID uint, target models.User) (*models.Profile, error) {
	if _, err := s.userRepo.GetByID(followerID); err != nil {
		return nil, lookupErr(err, "user")
	}

	if err := s.followRepo.Remove(followerID, target.ID); err != nil {
		return nil, fmt.Errorf("unfollow %s: %w", target.Username, err)
	}

	profile := models.NewProfile(target, false)
	return &profile, nil
}
