package services

import (
	"fmt"
	"strings"

	"conduit-cms/helper"
	"conduit-cms/models"
	"conduit-cms/repositories"

	"go.uber.org/zap"
)

type ArticleService interface {
	CreateArticle(userID uint, req models.CreateArticleRequest) (*models.ArticleResponse, error)
	GetArticle(viewerID uint, slug string) (*models.ArticleResponse, error)
	GetArticles(viewerID uint, params models.ArticleListParams) (*models.ArticleListResponse, error)
	GetFeed(userID uint, params models.ArticleListParams) (*models.ArticleListResponse, error)
	UpdateArticle(userID uint, slug string, req models.UpdateArticleRequest) (*models.ArticleResponse, error)
	DeleteArticle(userID uint, slug string) error
	Favorite(userID uint, slug string) (*models.ArticleResponse, error)
	Unfavorite(userID uint, slug string) (*models.ArticleResponse, error)
	CanEdit(userID uint, slug string) (bool, error)
	CanEnterEditor(userID uint, slug string) (bool, error)
	GetPermissions(userID uint, slug string) (*models.PermissionsResponse, error)
}

type articleService struct {
	articleRepo     repositories.ArticleRepository
	userRepo        repositories.UserRepository
	favoriteRepo    repositories.FavoriteRepository
	coauthorService CoauthorService
	tagService      TagService
	presenter       *articlePresenter
	logger          *zap.Logger
}

func NewArticleService(
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	favoriteRepo repositories.FavoriteRepository,
	followRepo repositories.FollowRepository,
	coauthorService CoauthorService,
	tagService TagService,
	logger *zap.Logger,
) ArticleService {
	return &articleService{
		articleRepo:     articleRepo,
		userRepo:        userRepo,
		favoriteRepo:    favoriteRepo,
		coauthorService: coauthorService,
		tagService:      tagService,
		presenter:       &articlePresenter{followRepo: followRepo, favoriteRepo: favoriteRepo},
		logger:          logger,
	}
}

func (s *articleService) CreateArticle(userID uint, req models.CreateArticleRequest) (*models.ArticleResponse, error) {
	author, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	tags, err := s.tagService.ResolveTags(req.TagList)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	article := &models.Article{
		Slug:        helper.NewSlug(req.Title),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Body:        req.Body,
		AuthorID:    author.ID,
		Tags:        tags,
	}

	if err := s.articleRepo.Create(article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	if len(req.CoAuthors) > 0 {
		if err := s.coauthorService.ReplaceCoauthors(article.ID, req.CoAuthors); err != nil {
			return nil, err
		}
	}

	s.refreshTagStats()

	created, err := s.articleRepo.GetByID(article.ID)
	if err != nil {
		return nil, lookupErr(err, "article")
	}
	return s.presenter.one(userID, created)
}

func (s *articleService) GetArticle(viewerID uint, slug string) (*models.ArticleResponse, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}
	return s.presenter.one(viewerID, article)
}

func (s *articleService) GetArticles(viewerID uint, params models.ArticleListParams) (*models.ArticleListResponse, error) {
	params.Normalize()

	articles, total, err := s.articleRepo.GetList(params)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return s.list(viewerID, articles, total)
}

func (s *articleService) GetFeed(userID uint, params models.ArticleListParams) (*models.ArticleListResponse, error) {
	params.Normalize()

	articles, total, err := s.articleRepo.GetFeed(userID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("load feed: %w", err)
	}
	return s.list(userID, articles, total)
}

func (s *articleService) list(viewerID uint, articles []models.Article, total int64) (*models.ArticleListResponse, error) {
	presented, err := s.presenter.many(viewerID, articles)
	if err != nil {
		return nil, err
	}
	return &models.ArticleListResponse{Articles: presented, ArticlesCount: total}, nil
}

// UpdateArticle applies the typed field changes and, when CoAuthors is set,
// replaces the co-author list. Authors and co-authors may update; a lock held
// by someone else blocks the update.
func (s *articleService) UpdateArticle(userID uint, slug string, req models.UpdateArticleRequest) (*models.ArticleResponse, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, lookupErr(err, "user")
	}

	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	if !CanEdit(userID, article) {
		return nil, models.Forbiddenf("only the author or a co-author can edit %q", slug)
	}
	if article.IsLocked && !article.LockHeldBy(userID) {
		return nil, models.ArticleLocked(slug, lockHolderName(article))
	}

	fields := repositories.ArticleFields{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
	}
	if fields.Title != nil {
		trimmed := strings.TrimSpace(*fields.Title)
		fields.Title = &trimmed
	}
	if err := s.articleRepo.UpdateFields(article.ID, fields); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	if req.TagList != nil {
		tags, err := s.tagService.ResolveTags(*req.TagList)
		if err != nil {
			return nil, fmt.Errorf("resolve tags: %w", err)
		}
		if err := s.articleRepo.ReplaceTags(article.ID, tags); err != nil {
			return nil, fmt.Errorf("replace tags: %w", err)
		}
		s.refreshTagStats()
	}

	if req.CoAuthors != nil {
		if err := s.coauthorService.ReplaceCoauthors(article.ID, *req.CoAuthors); err != nil {
			return nil, err
		}
	}

	updated, err := s.articleRepo.GetByID(article.ID)
	if err != nil {
		return nil, lookupErr(err, "article")
	}
	return s.presenter.one(userID, updated)
}

// DeleteArticle is reserved to the main author and admins.
func (s *articleService) DeleteArticle(userID uint, slug string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return lookupErr(err, "user")
	}

	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return lookupErr(err, "article")
	}

	if article.AuthorID != user.ID && !user.IsAdmin() {
		return models.Forbiddenf("only the author can delete %q", slug)
	}

	if err := s.articleRepo.Delete(article.ID); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	s.logger.Info("article deleted", zap.String("slug", slug), zap.Uint("user_id", user.ID))
	s.refreshTagStats()
	return nil
}

func (s *articleService) Favorite(userID uint, slug string) (*models.ArticleResponse, error) {
	article, err := s.favoriteTarget(userID, slug)
	if err != nil {
		return nil, err
	}

	if _, err := s.favoriteRepo.Add(userID, article.ID); err != nil {
		return nil, fmt.Errorf("favorite: %w", err)
	}
	return s.reload(userID, article.ID)
}

func (s *articleService) Unfavorite(userID uint, slug string) (*models.ArticleResponse, error) {
	article, err := s.favoriteTarget(userID, slug)
	if err != nil {
		return nil, err
	}

	if _, err := s.favoriteRepo.Remove(userID, article.ID); err != nil {
		return nil, fmt.Errorf("unfavorite: %w", err)
	}
	return s.reload(userID, article.ID)
}

func (s *articleService) favoriteTarget(userID uint, slug string) (*models.Article, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, lookupErr(err, "user")
	}

	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}
	return article, nil
}

func (s *articleService) reload(viewerID, articleID uint) (*models.ArticleResponse, error) {
	article, err := s.articleRepo.GetByID(articleID)
	if err != nil {
		return nil, lookupErr(err, "article")
	}
	return s.presenter.one(viewerID, article)
}

func (s *articleService) CanEdit(userID uint, slug string) (bool, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return false, lookupErr(err, "article")
	}
	return CanEdit(userID, article), nil
}

func (s *articleService) CanEnterEditor(userID uint, slug string) (bool, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return false, lookupErr(err, "article")
	}
	return CanEnterEditor(userID, article), nil
}

func (s *articleService) GetPermissions(userID uint, slug string) (*models.PermissionsResponse, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	res := &models.PermissionsResponse{CanEdit: CanEdit(userID, article)}
	if err := EditorAccess(userID, article); err != nil {
		res.Reason = err.Error()
	} else {
		res.CanEnterEditor = true
	}
	return res, nil
}

func (s *articleService) refreshTagStats() {
	if err := s.tagService.RefreshStats(); err != nil {
		s.logger.Warn("refresh tag stats", zap.Error(err))
	}
}
