package repositories

import (
	"time"

	"conduit-cms/models"

	"gorm.io/gorm"
)

// ArticleFields is the typed set of content columns an update may touch.
// Nil pointers are left untouched.
type ArticleFields struct {
	Title       *string
	Description *string
	Body        *string
}

func (f ArticleFields) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if f.Title != nil {
		cols["title"] = *f.Title
	}
	if f.Description != nil {
		cols["description"] = *f.Description
	}
	if f.Body != nil {
		cols["body"] = *f.Body
	}
	return cols
}

// ArticleSummary is the slice of an article the roster aggregates over.
type ArticleSummary struct {
	ID             uint
	AuthorID       uint
	FavoritesCount int
	CreatedAt      time.Time
}

type ArticleRepository interface {
	Create(article *models.Article) error
	GetBySlug(slug string) (*models.Article, error)
	GetByID(id uint) (*models.Article, error)
	GetList(params models.ArticleListParams) ([]models.Article, int64, error)
	GetFeed(userID uint, limit, offset int) ([]models.Article, int64, error)
	UpdateFields(id uint, fields ArticleFields) error
	ReplaceTags(id uint, tags []models.Tag) error
	Delete(id uint) error
	AcquireLock(id, userID uint, now time.Time, staleBefore *time.Time) (bool, error)
	ReleaseLock(id, userID uint, force bool) (bool, error)
	CountArticlesByTag() (map[uint]int, error)
	GetSummaries() ([]ArticleSummary, error)
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").
		Preload("LockedBy").
		Preload("Tags").
		Preload("Coauthors", func(db *gorm.DB) *gorm.DB {
			return db.Order("article_coauthors.position asc")
		}).
		Preload("Coauthors.User")
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetBySlug(slug string) (*models.Article, error) {
	var article models.Article
	err := r.withRelations(r.db).Where("slug = ?", slug).First(&article).Error
	return &article, err
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.withRelations(r.db).First(&article, id).Error
	return &article, err
}

func (r *articleRepository) filtered(params models.ArticleListParams) *gorm.DB {
	query := r.db.Model(&models.Article{})

	if params.Tag != "" {
		query = query.Where("articles.id IN (?)", r.db.Table("article_tags").
			Select("article_tags.article_id").
			Joins("JOIN tags ON tags.id = article_tags.tag_id").
			Where("tags.name = ?", params.Tag))
	}

	if params.Author != "" {
		query = query.Where("articles.author_id IN (?)", r.db.Model(&models.User{}).
			Select("id").
			Where("username = ?", params.Author))
	}

	if params.Favorited != "" {
		query = query.Where("articles.id IN (?)", r.db.Table("favorites").
			Select("favorites.article_id").
			Joins("JOIN users ON users.id = favorites.user_id").
			Where("users.username = ?", params.Favorited))
	}

	return query
}

func (r *articleRepository) GetList(params models.ArticleListParams) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	if err := r.filtered(params).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withRelations(r.filtered(params)).
		Order("articles.created_at desc").
		Order("articles.id desc").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) GetFeed(userID uint, limit, offset int) ([]models.Article, int64, error) {
	var articles []models.Article
	var total int64

	followed := r.db.Table("follows").Select("followee_id").Where("follower_id = ?", userID)
	base := func() *gorm.DB {
		return r.db.Model(&models.Article{}).Where("articles.author_id IN (?)", followed)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.withRelations(base()).
		Order("articles.created_at desc").
		Order("articles.id desc").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error

	return articles, total, err
}

func (r *articleRepository) UpdateFields(id uint, fields ArticleFields) error {
	cols := fields.columns()
	if len(cols) == 0 {
		return nil
	}
	return r.db.Model(&models.Article{}).Where("id = ?", id).Updates(cols).Error
}

func (r *articleRepository) ReplaceTags(id uint, tags []models.Tag) error {
	article := models.Article{ID: id}
	return r.db.Model(&article).Association("Tags").Replace(tags)
}

// Delete removes the article together with its comments, co-authors,
// favorites and tag links.
func (r *articleRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.ArticleCoauthor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Article{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, id).Error
	})
}

// AcquireLock sets the lock to userID when the article is unlocked, already
// held by userID, or (when staleBefore is given) held since before staleBefore.
// It reports false when another user holds the lock.
func (r *articleRepository) AcquireLock(id, userID uint, now time.Time, staleBefore *time.Time) (bool, error) {
	query := r.db.Model(&models.Article{}).Where("id = ?", id)
	if staleBefore != nil {
		query = query.Where("(is_locked = ? OR locked_by_id = ? OR locked_at < ?)", false, userID, *staleBefore)
	} else {
		query = query.Where("(is_locked = ? OR locked_by_id = ?)", false, userID)
	}

	res := query.UpdateColumns(map[string]interface{}{
		"is_locked":    true,
		"locked_by_id": userID,
		"locked_at":    now,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseLock clears the lock if userID holds it, or unconditionally when
// force is set. It reports false when nothing was cleared.
func (r *articleRepository) ReleaseLock(id, userID uint, force bool) (bool, error) {
	query := r.db.Model(&models.Article{}).Where("id = ? AND is_locked = ?", id, true)
	if !force {
		query = query.Where("locked_by_id = ?", userID)
	}

	res := query.UpdateColumns(map[string]interface{}{
		"is_locked":    false,
		"locked_by_id": nil,
		"locked_at":    nil,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *articleRepository) CountArticlesByTag() (map[uint]int, error) {
	var results []struct {
		TagID uint
		Count int
	}

	query := `
		SELECT
			atg.tag_id,
			COUNT(*) as count
		FROM article_tags atg
		JOIN articles a ON atg.article_id = a.id
		GROUP BY atg.tag_id
	`

	err := r.db.Raw(query).Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	for _, result := range results {
		counts[result.TagID] = result.Count
	}

	return counts, nil
}

func (r *articleRepository) GetSummaries() ([]ArticleSummary, error) {
	var summaries []ArticleSummary
	err := r.db.Model(&models.Article{}).
		Select("id", "author_id", "favorites_count", "created_at").
		Order("created_at asc").
		Scan(&summaries).Error
	return summaries, err
}
