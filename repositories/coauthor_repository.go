package repositories

import (
	"conduit-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoauthorRepository interface {
	ListByArticle(articleID uint) ([]models.ArticleCoauthor, error)
	Replace(articleID uint, userIDs []uint) error
}

type coauthorRepository struct {
	db *gorm.DB
}

func NewCoauthorRepository(db *gorm.DB) CoauthorRepository {
	return &coauthorRepository{db: db}
}

func (r *coauthorRepository) ListByArticle(articleID uint) ([]models.ArticleCoauthor, error) {
	var coauthors []models.ArticleCoauthor
	err := r.db.Where("article_id = ?", articleID).
		Preload("User").
		Order("position asc").
		Find(&coauthors).Error
	return coauthors, err
}

// Replace makes userIDs, in order, the complete co-author set of the article.
// Rows are diffed inside one transaction so readers see either the old set or
// the new one.
func (r *coauthorRepository) Replace(articleID uint, userIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		stale := tx.Where("article_id = ?", articleID)
		if len(userIDs) > 0 {
			stale = stale.Where("user_id NOT IN ?", userIDs)
		}
		if err := stale.Delete(&models.ArticleCoauthor{}).Error; err != nil {
			return err
		}

		for i, userID := range userIDs {
			row := models.ArticleCoauthor{
				ArticleID: articleID,
				UserID:    userID,
				Position:  i,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "article_id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"position"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}
