package repositories

import (
	"conduit-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FavoriteRepository interface {
	Add(userID, articleID uint) (bool, error)
	Remove(userID, articleID uint) (bool, error)
	FavoritedSet(userID uint, articleIDs []uint) (map[uint]bool, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add records the favorite and bumps the article counter in the same
// transaction. It reports whether the favorite was new.
func (r *favoriteRepository) Add(userID, articleID uint) (bool, error) {
	added := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Favorite{UserID: userID, ArticleID: articleID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		added = true
		return tx.Model(&models.Article{}).
			Where("id = ?", articleID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count + ?", 1)).Error
	})
	return added, err
}

// Remove deletes the favorite and decrements the counter when a row was
// actually removed.
func (r *favoriteRepository) Remove(userID, articleID uint) (bool, error) {
	removed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&models.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		removed = true
		return tx.Model(&models.Article{}).
			Where("id = ? AND favorites_count > 0", articleID).
			UpdateColumn("favorites_count", gorm.Expr("favorites_count - ?", 1)).Error
	})
	return removed, err
}

func (r *favoriteRepository) FavoritedSet(userID uint, articleIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if userID == 0 || len(articleIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND article_id IN ?", userID, articleIDs).
		Pluck("article_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
