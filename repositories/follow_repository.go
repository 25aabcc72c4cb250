package repositories

import (
	"conduit-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository interface {
	Add(followerID, followeeID uint) error
	Remove(followerID, followeeID uint) error
	IsFollowing(followerID, followeeID uint) (bool, error)
	FollowingSet(followerID uint, followeeIDs []uint) (map[uint]bool, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Add(followerID, followeeID uint) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
}

func (r *followRepository) Remove(followerID, followeeID uint) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

func (r *followRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	if followerID == 0 {
		return false, nil
	}
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) FollowingSet(followerID uint, followeeIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if followerID == 0 || len(followeeIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id IN ?", followerID, followeeIDs).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
