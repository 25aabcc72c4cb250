package repositories

import (
	"conduit-cms/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository interface {
	FirstOrCreate(name string) (*models.Tag, error)
	GetByName(name string) (*models.Tag, error)
	GetAll() ([]models.Tag, error)
	BulkUpdate(tags []models.Tag) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

// FirstOrCreate returns the tag called name, inserting it when missing.
// Concurrent creators race on the unique index, not on a read-then-write.
func (r *tagRepository) FirstOrCreate(name string) (*models.Tag, error) {
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Tag{Name: name}).Error; err != nil {
		return nil, err
	}
	return r.GetByName(name)
}

func (r *tagRepository) GetByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("name = ?", name).First(&tag).Error
	return &tag, err
}

func (r *tagRepository) GetAll() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("trending_score desc").Order("name asc").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) BulkUpdate(tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return r.db.Save(&tags).Error
}
