package models

import (
	"time"
)

type Article struct {
	ID             uint              `json:"id" gorm:"primarykey"`
	Slug           string            `json:"slug" gorm:"uniqueIndex;not null"`
	Title          string            `json:"title" gorm:"not null"`
	Description    string            `json:"description"`
	Body           string            `json:"body" gorm:"type:text"`
	AuthorID       uint              `json:"author_id" gorm:"not null;index"`
	Author         User              `json:"author" gorm:"foreignKey:AuthorID"`
	Coauthors      []ArticleCoauthor `json:"coauthors" gorm:"foreignKey:ArticleID"`
	Tags           []Tag             `json:"tags" gorm:"many2many:article_tags;"`
	IsLocked       bool              `json:"is_locked" gorm:"not null;default:false"`
	LockedByID     *uint             `json:"locked_by_id"`
	LockedBy       *User             `json:"locked_by,omitempty" gorm:"foreignKey:LockedByID"`
	LockedAt       *time.Time        `json:"locked_at"`
	FavoritesCount int               `json:"favorites_count" gorm:"not null;default:0"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// LockHeldBy reports whether the article is locked by userID.
func (a *Article) LockHeldBy(userID uint) bool {
	return a.IsLocked && a.LockedByID != nil && *a.LockedByID == userID
}

func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// ArticleCoauthor grants a user edit rights on an article. Position keeps the
// order of the last replace.
type ArticleCoauthor struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ArticleID uint      `json:"article_id" gorm:"not null;uniqueIndex:idx_article_coauthor"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_article_coauthor;index"`
	User      User      `json:"user" gorm:"foreignKey:UserID"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_pair"`
	ArticleID uint      `json:"article_id" gorm:"not null;uniqueIndex:idx_favorite_pair;index"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ArticleID uint      `json:"article_id" gorm:"not null;index"`
	AuthorID  uint      `json:"author_id" gorm:"not null"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
