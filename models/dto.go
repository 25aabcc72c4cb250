package models

import "time"

type RegisterRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     UserRole `json:"role,omitempty" validate:"omitempty,oneof=writer editor"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest changes the caller's own account. Nil fields are kept.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Bio      *string `json:"bio" validate:"omitempty,max=1024"`
	Image    *string `json:"image" validate:"omitempty,url"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateArticleRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"max=2048"`
	Body        string   `json:"body" validate:"required"`
	TagList     []string `json:"tagList" validate:"dive,min=1,max=100"`
	CoAuthors   []string `json:"coAuthors" validate:"dive,email"`
}

// UpdateArticleRequest lists every field an update may change. Nil means
// "leave as is". Lock fields are deliberately absent.
type UpdateArticleRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description" validate:"omitempty,max=2048"`
	Body        *string   `json:"body" validate:"omitempty,min=1"`
	TagList     *[]string `json:"tagList" validate:"omitempty,dive,min=1,max=100"`
	CoAuthors   *[]string `json:"coAuthors" validate:"omitempty,dive,email"`
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=4096"`
}

type ArticleListParams struct {
	Tag       string `form:"tag"`
	Author    string `form:"author"`
	Favorited string `form:"favorited"`
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
}

// Normalize clamps limit and offset to sane values.
func (p *ArticleListParams) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

type CoauthorResponse struct {
	Profile
	Email string `json:"email"`
}

type ArticleResponse struct {
	Slug           string             `json:"slug"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Body           string             `json:"body"`
	TagList        []string           `json:"tagList"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
	Favorited      bool               `json:"favorited"`
	FavoritesCount int                `json:"favoritesCount"`
	Author         Profile            `json:"author"`
	Coauthors      []CoauthorResponse `json:"coauthors"`
	IsLocked       bool               `json:"isLocked"`
	LockedBy       *Profile           `json:"lockedBy"`
	LockedAt       *time.Time         `json:"lockedAt"`
}

type ArticleListResponse struct {
	Articles      []ArticleResponse `json:"articles"`
	ArticlesCount int64             `json:"articlesCount"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Author    Profile   `json:"author"`
}

type PermissionsResponse struct {
	CanEdit        bool   `json:"canEdit"`
	CanEnterEditor bool   `json:"canEnterEditor"`
	Reason         string `json:"reason,omitempty"`
}

type RosterEntry struct {
	Username         string     `json:"username"`
	AuthoredArticles int        `json:"authoredArticles"`
	Likes            int        `json:"likes"`
	FirstArticleDate *time.Time `json:"firstArticleDate"`
}
