package services

import (
	"conduit-cms/models"
	"conduit-cms/repositories"
)

// articlePresenter builds the public projection of articles for one viewer.
type articlePresenter struct {
	followRepo   repositories.FollowRepository
	favoriteRepo repositories.FavoriteRepository
}

func (p *articlePresenter) one(viewerID uint, article *models.Article) (*models.ArticleResponse, error) {
	list, err := p.many(viewerID, []models.Article{*article})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (p *articlePresenter) many(viewerID uint, articles []models.Article) ([]models.ArticleResponse, error) {
	var userIDs, articleIDs []uint
	for _, a := range articles {
		articleIDs = append(articleIDs, a.ID)
		userIDs = append(userIDs, a.AuthorID)
		for _, c := range a.Coauthors {
			userIDs = append(userIDs, c.UserID)
		}
		if a.LockedByID != nil {
			userIDs = append(userIDs, *a.LockedByID)
		}
	}

	following, err := p.followRepo.FollowingSet(viewerID, userIDs)
	if err != nil {
		return nil, err
	}
	favorited, err := p.favoriteRepo.FavoritedSet(viewerID, articleIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.ArticleResponse, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		res := models.ArticleResponse{
			Slug:           a.Slug,
			Title:          a.Title,
			Description:    a.Description,
			Body:           a.Body,
			TagList:        a.TagNames(),
			CreatedAt:      a.CreatedAt,
			UpdatedAt:      a.UpdatedAt,
			Favorited:      favorited[a.ID],
			FavoritesCount: a.FavoritesCount,
			Author:         models.NewProfile(a.Author, following[a.AuthorID]),
			Coauthors:      make([]models.CoauthorResponse, 0, len(a.Coauthors)),
			IsLocked:       a.IsLocked,
		}
		for _, c := range a.Coauthors {
			res.Coauthors = append(res.Coauthors, models.CoauthorResponse{
				Profile: models.NewProfile(c.User, following[c.UserID]),
				Email:   c.User.Email,
			})
		}
		if a.IsLocked && a.LockedBy != nil {
			holder := models.NewProfile(*a.LockedBy, following[a.LockedBy.ID])
			res.LockedBy = &holder
			res.LockedAt = a.LockedAt
		}
		out = append(out, res)
	}
	return out, nil
}
