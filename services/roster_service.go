package services

import (
	"sort"

	"conduit-cms/cache"
	"conduit-cms/models"
	"conduit-cms/repositories"
)

const rosterCacheKey = "roster"

type RosterService interface {
	GetRoster() ([]models.RosterEntry, error)
}

type rosterService struct {
	userRepo    repositories.UserRepository
	articleRepo repositories.ArticleRepository
	cache       *cache.TTLCache[[]models.RosterEntry]
}

func NewRosterService(
	userRepo repositories.UserRepository,
	articleRepo repositories.ArticleRepository,
	rosterCache *cache.TTLCache[[]models.RosterEntry],
) RosterService {
	return &rosterService{
		userRepo:    userRepo,
		articleRepo: articleRepo,
		cache:       rosterCache,
	}
}

// GetRoster lists every user with the number of articles they authored, the
// favorites those articles collected and the date of their first article,
// most liked first.
func (s *rosterService) GetRoster() ([]models.RosterEntry, error) {
	if s.cache != nil {
		if entries, ok := s.cache.Get(rosterCacheKey); ok {
			return entries, nil
		}
	}

	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	summaries, err := s.articleRepo.GetSummaries()
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[uint]*models.RosterEntry, len(users))
	entries := make([]models.RosterEntry, len(users))
	for i, u := range users {
		entries[i] = models.RosterEntry{Username: u.Username}
		byAuthor[u.ID] = &entries[i]
	}

	// summaries come oldest first
	for _, a := range summaries {
		entry, ok := byAuthor[a.AuthorID]
		if !ok {
			continue
		}
		entry.AuthoredArticles++
		entry.Likes += a.FavoritesCount
		if entry.FirstArticleDate == nil {
			created := a.CreatedAt
			entry.FirstArticleDate = &created
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Likes > entries[j].Likes
	})

	if s.cache != nil {
		s.cache.Set(rosterCacheKey, entries)
	}
	return entries, nil
}
