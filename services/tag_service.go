package services

import (
	"math"
	"strings"
	"time"

	"conduit-cms/models"
	"conduit-cms/repositories"
)

type TagService interface {
	ResolveTags(names []string) ([]models.Tag, error)
	GetTags() ([]string, error)
	RefreshStats() error
}

type tagService struct {
	tagRepo     repositories.TagRepository
	articleRepo repositories.ArticleRepository
	now         func() time.Time
}

func NewTagService(tagRepo repositories.TagRepository, articleRepo repositories.ArticleRepository) TagService {
	return &tagService{
		tagRepo:     tagRepo,
		articleRepo: articleRepo,
		now:         time.Now,
	}
}

// ResolveTags returns the tags for names, creating missing ones. Blank and
// repeated names are dropped.
func (s *tagService) ResolveTags(names []string) ([]models.Tag, error) {
	var tags []models.Tag
	seen := make(map[string]bool)

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, err := s.tagRepo.FirstOrCreate(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

func (s *tagService) GetTags() ([]string, error) {
	tags, err := s.tagRepo.GetAll()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}

// RefreshStats recomputes usage counts and trending scores from the current
// article-tag links.
func (s *tagService) RefreshStats() error {
	tagCounts, err := s.articleRepo.CountArticlesByTag()
	if err != nil {
		return err
	}

	allTags, err := s.tagRepo.GetAll()
	if err != nil {
		return err
	}

	for i := range allTags {
		allTags[i].UsageCount = tagCounts[allTags[i].ID]
		allTags[i].TrendingScore = trendingScore(allTags[i].UsageCount, s.now().Sub(allTags[i].CreatedAt))
	}

	return s.tagRepo.BulkUpdate(allTags)
}

// trendingScore favours tags that gathered usage quickly.
func trendingScore(usage int, age time.Duration) float64 {
	days := age.Hours() / 24
	if days <= 0 {
		return float64(usage)
	}
	return float64(usage) / math.Log(days+math.E)
}
