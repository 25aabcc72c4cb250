package services

import (
	"conduit-cms/models"
)

// CanEdit reports whether userID is the article's author or one of its
// co-authors. Lock state does not matter here.
func CanEdit(userID uint, article *models.Article) bool {
	if article == nil || userID == 0 {
		return false
	}
	if article.AuthorID == userID {
		return true
	}
	for _, c := range article.Coauthors {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

// CanEnterEditor is false while the article is locked, whoever holds the
// lock, and otherwise follows CanEdit.
func CanEnterEditor(userID uint, article *models.Article) bool {
	return EditorAccess(userID, article) == nil
}

// EditorAccess explains a CanEnterEditor denial: ErrorForbidden for users
// without authorship, ErrorConflict while the article is locked.
func EditorAccess(userID uint, article *models.Article) error {
	if article == nil {
		return models.NotFoundf("article not found")
	}
	if !CanEdit(userID, article) {
		return models.Forbiddenf("only the author or a co-author can edit %q", article.Slug)
	}
	if article.IsLocked {
		return models.ArticleLocked(article.Slug, lockHolderName(article))
	}
	return nil
}

// FollowTarget is the user a follow action on an article page points at.
type FollowTarget struct {
	User     models.User
	Coauthor bool
}

// ResolveFollowTarget matches username against the main author, then the
// co-authors in order. The first match wins.
func ResolveFollowTarget(article *models.Article, username string) (FollowTarget, bool) {
	if article == nil || username == "" {
		return FollowTarget{}, false
	}
	if article.Author.Username == username {
		return FollowTarget{User: article.Author}, true
	}
	for _, c := range article.Coauthors {
		if c.User.Username == username {
			return FollowTarget{User: c.User, Coauthor: true}, true
		}
	}
	return FollowTarget{}, false
}

func lockHolderName(article *models.Article) string {
	if article.LockedBy != nil && article.LockedBy.Username != "" {
		return article.LockedBy.Username
	}
	return "another user"
}
