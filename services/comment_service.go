package services

import (
	"fmt"
	"strings"

	"conduit-cms/models"
	"conduit-cms/repositories"
)

type CommentService interface {
	AddComment(userID uint, slug string, req models.CreateCommentRequest) (*models.CommentResponse, error)
	GetComments(viewerID uint, slug string) ([]models.CommentResponse, error)
	DeleteComment(userID uint, slug string, commentID uint) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	articleRepo repositories.ArticleRepository
	userRepo    repositories.UserRepository
	followRepo  repositories.FollowRepository
}

func NewCommentService(
	commentRepo repositories.CommentRepository,
	articleRepo repositories.ArticleRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
	}
}

func (s *commentService) AddComment(userID uint, slug string, req models.CreateCommentRequest) (*models.CommentResponse, error) {
	author, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	comment := &models.Comment{
		ArticleID: article.ID,
		AuthorID:  author.ID,
		Author:    *author,
		Body:      strings.TrimSpace(req.Body),
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	res := toCommentResponse(*comment, false)
	return &res, nil
}

func (s *commentService) GetComments(viewerID uint, slug string) ([]models.CommentResponse, error) {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return nil, lookupErr(err, "article")
	}

	comments, err := s.commentRepo.GetByArticle(article.ID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	following, err := s.followRepo.FollowingSet(viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c, following[c.AuthorID]))
	}
	return out, nil
}

// DeleteComment lets the comment's author or the article's main author
// remove a comment.
func (s *commentService) DeleteComment(userID uint, slug string, commentID uint) error {
	article, err := s.articleRepo.GetBySlug(slug)
	if err != nil {
		return lookupErr(err, "article")
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return lookupErr(err, "comment")
	}
	if comment.ArticleID != article.ID {
		return models.NotFoundf("comment not found")
	}

	if comment.AuthorID != userID && article.AuthorID != userID {
		return models.Forbiddenf("you cannot delete this comment")
	}

	return s.commentRepo.Delete(comment.ID)
}

func toCommentResponse(c models.Comment, following bool) models.CommentResponse {
	return models.CommentResponse{
		ID:        c.ID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    models.NewProfile(c.Author, following),
	}
}
