package handlers

import (
	"conduit-cms/helper"
	"conduit-cms/middleware"
	"conduit-cms/models"
	"conduit-cms/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	lockService    services.LockService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, lockService services.LockService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		lockService:    lockService,
		Helper:         h,
	}
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	article, err := h.articleService.CreateArticle(middleware.CurrentUserID(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Article created", article)
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query", err.Error())
		return
	}

	articles, err := h.articleService.GetArticles(middleware.CurrentUserID(c), params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", articles)
}

func (h *ArticleHandler) GetFeed(c *gin.Context) {
	var params models.ArticleListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, "Invalid query", err.Error())
		return
	}

	articles, err := h.articleService.GetFeed(middleware.CurrentUserID(c), params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", articles)
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.articleService.GetArticle(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", article)
}

func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var req models.UpdateArticleRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	article, err := h.articleService.UpdateArticle(middleware.CurrentUserID(c), c.Param("slug"), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article updated", article)
}

func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	if err := h.articleService.DeleteArticle(middleware.CurrentUserID(c), c.Param("slug")); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article deleted successfully", h.Helper.EmptyJsonMap())
}

func (h *ArticleHandler) LockArticle(c *gin.Context) {
	article, err := h.lockService.LockArticle(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article locked", article)
}

func (h *ArticleHandler) UnlockArticle(c *gin.Context) {
	article, err := h.lockService.UnlockArticle(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article unlocked", article)
}

func (h *ArticleHandler) GetPermissions(c *gin.Context) {
	perms, err := h.articleService.GetPermissions(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", perms)
}

func (h *ArticleHandler) Favorite(c *gin.Context) {
	article, err := h.articleService.Favorite(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article favorited", article)
}

func (h *ArticleHandler) Unfavorite(c *gin.Context) {
	article, err := h.articleService.Unfavorite(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Article unfavorited", article)
}
