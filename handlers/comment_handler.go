package handlers

import (
	"strconv"

	"conduit-cms/helper"
	"conduit-cms/middleware"
	"conduit-cms/models"
	"conduit-cms/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService services.CommentService
	Helper         *helper.HTTPHelper
}

func NewCommentHandler(commentService services.CommentService, h *helper.HTTPHelper) *CommentHandler {
	return &CommentHandler{commentService: commentService, Helper: h}
}

func (h *CommentHandler) AddComment(c *gin.Context) {
	var req models.CreateCommentRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	comment, err := h.commentService.AddComment(middleware.CurrentUserID(c), c.Param("slug"), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Comment added", comment)
}

func (h *CommentHandler) GetComments(c *gin.Context) {
	comments, err := h.commentService.GetComments(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", comments)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid comment ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.commentService.DeleteComment(middleware.CurrentUserID(c), c.Param("slug"), uint(id)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment deleted", h.Helper.EmptyJsonMap())
}
