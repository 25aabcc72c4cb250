package handlers

import (
	"conduit-cms/helper"
	"conduit-cms/services"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagService services.TagService
	Helper     *helper.HTTPHelper
}

func NewTagHandler(tagService services.TagService, h *helper.HTTPHelper) *TagHandler {
	return &TagHandler{tagService: tagService, Helper: h}
}

func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tagService.GetTags()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{"tags": tags})
}

// RefreshStats recomputes tag usage and trending scores on demand.
func (h *TagHandler) RefreshStats(c *gin.Context) {
	if err := h.tagService.RefreshStats(); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.GetTags(c)
}
