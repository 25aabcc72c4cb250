package handlers

import (
	"conduit-cms/helper"
	"conduit-cms/services"

	"github.com/gin-gonic/gin"
)

type RosterHandler struct {
	rosterService services.RosterService
	Helper        *helper.HTTPHelper
}

func NewRosterHandler(rosterService services.RosterService, h *helper.HTTPHelper) *RosterHandler {
	return &RosterHandler{rosterService: rosterService, Helper: h}
}

func (h *RosterHandler) GetRoster(c *gin.Context) {
	roster, err := h.rosterService.GetRoster()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", roster)
}
