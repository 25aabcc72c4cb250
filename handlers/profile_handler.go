package handlers

import (
	"conduit-cms/helper"
	"conduit-cms/middleware"
	"conduit-cms/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService  services.ProfileService
	coauthorService services.CoauthorService
	Helper          *helper.HTTPHelper
}

func NewProfileHandler(profileService services.ProfileService, coauthorService services.CoauthorService, h *helper.HTTPHelper) *ProfileHandler {
	return &ProfileHandler{
		profileService:  profileService,
		coauthorService: coauthorService,
		Helper:          h,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(middleware.CurrentUserID(c), c.Param("username"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", profile)
}

func (h *ProfileHandler) Follow(c *gin.Context) {
	profile, err := h.profileService.Follow(middleware.CurrentUserID(c), c.Param("username"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Followed", profile)
}

func (h *ProfileHandler) Unfollow(c *gin.Context) {
	profile, err := h.profileService.Unfollow(middleware.CurrentUserID(c), c.Param("username"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Unfollowed", profile)
}

// FollowArticleAuthor follows the main author or a co-author of :slug.
func (h *ProfileHandler) FollowArticleAuthor(c *gin.Context) {
	profile, err := h.profileService.FollowArticleAuthor(middleware.CurrentUserID(c), c.Param("slug"), c.Param("username"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Followed", profile)
}

func (h *ProfileHandler) UnfollowArticleAuthor(c *gin.Context) {
	profile, err := h.profileService.UnfollowArticleAuthor(middleware.CurrentUserID(c), c.Param("slug"), c.Param("username"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Unfollowed", profile)
}

func (h *ProfileHandler) GetCoauthors(c *gin.Context) {
	coauthors, err := h.coauthorService.GetCoauthorProfiles(middleware.CurrentUserID(c), c.Param("slug"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", coauthors)
}
