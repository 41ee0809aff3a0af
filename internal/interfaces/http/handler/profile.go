package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/promoshop/backend/internal/application/partner"
)

// ProfileHandler handles client profile API endpoints
type ProfileHandler struct {
	BaseHandler
	profileService *partnerapp.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *partnerapp.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// Upsert godoc
// @Summary      Create or replace a client profile
// @Description  Stores the full profile for a client, replacing any previous one
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        client_id path string true "Client ID"
// @Param        request body partner.UpsertProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=partner.ProfileResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /profiles/{client_id} [put]
func (h *ProfileHandler) Upsert(c *gin.Context) {
	clientID := c.Param("client_id")

	var req partnerapp.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.Upsert(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// Get godoc
// @Summary      Get a client profile
// @Tags         profiles
// @Produce      json
// @Param        client_id path string true "Client ID"
// @Success      200 {object} dto.Response{data=partner.ProfileResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /profiles/{client_id} [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// List godoc
// @Summary      List client profiles
// @Description  Admin listing of stored client profiles
// @Tags         profiles
// @Produce      json
// @Param        search query string false "Search by name, shop or email"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]partner.ProfileResponse}
// @Router       /profiles [get]
func (h *ProfileHandler) List(c *gin.Context) {
	var filter partnerapp.ProfileListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	profiles, total, err := h.profileService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, profiles, total, filter.Page, filter.PageSize)
}
