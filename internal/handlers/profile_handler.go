package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sira/internal/models"
	"sira/internal/services"
)

type ProfileHandler struct {
	service services.ProfileService
}

func NewProfileHandler(service services.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// @Summary      Get a profile
// @Tags         Profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  models.Profile
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /profiles/{id} [get]
func (h *ProfileHandler) GetByID(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProfileRequest struct {
	FullName       string   `json:"full_name"`
	Username       string   `json:"username"`
	Email          *string  `json:"email"`
	Bio            *string  `json:"bio"`
	City           *string  `json:"city"`
	Skills         []string `json:"skills"`
	Languages      []string `json:"languages"`
	Certifications []string `json:"certifications"`
	HourlyRate     *float64 `json:"hourly_rate"`
}

// @Summary      Update own profile
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /profiles/me [put]
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if req.FullName != "" {
		p.FullName = req.FullName
	}
	if req.Username != "" {
		p.Username = req.Username
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.City != nil {
		p.City = req.City
	}
	if req.Skills != nil {
		p.Skills = req.Skills
	}
	if req.Languages != nil {
		p.Languages = req.Languages
	}
	if req.Certifications != nil {
		p.Certifications = req.Certifications
	}
	if req.HourlyRate != nil {
		p.HourlyRate = req.HourlyRate
	}

	if err := h.service.UpdateProfile(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      List available taskers
// @Tags         Profiles
// @Produce      json
// @Param        q       query  string  false  "Search by name, bio or skill"
// @Param        limit   query  int     false  "Page size"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {array}  models.Profile
// @Security     BearerAuth
// @Router       /taskers [get]
func (h *ProfileHandler) ListTaskers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	var taskers []*models.Profile
	var err error
	if q := c.Query("q"); q != "" {
		taskers, err = h.service.SearchTaskers(c.Request.Context(), q, limit, offset)
	} else {
		taskers, err = h.service.ListTaskers(c.Request.Context(), limit, offset)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if taskers == nil {
		taskers = []*models.Profile{}
	}
	c.JSON(http.StatusOK, taskers)
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

// @Summary      Set own availability
// @Tags         Profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Router       /profiles/me/availability [put]
func (h *ProfileHandler) SetAvailability(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SetAvailability(c.Request.Context(), userID, req.Available); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": req.Available})
}
