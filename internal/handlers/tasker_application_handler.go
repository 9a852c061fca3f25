package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sira/internal/models"
	"sira/internal/services"
)

type TaskerApplicationHandler struct {
	service services.TaskerApplicationService
}

func NewTaskerApplicationHandler(service services.TaskerApplicationService) *TaskerApplicationHandler {
	return &TaskerApplicationHandler{service: service}
}

type submitTaskerApplicationRequest struct {
	FullName       string   `json:"full_name" binding:"required"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Bio            string   `json:"bio" binding:"required"`
	Skills         []string `json:"skills" binding:"required"`
	Experience     string   `json:"experience"`
	HourlyRate     float64  `json:"hourly_rate" binding:"required"`
	Languages      []string `json:"languages"`
	Certifications []string `json:"certifications"`
}

// @Summary      Apply to become a tasker
// @Tags         TaskerApplications
// @Accept       json
// @Produce      json
// @Param        request  body      submitTaskerApplicationRequest  true  "Application"
// @Success      201      {object}  models.TaskerApplication
// @Failure      409      {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasker-applications [post]
func (h *TaskerApplicationHandler) Submit(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req submitTaskerApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app := &models.TaskerApplication{
		UserID:         userID,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Bio:            req.Bio,
		Skills:         req.Skills,
		Experience:     req.Experience,
		HourlyRate:     req.HourlyRate,
		Languages:      req.Languages,
		Certifications: req.Certifications,
	}
	if err := h.service.Submit(c.Request.Context(), app); err != nil {
		if errors.Is(err, services.ErrApplicationExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Application already submitted"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app)
}

// @Summary      My tasker application
// @Tags         TaskerApplications
// @Produce      json
// @Security     BearerAuth
// @Router       /tasker-applications/mine [get]
func (h *TaskerApplicationHandler) Mine(c *gin.Context) {
	userID, _, _ := currentUser(c)
	app, err := h.service.MyApplication(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No application"})
		return
	}
	c.JSON(http.StatusOK, app)
}

// @Summary      List pending tasker applications
// @Tags         TaskerApplications
// @Produce      json
// @Security     BearerAuth
// @Router       /admin/tasker-applications [get]
func (h *TaskerApplicationHandler) ListPending(c *gin.Context) {
	apps, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if apps == nil {
		apps = []models.TaskerApplication{}
	}
	c.JSON(http.StatusOK, apps)
}

type decisionRequest struct {
	Reason     string  `json:"reason"`
	AdminNotes *string `json:"admin_notes"`
}

// @Summary      Approve a tasker application
// @Tags         TaskerApplications
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Security     BearerAuth
// @Router       /admin/tasker-applications/{id}/approve [post]
func (h *TaskerApplicationHandler) Approve(c *gin.Context) {
	reviewerID, _, _ := currentUser(c)
	var req decisionRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.service.Approve(c.Request.Context(), c.Param("id"), reviewerID, req.AdminNotes); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application approved"})
}

// @Summary      Reject a tasker application
// @Tags         TaskerApplications
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Security     BearerAuth
// @Router       /admin/tasker-applications/{id}/reject [post]
func (h *TaskerApplicationHandler) Reject(c *gin.Context) {
	reviewerID, _, _ := currentUser(c)
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Reject(c.Request.Context(), c.Param("id"), reviewerID, req.Reason, req.AdminNotes); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application rejected"})
}

func (h *TaskerApplicationHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
	case errors.Is(err, services.ErrApplicationDecided):
		c.JSON(http.StatusConflict, gin.H{"error": "Application already decided"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
