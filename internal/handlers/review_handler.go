package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sira/internal/models"
	"sira/internal/services"
)

type ReviewHandler struct {
	service services.ReviewService
}

func NewReviewHandler(service services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	TaskID     string `json:"task_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
	ReviewType string `json:"review_type" binding:"required"`
}

// @Summary      Leave a review
// @Description  One review per task per direction, after completion
// @Tags         Reviews
// @Accept       json
// @Produce      json
// @Param        request  body      createReviewRequest  true  "Review"
// @Success      201      {object}  models.Review
// @Failure      409      {object}  map[string]string
// @Security     BearerAuth
// @Router       /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rv := &models.Review{
		TaskID:     req.TaskID,
		ReviewerID: userID,
		Rating:     req.Rating,
		Comment:    &req.Comment,
		ReviewType: models.ReviewType(req.ReviewType),
	}
	if err := h.service.CreateReview(c.Request.Context(), rv); err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrTaskNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "Task is not completed yet"})
		case errors.Is(err, services.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "Review already submitted"})
		case errors.Is(err, services.ErrNotReviewable):
			c.JSON(http.StatusForbidden, gin.H{"error": "You were not part of this task"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// @Summary      List a user's reviews
// @Tags         Reviews
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {array}  models.Review
// @Security     BearerAuth
// @Router       /users/{id}/reviews [get]
func (h *ReviewHandler) ListForUser(c *gin.Context) {
	reviews, err := h.service.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

// @Summary      Rating stats for a user
// @Tags         Reviews
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  models.ReviewStats
// @Security     BearerAuth
// @Router       /users/{id}/reviews/stats [get]
func (h *ReviewHandler) Stats(c *gin.Context) {
	stats, err := h.service.StatsForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
