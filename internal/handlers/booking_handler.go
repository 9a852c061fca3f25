package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sira/internal/models"
	"sira/internal/services"
)

type BookingHandler struct {
	service services.BookingService
}

func NewBookingHandler(service services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

type createBookingRequest struct {
	TaskerID           string    `json:"tasker_id" binding:"required"`
	ServiceName        string    `json:"service_name" binding:"required"`
	ServiceDescription *string   `json:"service_description"`
	BasePrice          float64   `json:"base_price"`
	AgreedPrice        float64   `json:"agreed_price"`
	PriceType          string    `json:"price_type"`
	BookingDate        time.Time `json:"booking_date" binding:"required"`
	StartTime          string    `json:"start_time" binding:"required"`
	EndTime            *string   `json:"end_time"`
	Address            *string   `json:"address"`
	City               *string   `json:"city"`
	CustomerNotes      *string   `json:"customer_notes"`
}

// @Summary      Book a tasker directly
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        request  body      createBookingRequest  true  "Booking details"
// @Success      201      {object}  models.Booking
// @Failure      400      {object}  map[string]string
// @Security     BearerAuth
// @Router       /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b := &models.Booking{
		CustomerID:         userID,
		TaskerID:           req.TaskerID,
		ServiceName:        req.ServiceName,
		ServiceDescription: req.ServiceDescription,
		BasePrice:          req.BasePrice,
		AgreedPrice:        req.AgreedPrice,
		PriceType:          models.PriceType(req.PriceType),
		BookingDate:        req.BookingDate,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Address:            req.Address,
		City:               req.City,
		CustomerNotes:      req.CustomerNotes,
	}
	if err := h.service.CreateBooking(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// @Summary      List my bookings
// @Tags         Bookings
// @Produce      json
// @Param        status  query  string  false  "Filter by status"
// @Param        q       query  string  false  "Search by service or party name"
// @Success      200  {array}  models.Booking
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	userID, _, _ := currentUser(c)

	if q := c.Query("q"); q != "" {
		bookings, err := h.service.SearchBookings(c.Request.Context(), userID, q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if bookings == nil {
			bookings = []models.Booking{}
		}
		c.JSON(http.StatusOK, bookings)
		return
	}

	var status *models.BookingStatus
	if v := c.Query("status"); v != "" {
		st := models.BookingStatus(v)
		status = &st
	}
	bookings, err := h.service.ListBookings(c.Request.Context(), userID, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// @Summary      Upcoming bookings
// @Tags         Bookings
// @Produce      json
// @Success      200  {array}  models.Booking
// @Security     BearerAuth
// @Router       /bookings/upcoming [get]
func (h *BookingHandler) Upcoming(c *gin.Context) {
	userID, _, _ := currentUser(c)
	bookings, err := h.service.UpcomingBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// @Summary      My booking stats
// @Tags         Bookings
// @Produce      json
// @Success      200  {object}  models.BookingStats
// @Security     BearerAuth
// @Router       /bookings/stats [get]
func (h *BookingHandler) Stats(c *gin.Context) {
	userID, _, _ := currentUser(c)
	stats, err := h.service.BookingStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// @Summary      Get a booking
// @Tags         Bookings
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Security     BearerAuth
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetByID(c *gin.Context) {
	userID, _, _ := currentUser(c)
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type bookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary      Change booking status
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Security     BearerAuth
// @Router       /bookings/{id}/status [post]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), userID, models.BookingStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrBadTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

type bookingNotesRequest struct {
	Notes string `json:"notes" binding:"required"`
}

// @Summary      Update booking notes
// @Tags         Bookings
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Booking ID"
// @Security     BearerAuth
// @Router       /bookings/{id}/notes [put]
func (h *BookingHandler) UpdateNotes(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req bookingNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateNotes(c.Request.Context(), c.Param("id"), userID, req.Notes); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notes updated"})
}

// @Summary      Download a booking receipt
// @Tags         Bookings
// @Produce      application/pdf
// @Param        id  path  string  true  "Booking ID"
// @Security     BearerAuth
// @Router       /bookings/{id}/receipt [get]
func (h *BookingHandler) Receipt(c *gin.Context) {
	userID, _, _ := currentUser(c)
	data, err := h.service.Receipt(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	filename := fmt.Sprintf("receipt_%s.pdf", c.Param("id"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *BookingHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, services.ErrNotBookingParty):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your booking"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
