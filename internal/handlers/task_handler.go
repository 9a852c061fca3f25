package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sira/internal/models"
	"sira/internal/services"
)

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Budget       float64    `json:"budget"`
	CategoryID   string     `json:"category_id" binding:"required"`
	Address      *string    `json:"address"`
	City         *string    `json:"city"`
	TaskDate     *time.Time `json:"task_date"`
	FlexibleDate bool       `json:"flexible_date"`
	TaskSize     string     `json:"task_size"`
	Urgency      string     `json:"urgency"`
	Requirements []string   `json:"requirements"`
	Tags         []string   `json:"tags"`
}

// @Summary      Post a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        request  body      createTaskRequest  true  "Task details"
// @Success      201      {object}  models.Task
// @Failure      400      {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := &models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Budget:       req.Budget,
		CategoryID:   req.CategoryID,
		CustomerID:   userID,
		Address:      req.Address,
		City:         req.City,
		TaskDate:     req.TaskDate,
		FlexibleDate: req.FlexibleDate,
		TaskSize:     models.TaskSize(req.TaskSize),
		Urgency:      models.TaskUrgency(req.Urgency),
		Requirements: req.Requirements,
		Tags:         req.Tags,
	}
	if err := h.service.CreateTask(c.Request.Context(), task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, task)
}

// @Summary      Browse tasks
// @Description  Lists tasks. Taskers browsing open work get tasks they did not post themselves.
// @Tags         Tasks
// @Produce      json
// @Param        status    query  string  false  "Filter by status"
// @Param        category  query  string  false  "Filter by category"
// @Param        q         query  string  false  "Search in title and description"
// @Param        mine      query  bool    false  "Only my tasks"
// @Success      200  {array}  models.Task
// @Security     BearerAuth
// @Router       /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, _, mode := currentUser(c)

	var filter models.TaskFilter
	if v := c.Query("status"); v != "" {
		st := models.TaskStatus(v)
		filter.Status = &st
	}
	if v := c.Query("category"); v != "" {
		filter.CategoryID = &v
	}
	if v := c.Query("q"); v != "" {
		filter.Query = &v
	}

	if c.Query("mine") == "true" {
		if mode == string(models.ModeTasker) {
			filter.TaskerID = &userID
		} else {
			filter.CustomerID = &userID
		}
	} else if mode == string(models.ModeTasker) {
		// browsing open work: hide own postings
		filter.NotCustomer = &userID
		if filter.Status == nil {
			open := models.TaskOpen
			filter.Status = &open
		}
	}

	tasks, err := h.service.ListTasks(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get a task
// @Tags         Tasks
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

type taskStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

// @Summary      Change task status
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Security     BearerAuth
// @Router       /tasks/{id}/status [post]
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req taskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), userID, models.TaskStatus(req.Status), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrNotTaskOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your task"})
		case errors.Is(err, services.ErrBadTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// @Summary      List task categories
// @Tags         Tasks
// @Produce      json
// @Success      200  {array}  models.TaskCategory
// @Security     BearerAuth
// @Router       /categories [get]
func (h *TaskHandler) Categories(c *gin.Context) {
	cats, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cats)
}

type applyRequest struct {
	ProposedPrice    float64    `json:"proposed_price" binding:"required"`
	Message          string     `json:"message"`
	AvailabilityDate *time.Time `json:"availability_date"`
	EstimatedHours   *float64   `json:"estimated_hours"`
}

// @Summary      Apply to an open task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Security     BearerAuth
// @Router       /tasks/{id}/apply [post]
func (h *TaskHandler) Apply(c *gin.Context) {
	userID, _, _ := currentUser(c)
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app := &models.TaskApplication{
		TaskID:           c.Param("id"),
		TaskerID:         userID,
		ProposedPrice:    req.ProposedPrice,
		Message:          req.Message,
		AvailabilityDate: req.AvailabilityDate,
		EstimatedHours:   req.EstimatedHours,
	}
	if err := h.service.Apply(c.Request.Context(), app); err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrTaskNotOpen):
			c.JSON(http.StatusConflict, gin.H{"error": "Task is no longer open"})
		case errors.Is(err, services.ErrAlreadyApplied):
			c.JSON(http.StatusConflict, gin.H{"error": "Already applied"})
		case errors.Is(err, services.ErrOwnTask):
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot apply to your own task"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, app)
}

// @Summary      List applications on a task
// @Tags         Tasks
// @Produce      json
// @Param        id  path  string  true  "Task ID"
// @Security     BearerAuth
// @Router       /tasks/{id}/applications [get]
func (h *TaskHandler) ListApplications(c *gin.Context) {
	userID, _, _ := currentUser(c)
	apps, err := h.service.ListApplications(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrNotTaskOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your task"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	if apps == nil {
		apps = []models.TaskApplication{}
	}
	c.JSON(http.StatusOK, apps)
}

// @Summary      List my applications
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Router       /applications/mine [get]
func (h *TaskHandler) MyApplications(c *gin.Context) {
	userID, _, _ := currentUser(c)
	apps, err := h.service.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if apps == nil {
		apps = []models.TaskApplication{}
	}
	c.JSON(http.StatusOK, apps)
}

// @Summary      Accept an application
// @Description  Assigns the task to the applicant and rejects the remaining offers
// @Tags         Tasks
// @Produce      json
// @Param        id  path  string  true  "Application ID"
// @Security     BearerAuth
// @Router       /applications/{id}/accept [post]
func (h *TaskHandler) AcceptApplication(c *gin.Context) {
	userID, _, _ := currentUser(c)
	task, err := h.service.AcceptApplication(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotTaskOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your task"})
		case errors.Is(err, services.ErrTaskNotOpen), errors.Is(err, services.ErrApplicationClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, task)
}
