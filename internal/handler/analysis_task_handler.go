package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/service"
	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// AnalysisTaskHandler handles HTTP requests for analysis tasks
type AnalysisTaskHandler struct {
	service *service.AnalysisTaskService
}

// NewAnalysisTaskHandler creates a new analysis task handler
func NewAnalysisTaskHandler(service *service.AnalysisTaskService) *AnalysisTaskHandler {
	return &AnalysisTaskHandler{service: service}
}

// CreateTaskRequest represents the request body for creating an analysis task
type CreateTaskRequest struct {
	SkillName string                 `json:"skill_name" binding:"required"`
	TaskType  string                 `json:"task_type" binding:"required"` // INCREMENTAL or FULL_RECOMPUTE
	Params    map[string]interface{} `json:"params"`
}

// CreateTask creates a new analysis task
// POST /api/admin/analysis/tasks
func (h *AnalysisTaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Set by the auth middleware
	createdBy := c.GetString("user")
	if createdBy == "" {
		createdBy = "admin"
	}

	task, err := h.service.CreateTask(c.Request.Context(), req.SkillName, req.TaskType, req.Params, createdBy)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Accepted(c, task)
}

// GetTask retrieves a task by ID
// GET /api/admin/analysis/tasks/:id
func (h *AnalysisTaskHandler) GetTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, task)
}

// ListTasks retrieves all tasks
// GET /api/admin/analysis/tasks
func (h *AnalysisTaskHandler) ListTasks(c *gin.Context) {
	skillName := c.Query("skill_name")
	status := c.Query("status")

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	tasks, err := h.service.ListTasks(c.Request.Context(), skillName, status, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{
		"tasks":  tasks,
		"limit":  limit,
		"offset": offset,
	})
}

// CancelTask cancels a pending or running task
// DELETE /api/admin/analysis/tasks/:id
func (h *AnalysisTaskHandler) CancelTask(c *gin.Context) {
	id, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.service.CancelTask(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Task cancelled successfully"})
}

func taskIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid task ID")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
