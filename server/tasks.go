package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/aymane70/taskman/internal/logger"
	"github.com/aymane70/taskman/internal/model"
)

// sortColumns whitelists the sortBy parameter against real columns
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"dueDate":   "due_date",
	"title":     "title",
	"status":    "status",
	"priority":  "priority",
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// validate applies the creation defaults and bounds from the API contract
func (r *taskRequest) validate() (model.Task, string) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return model.Task{}, "title is required"
	}
	if len(title) > 200 {
		return model.Task{}, "title must be at most 200 characters"
	}
	if len(r.Description) > 1000 {
		return model.Task{}, "description must be at most 1000 characters"
	}

	status := model.Status(r.Status)
	if r.Status == "" {
		status = model.StatusTodo
	} else if !status.Valid() {
		return model.Task{}, "invalid status"
	}

	priority := model.Priority(r.Priority)
	if r.Priority == "" {
		priority = model.PriorityMedium
	} else if !priority.Valid() {
		return model.Task{}, "invalid priority"
	}

	return model.Task{
		Title:       title,
		Description: r.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     r.DueDate,
	}, ""
}

type pageResponse struct {
	Content       []model.Task `json:"content"`
	PageNumber    int          `json:"pageNumber"`
	PageSize      int          `json:"pageSize"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	Last          bool         `json:"last"`
}

// handleListTasks serves the filtered, sorted, paginated collection
func (s *Server) handleListTasks(c echo.Context) error {
	filter := listFilter{
		Search:  c.QueryParam("search"),
		SortCol: "created_at",
		Page:    0,
		Size:    10,
	}

	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fail(c, http.StatusBadRequest, "invalid page")
		}
		filter.Page = n
	}
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return fail(c, http.StatusBadRequest, "invalid size")
		}
		filter.Size = n
	}
	if v := c.QueryParam("status"); v != "" {
		if !model.Status(v).Valid() {
			return fail(c, http.StatusBadRequest, "invalid status")
		}
		filter.Status = v
	}
	if v := c.QueryParam("priority"); v != "" {
		if !model.Priority(v).Valid() {
			return fail(c, http.StatusBadRequest, "invalid priority")
		}
		filter.Priority = v
	}
	if v := c.QueryParam("sortBy"); v != "" {
		col, ok := sortColumns[v]
		if !ok {
			return fail(c, http.StatusBadRequest, "invalid sort field")
		}
		filter.SortCol = col
	}
	switch c.QueryParam("sortDir") {
	case "", "desc":
		filter.SortDesc = true
	case "asc":
		filter.SortDesc = false
	default:
		return fail(c, http.StatusBadRequest, "invalid sort direction")
	}

	tasks, total, err := s.store.ListTasks(c.Request().Context(), userID(c), filter)
	if err != nil {
		logger.Error("list tasks failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	totalPages := int((total + int64(filter.Size) - 1) / int64(filter.Size))
	if tasks == nil {
		tasks = []model.Task{}
	}

	return respond(c, http.StatusOK, "Tasks retrieved successfully", pageResponse{
		Content:       tasks,
		PageNumber:    filter.Page,
		PageSize:      filter.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		Last:          filter.Page >= totalPages-1,
	})
}

// handleCreateTask stores a new task for the current user
func (s *Server) handleCreateTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	task, msg := req.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	now := time.Now().UTC()
	task.ID = uuid.New().String()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.store.InsertTask(c.Request().Context(), userID(c), task); err != nil {
		logger.Error("create task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return respond(c, http.StatusCreated, "Task created successfully", task)
}

// handleGetTask serves a single task
func (s *Server) handleGetTask(c echo.Context) error {
	task, err := s.store.GetTask(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		if err == errNotFound {
			return fail(c, http.StatusNotFound, "task not found")
		}
		logger.Error("get task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusOK, "Task retrieved successfully", task)
}

// handleUpdateTask replaces a task's fields
func (s *Server) handleUpdateTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request")
	}

	existing, err := s.store.GetTask(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		if err == errNotFound {
			return fail(c, http.StatusNotFound, "task not found")
		}
		logger.Error("get task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	task, msg := req.validate()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	task.ID = existing.ID
	task.CreatedAt = existing.CreatedAt
	task.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateTask(c.Request().Context(), userID(c), task); err != nil {
		logger.Error("update task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return respond(c, http.StatusOK, "Task updated successfully", task)
}

// handleDeleteTask removes a task; responds 204 with no body
func (s *Server) handleDeleteTask(c echo.Context) error {
	err := s.store.DeleteTask(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		if err == errNotFound {
			return fail(c, http.StatusNotFound, "task not found")
		}
		logger.Error("delete task failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}

// handleStatistics serves the aggregate counts for the dashboard
func (s *Server) handleStatistics(c echo.Context) error {
	stats, err := s.store.Statistics(c.Request().Context(), userID(c))
	if err != nil {
		logger.Error("statistics failed", logger.F("error", err))
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return respond(c, http.StatusOK, "Statistics retrieved successfully", stats)
}
