package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/aymane70/taskman/internal/model"
)

// validate mirrors the server's payload constraints so obviously bad input
// never leaves the client.
var validate = validator.New()

// ListParams is the request side of a collection query. Zero-valued filter
// fields are left out of the request entirely.
type ListParams struct {
	Search   string
	Status   model.Status
	Priority model.Priority
	SortBy   string
	SortDir  string
	Page     int
	Size     int
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	q.Set("sortBy", p.SortBy)
	q.Set("sortDir", p.SortDir)
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Priority != "" {
		q.Set("priority", string(p.Priority))
	}
	return q
}

// Page is one page of the task collection as reported by the server
type Page struct {
	Content       []model.Task `json:"content"`
	PageNumber    int          `json:"pageNumber"`
	PageSize      int          `json:"pageSize"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
	Last          bool         `json:"last"`
}

// ListTasks fetches one page of the collection
func (c *Client) ListTasks(ctx context.Context, p ListParams) (Page, error) {
	var page Page
	err := c.do(ctx, http.MethodGet, "/api/tasks", p.values(), nil, &page)
	return page, err
}

// GetTask fetches a single task by id
func (c *Client) GetTask(ctx context.Context, id string) (model.Task, error) {
	var task model.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, nil, &task)
	return task, err
}

// CreateTask submits a new task and returns the server's record
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	if err := validate.Struct(in); err != nil {
		return model.Task{}, &Error{Kind: KindValidation, Message: inputMessage(err), Err: err}
	}
	var task model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", nil, in, &task)
	return task, err
}

// UpdateTask replaces the task's fields and returns the updated record
func (c *Client) UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	if err := validate.Struct(in); err != nil {
		return model.Task{}, &Error{Kind: KindValidation, Message: inputMessage(err), Err: err}
	}
	var task model.Task
	err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), nil, in, &task)
	return task, err
}

// DeleteTask removes the task. The caller is responsible for any
// confirmation step; deletion here is immediate.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// Statistics fetches the aggregate counts from the summary endpoint
func (c *Client) Statistics(ctx context.Context) (model.Statistics, error) {
	var stats model.Statistics
	err := c.do(ctx, http.MethodGet, "/api/tasks/statistics", nil, nil, &stats)
	return stats, err
}

// inputMessage flattens a validator error into something displayable
func inputMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid input"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " is too long (max " + fe.Param() + " characters)"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
