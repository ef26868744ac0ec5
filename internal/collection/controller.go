package collection

import (
	"context"
	"sync"

	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/logger"
	"github.com/aymane70/taskman/internal/model"
)

// TaskAPI is the slice of the remote API the controller needs
type TaskAPI interface {
	ListTasks(ctx context.Context, p api.ListParams) (api.Page, error)
	CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Result is the server-derived data bound to the current query. Items and
// TotalPages are always replaced together, never independently, so readers
// observe a consistent page. An empty Items with a nil Err and Fetched set
// is a real empty page, distinct from loading and from error.
type Result struct {
	Items      []model.Task
	TotalPages int
	Loading    bool
	Err        error // last fetch failure; nil after a successful fetch
	Fetched    bool  // true once any fetch has succeeded
}

// Controller owns the view query and result for the remote task
// collection. Every fetch carries a sequence number; a response belonging
// to a superseded fetch is discarded, so the displayed page always
// reflects the most recently initiated fetch whose response has arrived,
// regardless of network completion order. Superseded requests are not
// cancelled, just ignored when they land.
type Controller struct {
	mu      sync.Mutex
	api     TaskAPI
	query   Query
	result  Result
	seq     uint64
	updates chan struct{}
}

// NewController creates a controller with the default query. Nothing is
// fetched until the first SetQuery/SetPage/Refresh call.
func NewController(taskAPI TaskAPI) *Controller {
	return &Controller{
		api:     taskAPI,
		query:   DefaultQuery(),
		updates: make(chan struct{}, 1),
	}
}

// SetPageSize overrides the page size before the first fetch
func (c *Controller) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.PageSize = size
}

// Query returns a snapshot of the current view query
func (c *Controller) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Result returns a snapshot of the current view result. The Items slice is
// replaced wholesale on each successful fetch and never mutated afterwards,
// so sharing it with readers is safe.
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Updates signals that the result changed; the view layer re-reads
// Result after each signal. Signals are coalesced, never blocking.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// SetQuery merges a partial update into the view query and starts a fetch.
// Changing any filter or sort field resets the page to 0.
func (c *Controller) SetQuery(p Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = c.query.merge(p)
	c.startFetch()
}

// SetPage moves to page n and starts a fetch. Out-of-range pages are
// ignored: n must be non-negative and, once a page count is known, below
// it. Other query fields are never touched.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 {
		return
	}
	if c.result.Fetched && n >= c.result.TotalPages {
		return
	}
	c.query.Page = n
	c.startFetch()
}

// Refresh re-issues the fetch for the current query without changing it
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startFetch()
}

// Create submits a new task and refreshes the visible page on success
func (c *Controller) Create(ctx context.Context, in model.TaskInput) (model.Task, error) {
	task, err := c.api.CreateTask(ctx, in)
	if err != nil {
		return model.Task{}, err
	}
	c.Refresh()
	return task, nil
}

// Update edits a task and refreshes the visible page on success
func (c *Controller) Update(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	task, err := c.api.UpdateTask(ctx, id, in)
	if err != nil {
		return model.Task{}, err
	}
	c.Refresh()
	return task, nil
}

// Delete removes a task and refreshes the visible page on success. Any
// confirmation happens in the view layer before this is called.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	c.Refresh()
	return nil
}

// startFetch issues a fetch for the current query; holds c.mu
func (c *Controller) startFetch() {
	c.seq++
	seq := c.seq
	query := c.query
	c.result.Loading = true
	c.notify()

	go c.fetch(seq, query)
}

// fetch runs one request round-trip and applies the response unless it
// has been superseded by a newer fetch in the meantime.
func (c *Controller) fetch(seq uint64, query Query) {
	page, err := c.api.ListTasks(context.Background(), query.listParams())

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// A newer fetch was started after this one; its response (not
		// ours) owns the result and the loading flag.
		logger.Debug("Discarding stale fetch response",
			logger.F("seq", seq),
			logger.F("latest", c.seq))
		return
	}

	if err != nil {
		logger.Warn("Task fetch failed", logger.F("error", err))
		c.result.Loading = false
		c.result.Err = err
	} else {
		c.result = Result{
			Items:      page.Content,
			TotalPages: page.TotalPages,
			Fetched:    true,
		}
	}
	c.notify()
}

// notify coalesces update signals; holds c.mu
func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
