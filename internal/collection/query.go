package collection

import (
	"github.com/aymane70/taskman/internal/api"
	"github.com/aymane70/taskman/internal/model"
)

// Defaults for a fresh view query
const (
	DefaultSortBy   = "createdAt"
	DefaultSortDir  = "desc"
	DefaultPageSize = 10
)

// Query is the closed set of user-controlled parameters describing which
// slice of the collection is displayed. Zero-valued Search/Status/Priority
// mean "no filter" and are omitted from requests.
type Query struct {
	Search   string
	Status   model.Status
	Priority model.Priority
	SortBy   string
	SortDir  string
	Page     int
	PageSize int
}

// DefaultQuery returns the initial view query
func DefaultQuery() Query {
	return Query{
		SortBy:   DefaultSortBy,
		SortDir:  DefaultSortDir,
		Page:     0,
		PageSize: DefaultPageSize,
	}
}

// Patch is a partial query update. Nil fields are left unchanged. Page is
// deliberately absent: page moves go through SetPage so that filter
// changes and page navigation stay distinct operations.
type Patch struct {
	Search   *string
	Status   *model.Status
	Priority *model.Priority
	SortBy   *string
	SortDir  *string
}

// merge applies the patch and resets Page to 0 when any filter or sort
// field actually changed, since the old page index is meaningless under
// new criteria.
func (q Query) merge(p Patch) Query {
	next := q
	if p.Search != nil {
		next.Search = *p.Search
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}
	if p.SortBy != nil {
		next.SortBy = *p.SortBy
	}
	if p.SortDir != nil {
		next.SortDir = *p.SortDir
	}

	if next.Search != q.Search || next.Status != q.Status || next.Priority != q.Priority ||
		next.SortBy != q.SortBy || next.SortDir != q.SortDir {
		next.Page = 0
	}
	return next
}

// listParams converts the query into request parameters, leaving unset
// filters out so the server never sees spurious constraints.
func (q Query) listParams() api.ListParams {
	return api.ListParams{
		Search:   q.Search,
		Status:   q.Status,
		Priority: q.Priority,
		SortBy:   q.SortBy,
		SortDir:  q.SortDir,
		Page:     q.Page,
		Size:     q.PageSize,
	}
}
