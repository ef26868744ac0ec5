package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aymane70/taskman/internal/model"
)

func strPtr(s string) *string { return &s }

func TestDefaultQuery(t *testing.T) {
	q := DefaultQuery()

	assert.Equal(t, "createdAt", q.SortBy)
	assert.Equal(t, "desc", q.SortDir)
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, 10, q.PageSize)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.Status)
	assert.Empty(t, q.Priority)
}

func TestMergeResetsPageOnFilterChange(t *testing.T) {
	q := DefaultQuery()
	q.Page = 3

	status := model.StatusDone
	next := q.merge(Patch{Status: &status})

	assert.Equal(t, model.StatusDone, next.Status)
	assert.Equal(t, 0, next.Page, "page must reset when a filter changes")
}

func TestMergeResetsPageOnSortChange(t *testing.T) {
	q := DefaultQuery()
	q.Page = 2

	next := q.merge(Patch{SortBy: strPtr("dueDate")})
	assert.Equal(t, 0, next.Page)

	next.Page = 2
	next = next.merge(Patch{SortDir: strPtr("asc")})
	assert.Equal(t, 0, next.Page)
}

func TestMergeKeepsPageWhenNothingChanges(t *testing.T) {
	q := DefaultQuery()
	q.Search = "report"
	q.Page = 4

	// Patching in the value already present is not a change.
	next := q.merge(Patch{Search: strPtr("report")})

	assert.Equal(t, 4, next.Page, "re-applying the same value must not reset the page")
}

func TestMergeLeavesNilFieldsUntouched(t *testing.T) {
	q := DefaultQuery()
	q.Search = "report"
	q.Status = model.StatusTodo

	priority := model.PriorityHigh
	next := q.merge(Patch{Priority: &priority})

	assert.Equal(t, "report", next.Search)
	assert.Equal(t, model.StatusTodo, next.Status)
	assert.Equal(t, model.PriorityHigh, next.Priority)
}

func TestMergeClearingFilterResetsPage(t *testing.T) {
	q := DefaultQuery()
	q.Search = "report"
	q.Page = 1

	next := q.merge(Patch{Search: strPtr("")})

	assert.Empty(t, next.Search)
	assert.Equal(t, 0, next.Page)
}

func TestListParamsCarriesQuery(t *testing.T) {
	q := Query{
		Search:   "report",
		Status:   model.StatusTodo,
		Priority: model.PriorityHigh,
		SortBy:   "dueDate",
		SortDir:  "asc",
		Page:     2,
		PageSize: 25,
	}

	p := q.listParams()

	assert.Equal(t, "report", p.Search)
	assert.Equal(t, model.StatusTodo, p.Status)
	assert.Equal(t, model.PriorityHigh, p.Priority)
	assert.Equal(t, "dueDate", p.SortBy)
	assert.Equal(t, "asc", p.SortDir)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 25, p.Size)
}
