package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymane70/taskman/internal/model"
)

func envelopeOK(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "ok",
		"data":    json.RawMessage(raw),
	})
}

func envelopeFail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		envelopeOK(t, w, Page{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetTokenSource(func() string { return "tok-123" })

	_, err := c.ListTasks(context.Background(), ListParams{SortBy: "createdAt", SortDir: "desc", Size: 10})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "application/json", gotContentType)
}

func TestNoBearerWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		envelopeOK(t, w, Page{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetTokenSource(func() string { return "" })

	_, err := c.ListTasks(context.Background(), ListParams{SortBy: "createdAt", SortDir: "desc", Size: 10})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestListParamsOmitEmptyFilters(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		envelopeOK(t, w, Page{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ListTasks(context.Background(), ListParams{
		SortBy: "createdAt", SortDir: "desc", Page: 2, Size: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"10"}, gotQuery["size"])
	assert.Equal(t, []string{"createdAt"}, gotQuery["sortBy"])
	assert.NotContains(t, gotQuery, "search")
	assert.NotContains(t, gotQuery, "status")
	assert.NotContains(t, gotQuery, "priority")
}

func TestListParamsCarryFilters(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		envelopeOK(t, w, Page{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ListTasks(context.Background(), ListParams{
		Search: "report", Status: model.StatusTodo, Priority: model.PriorityHigh,
		SortBy: "dueDate", SortDir: "asc", Size: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"report"}, gotQuery["search"])
	assert.Equal(t, []string{"TODO"}, gotQuery["status"])
	assert.Equal(t, []string{"HIGH"}, gotQuery["priority"])
	assert.Equal(t, []string{"dueDate"}, gotQuery["sortBy"])
	assert.Equal(t, []string{"asc"}, gotQuery["sortDir"])
}

func TestErrorKindMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		path   string
		kind   Kind
	}{
		{"validation", http.StatusBadRequest, "/api/tasks", KindValidation},
		{"not found", http.StatusNotFound, "/api/tasks/nope", KindNotFound},
		{"server", http.StatusInternalServerError, "/api/tasks", KindServer},
		{"bad login is authentication", http.StatusUnauthorized, "/api/auth/login", KindAuthentication},
		{"dead token is authorization", http.StatusUnauthorized, "/api/tasks", KindAuthorization},
		{"forbidden task is authorization", http.StatusForbidden, "/api/tasks/123", KindAuthorization},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				envelopeFail(w, tc.status, "nope")
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			var err error
			switch {
			case strings.HasPrefix(tc.path, "/api/auth/"):
				_, err = c.Login(context.Background(), "alice", "wrong")
			case strings.Contains(tc.path[len("/api/tasks"):], "/"):
				_, err = c.GetTask(context.Background(), "x")
			default:
				_, err = c.ListTasks(context.Background(), ListParams{SortBy: "createdAt", SortDir: "desc", Size: 10})
			}

			require.Error(t, err)
			assert.True(t, IsKind(err, tc.kind), "expected %v, got %v", tc.kind, err)
			assert.Equal(t, "nope", Message(err))
		})
	}
}

func TestUnauthorizedHandlerFiresForTaskPathsOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelopeFail(w, http.StatusUnauthorized, "token expired")
	}))
	defer srv.Close()

	fired := 0
	c := NewClient(srv.URL)
	c.SetUnauthorizedHandler(func() { fired++ })

	_, err := c.ListTasks(context.Background(), ListParams{SortBy: "createdAt", SortDir: "desc", Size: 10})
	require.Error(t, err)
	assert.Equal(t, 1, fired)

	_, err = c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, 1, fired, "bad login credentials must not force a logout")
}

func TestNetworkErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL)
	_, err := c.ListTasks(context.Background(), ListParams{SortBy: "createdAt", SortDir: "desc", Size: 10})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
}

func TestDeleteAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	assert.NoError(t, c.DeleteTask(context.Background(), "task-1"))
}

func TestCreateTaskRejectsBadInputLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	_, err := c.CreateTask(context.Background(), model.TaskInput{
		Title:    "",
		Status:   model.StatusTodo,
		Priority: model.PriorityMedium,
	})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))

	_, err = c.CreateTask(context.Background(), model.TaskInput{
		Title:    strings.Repeat("x", 201),
		Status:   model.StatusTodo,
		Priority: model.PriorityMedium,
	})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))

	assert.False(t, called, "invalid input must never reach the server")
}

func TestLoginDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		envelopeOK(t, w, AuthPayload{
			Token: "tok-123",
			User:  model.User{ID: "u-1", Username: "alice", Email: "alice@example.com"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	payload, err := c.Login(context.Background(), "alice", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "tok-123", payload.Token)
	assert.Equal(t, "alice", payload.User.Username)
}

func TestMessageFallsBackForPlainErrors(t *testing.T) {
	assert.Equal(t, "boom", Message(assertableError("boom")))
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
