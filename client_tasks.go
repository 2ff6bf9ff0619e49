package taskpilot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskpilot/taskpilot-go/internal/httpapi"
)

// ListTasks describes the listtasks operation and its observable behavior.
//
// ListTasks returns the caller's tasks, narrowed by the given filters. The
// transport attaches the current session token; an expired session surfaces
// as [ErrUnauthorized].
func (c *Client) ListTasks(ctx context.Context, filters TaskFilters) ([]Task, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}

	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", string(filters.Status))
	}
	if filters.Priority != "" {
		query.Set("priority", string(filters.Priority))
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.Limit > 0 {
		query.Set("limit", strconv.Itoa(filters.Limit))
	}
	if filters.Offset > 0 {
		query.Set("offset", strconv.Itoa(filters.Offset))
	}

	start := time.Now()
	var tasks []Task
	err := c.api.GetJSON(ctx, "/tasks", query, &tasks)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	c.metricInc(MetricTaskListed)
	return tasks, nil
}

// GetTask describes the gettask operation and its observable behavior.
//
// GetTask returns [ErrTaskNotFound] when the id does not exist or belongs to
// another user.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}
	if id == "" {
		return nil, fmt.Errorf("%w: empty task id", ErrTaskInvalid)
	}

	start := time.Now()
	var task Task
	err := c.api.GetJSON(ctx, "/tasks/"+url.PathEscape(id), nil, &task)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	return &task, nil
}

// CreateTask describes the createtask operation and its observable behavior.
//
// CreateTask submits a new task; the service enriches it asynchronously with
// AI fields, so the returned record may not carry them yet.
func (c *Client) CreateTask(ctx context.Context, in TaskCreate) (*Task, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title required", ErrTaskInvalid)
	}

	start := time.Now()
	var task Task
	err := c.api.PostJSON(ctx, "/tasks", nil, in, &task)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	c.metricInc(MetricTaskCreated)
	c.emitEvent(ctx, eventTaskCreated, c.currentUserID(), true, nil, func() map[string]string {
		return map[string]string{"task_id": task.ID}
	})
	return &task, nil
}

// UpdateTask describes the updatetask operation and its observable behavior.
//
// UpdateTask applies a partial update; nil fields are left unchanged.
func (c *Client) UpdateTask(ctx context.Context, id string, in TaskUpdate) (*Task, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}
	if id == "" {
		return nil, fmt.Errorf("%w: empty task id", ErrTaskInvalid)
	}

	start := time.Now()
	var task Task
	err := c.api.PutJSON(ctx, "/tasks/"+url.PathEscape(id), in, &task)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	c.metricInc(MetricTaskUpdated)
	return &task, nil
}

// DeleteTask describes the deletetask operation and its observable behavior.
//
// DeleteTask returns [ErrTaskNotFound] when the id does not exist.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if c == nil || c.api == nil {
		return ErrClientNotReady
	}
	if id == "" {
		return fmt.Errorf("%w: empty task id", ErrTaskInvalid)
	}

	start := time.Now()
	err := c.api.Delete(ctx, "/tasks/"+url.PathEscape(id))
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return mapTaskError(err)
	}
	c.metricInc(MetricTaskDeleted)
	c.emitEvent(ctx, eventTaskDeleted, c.currentUserID(), true, nil, func() map[string]string {
		return map[string]string{"task_id": id}
	})
	return nil
}

// TaskStatsOverview describes the taskstatsoverview operation and its observable behavior.
//
// TaskStatsOverview returns per-status and per-priority counts for the
// caller's tasks.
func (c *Client) TaskStatsOverview(ctx context.Context) (*TaskStats, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}

	start := time.Now()
	var stats TaskStats
	err := c.api.GetJSON(ctx, "/tasks/stats/overview", nil, &stats)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	return &stats, nil
}

// SearchSimilarTasks describes the searchsimilartasks operation and its observable behavior.
//
// SearchSimilarTasks runs a semantic search over the caller's tasks. limit is
// clamped server-side to at most 20; zero falls back to the service default
// of 5.
func (c *Client) SearchSimilarTasks(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrTaskInvalid)
	}

	q := url.Values{}
	q.Set("query", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	start := time.Now()
	var results []SearchResult
	err := c.api.GetJSON(ctx, "/tasks/search/similar", q, &results)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	return results, nil
}

func (c *Client) currentUserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess.User == nil {
		return ""
	}
	return c.sess.User.ID
}

func mapTaskError(err error) error {
	var se *httpapi.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	switch {
	case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
		return wrapDetail(ErrUnauthorized, se.Detail)
	case se.StatusCode == http.StatusNotFound:
		return wrapDetail(ErrTaskNotFound, se.Detail)
	case se.StatusCode >= 400 && se.StatusCode < 500:
		return wrapDetail(ErrTaskInvalid, se.Detail)
	default:
		return wrapDetail(ErrServiceUnavailable, se.Detail)
	}
}
