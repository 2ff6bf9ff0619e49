package taskpilot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SendChatMessage describes the sendchatmessage operation and its observable behavior.
//
// SendChatMessage hands a free-form message to the chat agent. The agent
// either answers directly or creates a task from the message; the response
// type distinguishes the two, and Task is populated only for the latter.
func (c *Client) SendChatMessage(ctx context.Context, message string) (*ChatResponse, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", ErrTaskInvalid)
	}

	start := time.Now()
	var resp ChatResponse
	err := c.api.PostJSON(ctx, "/chat/message", nil, chatMessageRequest{Message: message}, &resp)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}

	c.metricInc(MetricChatMessageSent)
	c.emitEvent(ctx, eventChatMessage, c.currentUserID(), true, nil, func() map[string]string {
		md := map[string]string{"type": string(resp.Type)}
		if resp.Task != nil {
			md["task_id"] = resp.Task.ID
		}
		return md
	})
	return &resp, nil
}

// ChatHistory describes the chathistory operation and its observable behavior.
//
// ChatHistory returns the persisted conversation, oldest first, capped at
// limit entries. Zero falls back to the service default of 50.
func (c *Client) ChatHistory(ctx context.Context, limit int) ([]ChatHistoryMessage, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	start := time.Now()
	var messages []ChatHistoryMessage
	err := c.api.GetJSON(ctx, "/chat/history", query, &messages)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	return messages, nil
}
