package taskpilot

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// AnalyzeMessage describes the analyzemessage operation and its observable behavior.
//
// AnalyzeMessage asks the AI service for a structured reading of a free-form
// message without creating anything. The message travels as a query
// parameter; that is the service's contract, not a client choice.
func (c *Client) AnalyzeMessage(ctx context.Context, message string) (*AIAnalysis, error) {
	if c == nil || c.api == nil {
		return nil, ErrClientNotReady
	}
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", ErrTaskInvalid)
	}

	query := url.Values{}
	query.Set("message", message)

	start := time.Now()
	var analysis AIAnalysis
	err := c.api.PostJSON(ctx, "/ai/analyze", query, nil, &analysis)
	c.observeLatency(start)
	if err != nil {
		c.metricInc(MetricAPIFailure)
		return nil, mapTaskError(err)
	}
	c.metricInc(MetricAIAnalyzed)
	return &analysis, nil
}
