package chatclient

import (
	"context"
	"net/http"
)

type askRequest struct {
	Query    string `json:"query"`
	ThreadID string `json:"thread_id,omitempty"`
}

type threadsResponse struct {
	Threads []ThreadSummary `json:"threads"`
}

type messagesResponse struct {
	ThreadID string    `json:"thread_id"`
	Messages []Message `json:"messages"`
}

// Ask submits a query and returns the answer with its citations. An empty
// threadID starts a new conversation; the API echoes the thread the answer
// landed in.
func (c *Client) Ask(ctx context.Context, query, threadID string) (*Answer, error) {
	var answer Answer
	err := c.do(ctx, http.MethodPost, "/chat/ask", askRequest{Query: query, ThreadID: threadID}, &answer)
	if err != nil {
		c.metricInc(MetricAskFailure)
		return nil, err
	}
	c.metricInc(MetricAskSuccess)
	return &answer, nil
}

// Threads lists the caller's conversations.
func (c *Client) Threads(ctx context.Context) ([]ThreadSummary, error) {
	var resp threadsResponse
	if err := c.do(ctx, http.MethodGet, "/chat/threads", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Threads, nil
}

// Messages returns the stored turns of one conversation.
func (c *Client) Messages(ctx context.Context, threadID string) ([]Message, error) {
	var resp messagesResponse
	if err := c.do(ctx, http.MethodGet, "/chat/messages/"+threadID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// DeleteThread removes one conversation and its messages.
func (c *Client) DeleteThread(ctx context.Context, threadID string) error {
	return c.do(ctx, http.MethodDelete, "/chat/threads/"+threadID, nil, nil)
}
