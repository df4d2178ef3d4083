package httpclient

import (
	"net/http"
	"time"
)

// Client wraps http.Client with a fixed per-request timeout. Callers attach
// cancellation through the request context.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
