package httpclient

import (
	"context"

	"github.com/go-resty/resty/v2"
)

// Client wraps resty for requests to payment gateways.
type Client struct {
	r *resty.Client
}

// Response is the status and raw body of a completed request.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// New creates a client that makes exactly one attempt per call and imposes no
// timeout of its own; callers bound requests through their context.
func New() *Client {
	r := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{r: r}
}

// WithHeader sets a custom header.
func (c *Client) WithHeader(key, value string) *Client {
	c.r.SetHeader(key, value)
	return c
}

// PostJSON sends body as JSON. A non-nil error means the request never
// completed (DNS, refused connection, reset, cancelled context); any HTTP
// status is reported through Response.
func (c *Client) PostJSON(ctx context.Context, url string, body interface{}) (*Response, error) {
	resp, err := c.r.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}
