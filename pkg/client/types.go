package client

import (
	"context"
	"net/http"
	"time"
)

// RedirectPolicy tells a Sender what to do with 3xx responses.
type RedirectPolicy int

const (
	// RedirectFollow follows redirects and returns the final response.
	RedirectFollow RedirectPolicy = iota
	// RedirectManual returns the first response as is, 3xx included, so its
	// Set-Cookie headers are observed.
	RedirectManual
)

// Options describes one outgoing request.
type Options struct {
	Method   string
	Headers  map[string]string
	Body     string
	Redirect RedirectPolicy
}

// HTTPMethod returns the request method, GET when unset.
func (o *Options) HTTPMethod() string {
	if o == nil || o.Method == "" {
		return http.MethodGet
	}
	return o.Method
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Duration   time.Duration

	body []byte
}

// NewResponse builds a Response from its parts.
func NewResponse(status int, header http.Header, body []byte) *Response {
	if header == nil {
		header = make(http.Header)
	}
	return &Response{StatusCode: status, Header: header, body: body}
}

// SetCookies returns every Set-Cookie header value, in order.
func (r *Response) SetCookies() []string {
	return r.Header.Values("Set-Cookie")
}

// Body returns the raw response body.
func (r *Response) Body() []byte {
	return r.body
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.body)
}

// Sender is the HTTP capability the session layer is built on.
type Sender interface {
	Send(ctx context.Context, url string, opts *Options) (*Response, error)
}
