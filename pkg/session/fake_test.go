package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"websession/pkg/client"
)

const (
	testBase      = "https://app.example.com"
	testLoginPath = "/accounts/login/"
	testToken     = "abc123"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type sentRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	Manual  bool
}

// fakeApp behaves like a Django login flow: GET on the login path renders the
// form and sets csrftoken, POST with the right credentials sets sessionid and
// redirects.
type fakeApp struct {
	clock *fakeClock

	mu       sync.Mutex
	requests []sentRequest

	loginPage    string
	rejectLogin  bool
	sessionTTL   time.Duration
	postDelay    time.Duration
	postStarted  chan struct{}
	postGate     chan struct{}
	extraCookies []string
	failPath     string
}

func newFakeApp(clock *fakeClock) *fakeApp {
	return &fakeApp{
		clock:      clock,
		loginPage:  `<form method="post"><input type="hidden" name="csrfmiddlewaretoken" value="` + testToken + `"></form>`,
		sessionTTL: time.Hour,
	}
}

func (f *fakeApp) cookie(name, value string, ttl time.Duration) string {
	return fmt.Sprintf("%s=%s; expires=%s; Path=/", name, value, f.clock.Now().Add(ttl).Format(http.TimeFormat))
}

func (f *fakeApp) Send(ctx context.Context, url string, opts *client.Options) (*client.Response, error) {
	req := sentRequest{
		Method:  opts.HTTPMethod(),
		URL:     url,
		Headers: opts.Headers,
		Body:    opts.Body,
		Manual:  opts.Redirect == client.RedirectManual,
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.failPath != "" && strings.HasSuffix(url, f.failPath) {
		return nil, fmt.Errorf("dial tcp: connection refused")
	}

	header := make(http.Header)
	for _, c := range f.extraCookies {
		header.Add("Set-Cookie", c)
	}

	if url == testBase+testLoginPath {
		if req.Method == http.MethodGet {
			header.Add("Set-Cookie", f.cookie("csrftoken", "csrfcookie", 24*time.Hour))
			return client.NewResponse(http.StatusOK, header, []byte(f.loginPage)), nil
		}

		if f.postStarted != nil {
			select {
			case f.postStarted <- struct{}{}:
			default:
			}
		}
		if f.postGate != nil {
			<-f.postGate
		}
		if f.postDelay > 0 {
			time.Sleep(f.postDelay)
		}
		if f.rejectLogin {
			return client.NewResponse(http.StatusOK, header, []byte("invalid credentials")), nil
		}
		header.Add("Set-Cookie", f.cookie("sessionid", "s3cr3tsession", f.sessionTTL))
		header.Set("Location", "/")
		return client.NewResponse(http.StatusFound, header, nil), nil
	}

	return client.NewResponse(http.StatusOK, header, []byte("content of "+url)), nil
}

func (f *fakeApp) sent() []sentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentRequest(nil), f.requests...)
}

func (f *fakeApp) count(method, path string) int {
	n := 0
	for _, r := range f.sent() {
		if r.Method == method && r.URL == testBase+path {
			n++
		}
	}
	return n
}

func testConfig() Config {
	return Config{
		BaseURL:           testBase,
		LoginPath:         testLoginPath,
		Username:          "alice",
		Password:          "wonderland",
		SessionCookieName: "sessionid",
		CSRFFieldName:     "csrfmiddlewaretoken",
	}
}
