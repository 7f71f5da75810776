package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "fresh", Path: "/"})
			http.Redirect(w, r, "/home/", http.StatusFound)
			return
		}
		io.WriteString(w, "login page")
	})
	mux.HandleFunc("/home/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "home")
	})
	mux.HandleFunc("/echo/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Cookie", r.Header.Get("Cookie"))
		w.Header().Set("X-Seen-Test", r.Header.Get("X-Test"))
		w.Header().Set("X-Seen-UA", r.Header.Get("User-Agent"))
		w.Header().Set("X-Seen-Method", r.Method)
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, cfg Config) *SmartClient {
	t.Helper()
	c, err := NewSmartClient(cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return c
}

func TestSmartClient_ManualRedirectKeepsSetCookie(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, DefaultConfig())

	resp, err := c.Send(context.Background(), srv.URL+"/login/", &Options{
		Method:   http.MethodPost,
		Redirect: RedirectManual,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	require.Len(t, resp.SetCookies(), 1)
	assert.Contains(t, resp.SetCookies()[0], "sessionid=fresh")
}

func TestSmartClient_FollowRedirect(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, DefaultConfig())

	resp, err := c.Send(context.Background(), srv.URL+"/login/", &Options{Method: http.MethodPost})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "home", resp.Text())
}

func TestSmartClient_KeepsNoCookiesOfItsOwn(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, DefaultConfig())

	_, err := c.Send(context.Background(), srv.URL+"/login/", &Options{Method: http.MethodPost, Redirect: RedirectManual})
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), srv.URL+"/echo/", nil)
	require.NoError(t, err)
	assert.Equal(t, "", resp.Header.Get("X-Seen-Cookie"))
}

func TestSmartClient_HeadersAndBody(t *testing.T) {
	srv := newTestServer(t)
	cfg := DefaultConfig()
	cfg.Headers = map[string]string{"X-Test": "default"}
	cfg.UserAgents = []string{"websession-test"}
	c := newTestClient(t, cfg)

	resp, err := c.Send(context.Background(), srv.URL+"/echo/", &Options{
		Method:  http.MethodPut,
		Headers: map[string]string{"Cookie": "a=1; b=2"},
		Body:    "payload",
	})
	require.NoError(t, err)
	assert.Equal(t, "a=1; b=2", resp.Header.Get("X-Seen-Cookie"))
	assert.Equal(t, "default", resp.Header.Get("X-Seen-Test"))
	assert.Equal(t, "websession-test", resp.Header.Get("X-Seen-UA"))
	assert.Equal(t, http.MethodPut, resp.Header.Get("X-Seen-Method"))
	assert.Equal(t, "payload", resp.Text())

	resp, err = c.Send(context.Background(), srv.URL+"/echo/", &Options{
		Headers: map[string]string{"X-Test": "override"},
	})
	require.NoError(t, err)
	assert.Equal(t, "override", resp.Header.Get("X-Seen-Test"))
	assert.Equal(t, http.MethodGet, resp.Header.Get("X-Seen-Method"))
}

func TestSmartClient_CanceledContext(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, srv.URL+"/home/", nil)
	require.Error(t, err)
}

func TestNewSmartClient_InvalidProxy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Proxies = []string{"not a proxy"}

	_, err := NewSmartClient(cfg)
	require.Error(t, err)
}

func TestOptions_HTTPMethod(t *testing.T) {
	var nilOpts *Options
	assert.Equal(t, http.MethodGet, nilOpts.HTTPMethod())
	assert.Equal(t, http.MethodGet, (&Options{}).HTTPMethod())
	assert.Equal(t, http.MethodPost, (&Options{Method: http.MethodPost}).HTTPMethod())
}
