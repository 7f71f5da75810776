package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"websession/pkg/client"
	"websession/pkg/jar"
)

const loginFlight = "login"

// Client issues requests as a logged-in user, logging in again whenever the
// session cookie is missing or expired.
type Client struct {
	cfg    Config
	sender client.Sender
	jar    *jar.Jar
	token  *regexp.Regexp
	logger *zap.Logger

	jarOpts []jar.Option
	flight  singleflight.Group
	logins  atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Cookie values, tokens and passwords are never
// logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now for cookie expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.jarOpts = append(c.jarOpts, jar.WithClock(now))
	}
}

// New validates cfg and returns a Client with an empty jar.
func New(cfg Config, sender client.Sender, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, fmt.Errorf("%w: nil sender", ErrInvalidConfig)
	}

	c := &Client{
		cfg:    cfg,
		sender: sender,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.jar = jar.New(c.jarOpts...)
	if cfg.CSRFFieldName != "" {
		c.token = tokenPattern(cfg.CSRFFieldName)
	}
	return c, nil
}

// Request sends opts to BaseURL+path, logging in first when no session cookie
// is active. opts may be nil for a plain GET.
func (c *Client) Request(ctx context.Context, path string, opts *client.Options) (*client.Response, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	return c.send(ctx, path, opts)
}

// RequestSkipAuth sends opts to BaseURL+path without checking the session.
func (c *Client) RequestSkipAuth(ctx context.Context, path string, opts *client.Options) (*client.Response, error) {
	return c.send(ctx, path, opts)
}

// Login runs the login handshake unconditionally. It returns
// ErrAuthenticationRejected when the server answered without setting the
// session cookie.
func (c *Client) Login(ctx context.Context) error {
	c.logins.Add(1)
	log := c.logger.With(zap.String("login_path", c.cfg.LoginPath), zap.String("username", c.cfg.Username))
	log.Info("Logging in.")

	fields := make([]string, 0, 3)
	if c.token != nil {
		page, err := c.RequestSkipAuth(ctx, c.cfg.LoginPath, nil)
		if err != nil {
			return fmt.Errorf("fetch login page: %w", err)
		}

		token, ok := extractToken(c.token, page.Text())
		if !ok {
			if c.cfg.Strict {
				return fmt.Errorf("%w: field %q", ErrMissingCSRFToken, c.cfg.CSRFFieldName)
			}
			log.Warn("CSRF field not found on login page, submitting an empty token.",
				zap.String("field", c.cfg.CSRFFieldName), zap.Int("status", page.StatusCode))
		}
		fields = append(fields, formField(c.cfg.CSRFFieldName, token))
	}
	fields = append(fields,
		formField("username", c.cfg.Username),
		formField("password", c.cfg.Password),
	)

	resp, err := c.RequestSkipAuth(ctx, c.cfg.LoginPath, &client.Options{
		Method:   http.MethodPost,
		Headers:  map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:     strings.Join(fields, "&"),
		Redirect: client.RedirectManual,
	})
	if err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}

	if !c.jar.HasActive(c.cfg.SessionCookieName) {
		return fmt.Errorf("%w: status %d without %q cookie",
			ErrAuthenticationRejected, resp.StatusCode, c.cfg.SessionCookieName)
	}

	log.Info("Session established.", zap.Int("status", resp.StatusCode))
	return nil
}

// Authenticated reports whether the session cookie is currently active.
func (c *Client) Authenticated() bool {
	return c.jar.HasActive(c.cfg.SessionCookieName)
}

// Logins returns how many login handshakes have been started.
func (c *Client) Logins() int64 {
	return c.logins.Load()
}

// Jar exposes the cookie jar for inspection and seeding.
func (c *Client) Jar() *jar.Jar {
	return c.jar
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// ensureSession logs in when the session cookie is missing. Concurrent callers
// share one handshake; the check is repeated inside the flight so a caller
// arriving just after a finished login does not start another one. The
// handshake is detached from the caller that started it, and each caller
// stops waiting when its own ctx is done.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.jar.HasActive(c.cfg.SessionCookieName) {
		return nil
	}

	ch := c.flight.DoChan(loginFlight, func() (interface{}, error) {
		if c.jar.HasActive(c.cfg.SessionCookieName) {
			return nil, nil
		}
		return nil, c.Login(context.WithoutCancel(ctx))
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err == nil {
		return nil
	}

	if !c.cfg.Strict && errors.Is(res.Err, ErrAuthenticationRejected) {
		c.logger.Warn("Login did not establish a session, continuing unauthenticated.",
			zap.Bool("shared", res.Shared), zap.Error(res.Err))
		return nil
	}
	return res.Err
}

func (c *Client) send(ctx context.Context, path string, opts *client.Options) (*client.Response, error) {
	var final client.Options
	if opts != nil {
		final = *opts
	}

	headers := make(map[string]string, len(final.Headers)+1)
	for k, v := range final.Headers {
		if strings.EqualFold(k, "Cookie") {
			continue
		}
		headers[k] = v
	}
	if cookie := c.jar.HeaderValue(); cookie != "" {
		headers["Cookie"] = cookie
	}
	final.Headers = headers

	resp, err := c.sender.Send(ctx, c.cfg.url(path), &final)
	if err != nil {
		return nil, err
	}

	if err := c.jar.Merge(resp.SetCookies()); err != nil {
		if c.cfg.Strict {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		c.logger.Warn("Ignored malformed Set-Cookie headers.", zap.String("path", path), zap.Error(err))
	}

	return resp, nil
}

func formField(name, value string) string {
	return url.QueryEscape(name) + "=" + url.QueryEscape(value)
}
