package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config holds the transport settings of a SmartClient.
type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	MaxRedirects int
	VerifyTLS    bool

	// RateLimit caps requests per second; zero disables pacing.
	RateLimit int
	MinDelay  time.Duration
	MaxDelay  time.Duration

	Proxies    []string
	Headers    map[string]string
	UserAgents []string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRedirects: 10,
		VerifyTLS:    true,
	}
}

// SmartClient sends requests through resty. It keeps no cookies of its own:
// whatever the caller puts in the Cookie header is what the server sees.
type SmartClient struct {
	follow  *resty.Client
	manual  *resty.Client
	headers *HeaderInjector
	limiter *RateLimiter
	proxies *ProxyManager
	logger  *zap.Logger
}

// Option configures a SmartClient.
type Option func(*SmartClient)

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *SmartClient) {
		if l != nil {
			c.logger = l
		}
	}
}

var _ Sender = (*SmartClient)(nil)

// NewSmartClient builds a client from cfg. It fails only on invalid proxy URLs.
func NewSmartClient(cfg Config, opts ...Option) (*SmartClient, error) {
	c := &SmartClient{
		headers: NewHeaderInjector(cfg.Headers, cfg.UserAgents),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	proxies, err := NewProxyManager(cfg.Proxies)
	if err != nil {
		return nil, err
	}
	c.proxies = proxies

	transport := NewCustomTransport(cfg.VerifyTLS, c.logger)
	if fn := proxies.ProxyFunc(); fn != nil {
		transport.Proxy = fn
	}

	if cfg.RateLimit > 0 {
		c.limiter = NewRateLimiter(cfg.RateLimit, cfg.MinDelay, cfg.MaxDelay)
	}

	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultConfig().MaxRedirects
	}

	c.follow = c.newResty(transport, cfg).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	c.manual = c.newResty(transport, cfg).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))

	return c, nil
}

func (c *SmartClient) newResty(transport http.RoundTripper, cfg Config) *resty.Client {
	r := resty.New()
	r.SetTransport(transport)
	r.SetTimeout(cfg.Timeout)
	r.SetRetryCount(cfg.MaxRetries)
	r.SetCookieJar(nil)
	r.SetLogger(newRestyLogger(c.logger))
	return r
}

// Send issues one request. Caller headers override configured defaults.
func (c *SmartClient) Send(ctx context.Context, url string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = &Options{}
	}
	method := opts.HTTPMethod()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	rc := c.follow
	if opts.Redirect == RedirectManual {
		rc = c.manual
	}

	req := rc.R().SetContext(ctx)
	c.headers.Apply(req)
	req.SetHeaders(opts.Headers)
	if opts.Body != "" {
		req.SetBody(opts.Body)
	}

	resp, err := req.Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	c.logger.Debug("Request completed.",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	out := NewResponse(resp.StatusCode(), resp.Header(), resp.Body())
	out.Duration = resp.Time()
	return out, nil
}

// Proxies returns the proxy rotation in use.
func (c *SmartClient) Proxies() *ProxyManager {
	return c.proxies
}

// restyLogger routes resty's own warnings through zap.
type restyLogger struct {
	logger *zap.SugaredLogger
}

func newRestyLogger(l *zap.Logger) *restyLogger {
	return &restyLogger{logger: l.Named("resty").Sugar()}
}

func (r *restyLogger) Errorf(format string, v ...interface{}) { r.logger.Errorf(format, v...) }
func (r *restyLogger) Warnf(format string, v ...interface{})  { r.logger.Warnf(format, v...) }
func (r *restyLogger) Debugf(format string, v ...interface{}) { r.logger.Debugf(format, v...) }
