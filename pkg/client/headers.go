package client

import (
	"math/rand"

	"github.com/go-resty/resty/v2"
)

// HeaderInjector adds configured default headers and a User-Agent to every
// request.
type HeaderInjector struct {
	Headers    map[string]string
	UserAgents []string
}

func NewHeaderInjector(headers map[string]string, userAgents []string) *HeaderInjector {
	return &HeaderInjector{
		Headers:    headers,
		UserAgents: userAgents,
	}
}

// UserAgent picks one of the configured agents, or "" when none is set.
func (h *HeaderInjector) UserAgent() string {
	switch len(h.UserAgents) {
	case 0:
		return ""
	case 1:
		return h.UserAgents[0]
	}
	// Go 1.20+ auto-seeds
	return h.UserAgents[rand.Intn(len(h.UserAgents))]
}

// Apply sets the defaults on req. Headers set on req afterwards win.
func (h *HeaderInjector) Apply(req *resty.Request) {
	for k, v := range h.Headers {
		req.SetHeader(k, v)
	}
	if ua := h.UserAgent(); ua != "" {
		req.SetHeader("User-Agent", ua)
	}
}
