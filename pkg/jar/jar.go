package jar

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Jar is an in-memory cookie store keyed by cookie name. It is safe for
// concurrent use; every read of the active set may evict expired entries.
type Jar struct {
	mu      sync.Mutex
	cookies []Cookie // insertion order, names unique
	now     func() time.Time
}

// Option configures a Jar.
type Option func(*Jar)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(j *Jar) {
		if now != nil {
			j.now = now
		}
	}
}

// New returns an empty jar.
func New(opts ...Option) *Jar {
	j := &Jar{now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// HeaderValue evicts expired cookies and returns the remaining ones as
// "name=value" pairs joined by "; ", in insertion order. It returns an empty
// string when no cookie is active.
func (j *Jar) HeaderValue() string {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pruneLocked()

	pairs := make([]string, 0, len(j.cookies))
	for _, c := range j.cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// HasActive reports whether a non-expired cookie named name is in the jar.
func (j *Jar) HasActive(name string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pruneLocked()
	return j.indexLocked(name) >= 0
}

// Names returns the names of the active cookies in insertion order.
func (j *Jar) Names() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pruneLocked()
	names := make([]string, len(j.cookies))
	for i, c := range j.cookies {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of active cookies.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pruneLocked()
	return len(j.cookies)
}

// Merge parses raw Set-Cookie header values and stores the cookies they carry.
// A cookie whose name is already present has its value and expiry replaced in
// place. Values that cannot be parsed are skipped; the returned error then
// collects one ErrMalformedCookie per skipped value while every well-formed
// value of the same call is still applied.
func (j *Jar) Merge(setCookies []string) error {
	var result *multierror.Error

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, raw := range setCookies {
		c, err := parseSetCookie(raw)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		j.putLocked(c)
	}
	j.pruneLocked()

	return result.ErrorOrNil()
}

// Set stores c as if it had arrived in a Set-Cookie header.
func (j *Jar) Set(c Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.putLocked(c)
	j.pruneLocked()
}

// Clear drops every cookie.
func (j *Jar) Clear() {
	j.mu.Lock()
	j.cookies = nil
	j.mu.Unlock()
}

func (j *Jar) putLocked(c Cookie) {
	if i := j.indexLocked(c.Name); i >= 0 {
		j.cookies[i].Value = c.Value
		j.cookies[i].Expires = c.Expires
		return
	}
	j.cookies = append(j.cookies, c)
}

func (j *Jar) indexLocked(name string) int {
	for i := range j.cookies {
		if j.cookies[i].Name == name {
			return i
		}
	}
	return -1
}

// pruneLocked removes every cookie expired at the current time.
func (j *Jar) pruneLocked() {
	now := j.now()
	active := j.cookies[:0]
	for _, c := range j.cookies {
		if c.ExpiredAt(now) {
			continue
		}
		active = append(active, c)
	}
	clear(j.cookies[len(active):])
	j.cookies = active
}
