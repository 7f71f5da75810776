package session

import (
	"fmt"
	"net/url"
	"strings"
)

// Config describes the session to maintain. It is copied at construction and
// never modified afterwards.
type Config struct {
	// BaseURL is prepended verbatim to every request path.
	BaseURL string
	// LoginPath is the path of the login form, e.g. "/accounts/login/".
	LoginPath string
	Username  string
	Password  string
	// SessionCookieName names the cookie whose presence means "logged in".
	SessionCookieName string
	// CSRFFieldName is the hidden form field carrying the CSRF token. Empty
	// disables token extraction and the token form field.
	CSRFFieldName string
	// Strict turns the fail-open cases (missing token, rejected login,
	// malformed Set-Cookie) into errors returned from Request.
	Strict bool
}

// Validate checks that every required field is set.
func (c Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "base URL")
	}
	if c.LoginPath == "" {
		missing = append(missing, "login path")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.SessionCookieName == "" {
		missing = append(missing, "session cookie name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q is not absolute", ErrInvalidConfig, c.BaseURL)
	}
	return nil
}

func (c Config) url(path string) string {
	return c.BaseURL + path
}
