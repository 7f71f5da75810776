package jar

import "time"

// Cookie is a named value with an absolute expiry.
type Cookie struct {
	Name    string
	Value   string
	Expires time.Time
}

// ExpiresAtMillis returns the expiry as milliseconds since the Unix epoch.
func (c Cookie) ExpiresAtMillis() int64 {
	return c.Expires.UnixMilli()
}

// ExpiredAt reports whether the cookie is expired at now. A cookie expiring
// exactly at now counts as expired.
func (c Cookie) ExpiredAt(now time.Time) bool {
	return !c.Expires.After(now)
}
