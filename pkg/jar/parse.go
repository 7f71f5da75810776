package jar

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Layouts accepted for the expires attribute on top of the ones http.ParseTime
// understands (RFC 1123 GMT, RFC 850, ANSI C).
var extraExpiresLayouts = []string{
	"Mon, 02-Jan-2006 15:04:05 MST",
	"Mon, 02-Jan-06 15:04:05 MST",
	time.RFC1123,
	time.RFC1123Z,
}

// parseSetCookie reads one raw Set-Cookie value of the form
// "name=value; attr; expires=<date>; attr=...". The name is everything before
// the first '=', the value everything between that '=' and the first ';'.
func parseSetCookie(raw string) (Cookie, error) {
	segments := strings.Split(raw, ";")

	name, value, ok := strings.Cut(segments[0], "=")
	if !ok {
		return Cookie{}, fmt.Errorf("%w: no name=value pair", ErrMalformedCookie)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Cookie{}, fmt.Errorf("%w: empty cookie name", ErrMalformedCookie)
	}

	rawExpires, found := "", false
	for _, attr := range segments[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(attr), "=")
		if strings.EqualFold(strings.TrimSpace(key), "expires") {
			rawExpires, found = strings.TrimSpace(val), true
			break
		}
	}
	if !found {
		return Cookie{}, fmt.Errorf("%w: cookie %q has no expires attribute", ErrMalformedCookie, name)
	}

	expires, err := parseExpires(rawExpires)
	if err != nil {
		return Cookie{}, fmt.Errorf("%w: cookie %q: %v", ErrMalformedCookie, name, err)
	}

	return Cookie{
		Name:    name,
		Value:   strings.TrimSpace(value),
		Expires: expires,
	}, nil
}

func parseExpires(s string) (time.Time, error) {
	if t, err := http.ParseTime(s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range extraExpiresLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable expires date %q", s)
}
