package jar

import "errors"

// ErrMalformedCookie is returned (possibly wrapped in a multi-error) by Merge for
// every Set-Cookie value it could not parse.
var ErrMalformedCookie = errors.New("jar.malformed_cookie")
