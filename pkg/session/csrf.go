package session

import "regexp"

// tokenPattern matches the name/value attribute pair of the hidden CSRF input:
//
//	name="<field>" value="<token>"
//	name='<field>' value='<token>'
//
// Quotes may be mixed, whitespace between the two attributes is free, and the
// token is captured as word characters only.
func tokenPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`name=["']` + regexp.QuoteMeta(field) + `["']\s+value=["'](\w+)["']`)
}

// ExtractToken returns the CSRF token for field found in html.
func ExtractToken(html, field string) (string, bool) {
	return extractToken(tokenPattern(field), html)
}

func extractToken(re *regexp.Regexp, html string) (string, bool) {
	m := re.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return m[1], true
}
