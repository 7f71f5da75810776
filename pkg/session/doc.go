// Package session keeps an authenticated cookie session against a
// server-rendered web application that logs users in through an HTML form
// protected by a hidden CSRF field (the Django login flow, for example).
//
// A Client owns one jar.Jar. Before every Request it checks for an active
// session cookie and, when there is none, runs the login handshake:
//
//	GET  <login path>   read the CSRF token from the form (skipped when no CSRF field is configured)
//	POST <login path>   csrf=<token>&username=<user>&password=<pass>, redirects not followed
//
// Every request carries the jar's Cookie header and every response's
// Set-Cookie headers are merged back into the jar. Concurrent callers that
// find the session missing share a single in-flight login.
package session
