// Package jar keeps the cookies of a single logged-in web session in memory.
//
// A Jar stores cookies by name together with their expiry. Reading the active
// set (HeaderValue, HasActive, Names, Len) evicts every cookie whose expiry is
// at or before the current time, so an expired cookie never reaches an outgoing
// Cookie header and is gone from the jar afterwards. Merge folds raw Set-Cookie
// response header values back into the jar, replacing existing entries in place.
//
// Only name, value and expiry are modelled. Domain, path, secure and same-site
// attributes are ignored, and nothing is persisted.
package jar
