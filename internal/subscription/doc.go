// Package subscription parses the subscriptions list and derives the values the
// generator needs per entry: the output base name and the wrapped fetch URL.
//
// Each non-blank, non-comment line is either `URL` or `URL, customName`. The
// base name is the custom name when present, else the last URL path segment
// with its extension removed. Wrapping substitutes the query-escaped URL into
// a conversion-service format string at its `[URL]` token.
package subscription
