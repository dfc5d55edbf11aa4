// Package provider downloads subscription provider bodies.
//
// The Fetcher interface is the generator's only network collaborator. The
// HTTP implementation makes exactly one bounded attempt per URL: any transport
// error, non-2xx status, or body above the configured size cap is returned to
// the caller, which skips the entry. There are no retries.
package provider
