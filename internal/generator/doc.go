// Package generator runs the subscription pipeline end to end.
//
// A run loads the template, the subscription list and the optional URL
// format, validates the README markers, then processes every entry in file
// order: derive the base name, wrap and fetch the source URL, render the
// template with the provider's raw URL and relative path, and write the
// provider body and the rendered config. Per-entry failures are logged and
// recorded as skips. After the last entry the README section is rewritten once
// with the sorted listing of generated configs.
//
// Runs are strictly sequential. A workspace lock rejects a second concurrent
// run so two runs never interleave writes to the output directories.
package generator
