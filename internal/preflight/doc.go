// Package preflight provides readiness checks for the workspace clashsub
// generates into.
//
// These checks run in two contexts:
//   - The generator validates the README markers and required inputs before
//     the first fetch, so a structural problem never costs a full run.
//   - The CLI "clashsub check" command runs RunAll and prints every result.
//
// Each check is gated by its config toggle; disabled features are skipped.
package preflight
