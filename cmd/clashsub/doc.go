// Package main hosts the clashsub CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, applies
// flag overrides, and hands off to the generator, preflight, readme and
// history packages. Add behavior to the internal packages first and surface
// it here through a command or flag.
package main
