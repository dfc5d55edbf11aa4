// Package testsupport builds temporary workspaces and stores for package tests.
package testsupport
