// Package section replaces the generated block between a pair of sentinel
// markers in a host text, such as the links list in a README.
//
// The host must contain exactly one start marker followed by exactly one end
// marker. Anything else (a missing marker, a duplicate, reversed order) is an
// error and the host is left untouched. Content outside the pair is preserved
// byte for byte, and replacing with the same content twice is a no-op.
package section
