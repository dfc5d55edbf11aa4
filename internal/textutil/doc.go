// Package textutil provides filename sanitization shared by subscription
// naming and output writing.
//
// Names are NFC-normalized with golang.org/x/text before unsafe characters
// are replaced, so a custom name typed with combining marks and one typed
// precomposed produce the same output file.
package textutil
