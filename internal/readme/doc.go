// Package readme renders the generated links section and previews it in the
// terminal.
//
// Titles come from output file names, which users control through custom
// names in the subscriptions file, so they are passed through a bluemonday
// strict policy and markdown-escaped before they reach the README.
package readme
