package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters and control runes are removed. The result is NFC-normalized so
// visually identical names map to the same file, and trimmed of surrounding
// whitespace. Names that reduce to "." or ".." yield "".
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(fileNameReplacer.Replace(name))
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// SameName reports whether two base names collide once normalized. Comparison
// is case-insensitive because the generated files may land on case-folding
// filesystems.
func SameName(a, b string) bool {
	return strings.EqualFold(SanitizeFileName(a), SanitizeFileName(b))
}
