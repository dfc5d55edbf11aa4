package templating

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

type span struct {
	start int
	end   int
	text  string
}

// splice replaces each target's source text in place. It reports false when
// any target cannot be mapped back to an exact single span, in which case the
// caller falls back to re-encoding.
func splice(src []byte, targets []target) ([]byte, bool) {
	offsets := lineOffsets(src)
	spans := make([]span, 0, len(targets))
	for _, t := range targets {
		if t.node.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return nil, false
		}
		start, ok := offsetOf(src, offsets, t.node.Line, t.node.Column)
		if !ok {
			return nil, false
		}
		end, ok := scalarEnd(src, start, t.node.Style, t.flow)
		if !ok || !sameScalar(src[start:end], t.node.Value) {
			return nil, false
		}
		text, ok := encodeScalar(t.value, t.node.Style, t.flow)
		if !ok {
			return nil, false
		}
		spans = append(spans, span{start: start, end: end, text: text})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return nil, false
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(src))
	prev := 0
	for _, s := range spans {
		buf.Write(src[prev:s.start])
		buf.WriteString(s.text)
		prev = s.end
	}
	buf.Write(src[prev:])
	return buf.Bytes(), true
}

func lineOffsets(src []byte) []int {
	offsets := []int{0}
	for i, b := range src {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// offsetOf converts a 1-based line and rune column into a byte offset.
func offsetOf(src []byte, offsets []int, line, column int) (int, bool) {
	if line < 1 || line > len(offsets) || column < 1 {
		return 0, false
	}
	pos := offsets[line-1]
	for i := 1; i < column; i++ {
		if pos >= len(src) || src[pos] == '\n' {
			return 0, false
		}
		_, size := utf8.DecodeRune(src[pos:])
		pos += size
	}
	return pos, pos <= len(src)
}

func scalarEnd(src []byte, start int, style yaml.Style, flow bool) (int, bool) {
	if start >= len(src) {
		return 0, false
	}
	switch {
	case style&yaml.DoubleQuotedStyle != 0:
		if src[start] != '"' {
			return 0, false
		}
		for i := start + 1; i < len(src); i++ {
			switch src[i] {
			case '\\':
				i++
			case '"':
				return i + 1, true
			}
		}
		return 0, false
	case style&yaml.SingleQuotedStyle != 0:
		if src[start] != '\'' {
			return 0, false
		}
		for i := start + 1; i < len(src); i++ {
			if src[i] != '\'' {
				continue
			}
			if i+1 < len(src) && src[i+1] == '\'' {
				i++
				continue
			}
			return i + 1, true
		}
		return 0, false
	default:
		end := start
		for end < len(src) && src[end] != '\n' {
			c := src[end]
			if c == '#' && end > start && (src[end-1] == ' ' || src[end-1] == '\t') {
				break
			}
			if flow && (c == ',' || c == ']' || c == '}') {
				break
			}
			end++
		}
		for end > start && (src[end-1] == ' ' || src[end-1] == '\t' || src[end-1] == '\r') {
			end--
		}
		return end, end > start
	}
}

// sameScalar reports whether raw parses as a lone scalar with the given value.
func sameScalar(raw []byte, value string) bool {
	node, ok := parseScalar(raw)
	return ok && node.Value == value
}

func parseScalar(raw []byte) (*yaml.Node, bool) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, false
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 || root.Content[0].Kind != yaml.ScalarNode {
		return nil, false
	}
	return root.Content[0], true
}

// encodeScalar renders value in the original quoting style. Plain values that
// would resolve to a non-string, or need escaping, are double-quoted instead.
func encodeScalar(value string, style yaml.Style, flow bool) (string, bool) {
	var text string
	switch {
	case style&yaml.SingleQuotedStyle != 0 && !strings.ContainsAny(value, "\n\r"):
		text = "'" + strings.ReplaceAll(value, "'", "''") + "'"
	case style&yaml.DoubleQuotedStyle != 0, style&yaml.SingleQuotedStyle != 0:
		text = strconv.Quote(value)
	case plainSafe(value, flow):
		text = value
	default:
		text = strconv.Quote(value)
	}
	node, ok := parseScalar([]byte(text))
	if !ok || node.Value != value || node.ShortTag() != "!!str" {
		return "", false
	}
	return text, true
}

func plainSafe(value string, flow bool) bool {
	if value == "" || strings.TrimSpace(value) != value || strings.ContainsAny(value, "\n\r\t") {
		return false
	}
	if flow && strings.ContainsAny(value, ",[]{}") {
		return false
	}
	node, ok := parseScalar([]byte(value))
	return ok && node.Style == 0 && node.Value == value && node.ShortTag() == "!!str"
}
