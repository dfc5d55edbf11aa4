package templating

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder replaces literal tokens with field values.
type Placeholder struct {
	tokens map[string]string
}

// NewPlaceholder builds a Placeholder from a field to token mapping. Tokens
// must be non-empty and distinct.
func NewPlaceholder(tokens map[string]string) (*Placeholder, error) {
	if len(tokens) == 0 {
		return nil, errors.New("placeholder strategy: no fields configured")
	}
	seen := make(map[string]string, len(tokens))
	copied := make(map[string]string, len(tokens))
	for _, field := range sortedKeys(tokens) {
		token := tokens[field]
		if token == "" {
			return nil, fmt.Errorf("placeholder strategy: field %q has an empty token", field)
		}
		if other, ok := seen[token]; ok {
			return nil, fmt.Errorf("placeholder strategy: fields %q and %q share token %q", other, field, token)
		}
		seen[token] = field
		copied[field] = token
	}
	return &Placeholder{tokens: copied}, nil
}

func (p *Placeholder) Name() string { return "placeholder" }

// Render replaces every occurrence of each located token in a single pass, so
// a value containing another token is never expanded again.
func (p *Placeholder) Render(doc Document, subs Substitutions) (Result, error) {
	text := doc.String()
	var (
		pairs   []string
		missing []string
	)
	for _, field := range subs.Fields() {
		token, ok := p.tokens[field]
		if !ok || !strings.Contains(text, token) {
			missing = append(missing, field)
			continue
		}
		pairs = append(pairs, token, subs[field])
	}
	if len(pairs) == 0 {
		return Result{Output: doc.Bytes(), Missing: missing}, nil
	}
	out := strings.NewReplacer(pairs...).Replace(text)
	return Result{Output: []byte(out), Missing: missing}, nil
}

func (p *Placeholder) Check(doc Document) []string {
	text := doc.String()
	var missing []string
	for _, field := range sortedKeys(p.tokens) {
		if !strings.Contains(text, p.tokens[field]) {
			missing = append(missing, field)
		}
	}
	return missing
}
