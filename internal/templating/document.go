package templating

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"clashsub/internal/config"
)

// Field names shared by the generator and the configured strategies.
const (
	FieldURL  = "url"
	FieldPath = "path"
)

// ErrFieldNotFound reports that a substitution field had no locator match.
var ErrFieldNotFound = errors.New("field not found in template")

// FieldNotFoundError lists the fields a render could not locate.
type FieldNotFoundError struct {
	Fields []string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFieldNotFound, strings.Join(e.Fields, ", "))
}

func (e *FieldNotFoundError) Unwrap() error {
	return ErrFieldNotFound
}

// Document is an immutable template text.
type Document struct {
	text string
}

// NewDocument copies data into a Document.
func NewDocument(data []byte) Document {
	return Document{text: string(data)}
}

// ReadDocument loads a template from disk.
func ReadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read template: %w", err)
	}
	return NewDocument(data), nil
}

// String returns the template text.
func (d Document) String() string { return d.text }

// Bytes returns a fresh copy of the template text.
func (d Document) Bytes() []byte { return []byte(d.text) }

// Lines splits the template on "\n" without the separators.
func (d Document) Lines() []string { return strings.Split(d.text, "\n") }

// Substitutions maps field names to replacement values.
type Substitutions map[string]string

// Fields returns the field names in sorted order.
func (s Substitutions) Fields() []string {
	return sortedKeys(s)
}

// Result is the outcome of rendering one document.
type Result struct {
	Output  []byte
	Missing []string
}

// Err returns a *FieldNotFoundError when any field was not located.
func (r Result) Err() error {
	if len(r.Missing) == 0 {
		return nil
	}
	return &FieldNotFoundError{Fields: append([]string(nil), r.Missing...)}
}

// Strategy renders documents by locating and replacing named fields.
type Strategy interface {
	// Name identifies the strategy in logs and check output.
	Name() string
	// Render returns doc with every located field replaced. The error is
	// reserved for templates the strategy cannot process at all.
	Render(doc Document, subs Substitutions) (Result, error)
	// Check lists declared fields that cannot be located in doc.
	Check(doc Document) []string
}

// FromConfig builds the strategy selected in the template settings.
func FromConfig(t config.Template) (Strategy, error) {
	switch t.Strategy {
	case config.StrategyPlaceholder, "":
		return NewPlaceholder(map[string]string{
			FieldURL:  t.URLPlaceholder,
			FieldPath: t.PathPlaceholder,
		})
	case config.StrategyPath:
		return NewPath(map[string]string{
			FieldURL:  t.URLKey,
			FieldPath: t.PathKey,
		})
	default:
		return nil, fmt.Errorf("unsupported template strategy %q", t.Strategy)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
