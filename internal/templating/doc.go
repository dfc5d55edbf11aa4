// Package templating derives per-subscription configs from a YAML template.
//
// A Strategy locates named fields in an immutable Document and replaces their
// values, leaving every other byte of the template untouched. Two strategies
// exist:
//
//   - Placeholder replaces literal tokens such as %%URL_PLACEHOLDER%% in one
//     pass. It never needs to understand the document and is the default.
//   - Path addresses scalars by dotted key path (proxy-providers.proxy.url).
//     The template is parsed with gopkg.in/yaml.v3 only to find the scalar's
//     source position; the value is then spliced into the original text in
//     the scalar's own quoting style. Block scalars cannot be spliced on one
//     line, so for those the node tree is re-encoded instead.
//
// Fields that cannot be located are reported in Result.Missing rather than
// failing the render, leaving the caller to decide whether to skip the entry.
package templating
