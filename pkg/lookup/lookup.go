// Package lookup is the runtime side of the catalogs: a translation mapping
// with key fallback and `{$name}` placeholder substitution.
package lookup

import (
	"fmt"
	"regexp"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ContextSeparator joins a message context and its text, as gettext does.
const ContextSeparator = "\x04"

var placeholderRe = regexp.MustCompile(`\{\$([\w.-]+)\}`)

// Params are placeholder values keyed by name.
type Params map[string]any

// Catalog is an immutable translation mapping. It is safe for concurrent use.
type Catalog struct {
	entries map[string]string
	printer *message.Printer
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLanguage formats %d and %f arguments of F and PF for tag.
func WithLanguage(tag language.Tag) Option {
	return func(c *Catalog) { c.printer = message.NewPrinter(tag) }
}

// New builds a catalog from entries. The map is copied.
func New(entries map[string]string, opts ...Option) *Catalog {
	c := &Catalog{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		c.entries[k] = v
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

func (c *Catalog) lookup(keys ...string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, k := range keys {
		if v := c.entries[k]; v != "" {
			return v, true
		}
	}
	return "", false
}

// T translates key, falling back to key itself when it is absent or empty,
// then substitutes params.
func (c *Catalog) T(key string, params Params) string {
	s, ok := c.lookup(key)
	if !ok {
		s = key
	}
	return Substitute(s, params)
}

// P picks singular when count is 1 and plural otherwise, then behaves like T.
// The count is available as {$count} unless params already sets it.
func (c *Catalog) P(singular, plural string, count int, params Params) string {
	key := plural
	if count == 1 {
		key = singular
	}
	merged := make(Params, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	if v, ok := merged["count"]; !ok || isZero(v) {
		merged["count"] = count
	}
	return c.T(key, merged)
}

// C looks up text under ctx first and falls back to the plain text.
func (c *Catalog) C(text, ctx string, params Params) string {
	s, ok := c.lookup(ctx+ContextSeparator+text, text)
	if !ok {
		s = text
	}
	return Substitute(s, params)
}

// F translates key and fills %s, %d, %f and %o verbs from args in order.
// Verbs left without an argument stay as they are.
func (c *Catalog) F(key string, args ...any) string {
	return c.format(c.T(key, nil), args)
}

// PF is the plural variant of F.
func (c *Catalog) PF(singular, plural string, count int, args ...any) string {
	return c.format(c.P(singular, plural, count, nil), args)
}

// Mark returns text unchanged. It only marks text for extraction.
func Mark(text string) string { return text }

// Substitute replaces every `{$name}` with the literal value of params[name]
// in a single pass; inserted values are never expanded again. Placeholders
// without a matching key are left untouched.
func Substitute(s string, params Params) string {
	if len(params) == 0 {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		v, ok := params[m[2:len(m)-1]]
		if !ok {
			return m
		}
		return fmt.Sprint(v)
	})
}

func isZero(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case int:
		return x == 0
	case string:
		return x == ""
	case bool:
		return !x
	}
	return false
}
