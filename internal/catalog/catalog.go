// Package catalog holds the template definitions that documentation files are
// checked against, and resolves discovered filenames to a definition.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateKey is returned when two entries share a catalog key.
	ErrDuplicateKey = errors.New("catalog: duplicate key")
	// ErrInvalidDefinition is returned for an entry without a key or name.
	ErrInvalidDefinition = errors.New("catalog: invalid definition")
)

// Template is the section contract for one category of project document.
type Template struct {
	Name             string
	Version          string
	RequiredSections []string
	OptionalSections []string
}

func (t Template) clone() Template {
	t.RequiredSections = slices.Clone(t.RequiredSections)
	t.OptionalSections = slices.Clone(t.OptionalSections)
	return t
}

// Entry binds a canonical template filename to its definition.
type Entry struct {
	Key      string
	Template Template
}

// Catalog is an immutable, ordered set of template definitions. Declaration
// order is significant: fuzzy matching walks entries in that order.
type Catalog struct {
	entries []Entry
	byKey   map[string]int
}

// New builds a catalog from entries in the order given. Definitions are
// copied so later changes to the arguments do not leak into the catalog.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Key == "" || e.Template.Name == "" {
			return nil, fmt.Errorf("%w: entry %d must have a key and a name", ErrInvalidDefinition, i)
		}
		if _, ok := c.byKey[e.Key]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, e.Key)
		}
		c.byKey[e.Key] = len(c.entries)
		c.entries = append(c.entries, Entry{Key: e.Key, Template: e.Template.clone()})
	}
	return c, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew(entries ...Entry) *Catalog {
	c, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Keys returns the catalog keys in declaration order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of all entries in declaration order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = Entry{Key: e.Key, Template: e.Template.clone()}
	}
	return out
}

// Lookup returns the definition stored under key verbatim.
func (c *Catalog) Lookup(key string) (Template, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Template{}, false
	}
	return c.entries[i].Template.clone(), true
}
