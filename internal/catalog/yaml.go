package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlEntry is the on-disk shape of one catalog entry.
type yamlEntry struct {
	Key      string   `yaml:"key"`
	Name     string   `yaml:"name"`
	Version  string   `yaml:"version"`
	Required []string `yaml:"required"`
	Optional []string `yaml:"optional,omitempty"`
}

// Encode writes the catalog to w as a YAML sequence in declaration order.
func (c *Catalog) Encode(w io.Writer) error {
	docs := make([]yamlEntry, 0, len(c.entries))
	for _, e := range c.entries {
		docs = append(docs, yamlEntry{
			Key:      e.Key,
			Name:     e.Template.Name,
			Version:  e.Template.Version,
			Required: e.Template.RequiredSections,
			Optional: e.Template.OptionalSections,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("catalog: yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("catalog: yaml encode: %w", err)
	}
	return nil
}

// Decode reads a catalog written by Encode. Entry order in the document
// becomes the catalog's declaration order.
func Decode(r io.Reader) (*Catalog, error) {
	var docs []yamlEntry
	if err := yaml.NewDecoder(r).Decode(&docs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("catalog: yaml decode: %w", err)
	}
	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, Entry{Key: d.Key, Template: Template{
			Name:             d.Name,
			Version:          d.Version,
			RequiredSections: d.Required,
			OptionalSections: d.Optional,
		}})
	}
	return New(entries...)
}
