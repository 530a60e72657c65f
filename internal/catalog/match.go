package catalog

import "strings"

const (
	markdownExt    = ".md"
	templateSuffix = "-template.md"
)

// Match resolves a bare filename to a template definition.
//
// An exact key match wins. Otherwise entries are tried in declaration order
// and the first one matches where the filename without ".md" is a substring
// of the key without "-template.md", or that key stem is a substring of the
// filename. ok is false when nothing matches; that is not an error.
func (c *Catalog) Match(fileName string) (key string, tmpl Template, ok bool) {
	if t, found := c.Lookup(fileName); found {
		return fileName, t, true
	}
	stem := strings.TrimSuffix(fileName, markdownExt)
	for _, e := range c.entries {
		keyStem := strings.TrimSuffix(e.Key, templateSuffix)
		if strings.Contains(keyStem, stem) || strings.Contains(fileName, keyStem) {
			return e.Key, e.Template.clone(), true
		}
	}
	return "", Template{}, false
}
