// Package mdparse provides the line-oriented Markdown primitives used by the
// content analyzer: header extraction and declared-version detection. It does
// not build a document tree; a header is any line whose first non-blank
// character is '#'.
package mdparse

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// HeaderMarker is the character that introduces a header line.
const HeaderMarker = '#'

// Document is the parsed view of one Markdown file.
type Document struct {
	Headers []string // header texts in file order, duplicates preserved
	Version string   // declared version, empty when none
}

// HasVersion reports whether the document declares a version.
func (d Document) HasVersion() bool { return d.Version != "" }

// ParseFile reads the file at path and parses it.
func ParseFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("mdparse: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseReader(f)
}

// ParseReader reads from r and parses it.
// This enables testing without requiring files on disk.
func ParseReader(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("mdparse: read: %w", err)
	}
	text := string(raw)

	// Lines are unbounded: inline data URIs can run to megabytes.
	headers := []string{}
	for _, line := range strings.Split(text, "\n") {
		if IsHeader(line) {
			headers = append(headers, HeaderText(line))
		}
	}

	version, _ := DeclaredVersion(text)
	return Document{Headers: headers, Version: version}, nil
}

// IsHeader returns true when the first non-whitespace character of line is
// the header marker. Unlike CommonMark, no space after the marker is needed
// and indentation does not turn the line into a code block.
func IsHeader(line string) bool {
	t := strings.TrimLeft(line, " \t\r\v\f")
	return len(t) > 0 && t[0] == HeaderMarker
}

// HeaderText strips leading marker characters and surrounding whitespace.
func HeaderText(line string) string {
	t := strings.TrimSpace(line)
	t = strings.TrimLeft(t, string(HeaderMarker))
	return strings.TrimSpace(t)
}

var (
	// versionFieldRe matches "version: <token>"; \s also spans a line break.
	versionFieldRe = regexp.MustCompile(`(?i)version:\s*(\S+)`)
	// versionTagRe matches "v<major>.<minor>[.<patch>]" anywhere in the text.
	versionTagRe = regexp.MustCompile(`(?i)v(\d+\.\d+(?:\.\d+)?)`)
)

// DeclaredVersion returns the version a document declares about itself. A
// "version:" field takes precedence over a bare vX.Y[.Z] tag; within each
// pattern the first occurrence wins.
func DeclaredVersion(text string) (string, bool) {
	if m := versionFieldRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := versionTagRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}
