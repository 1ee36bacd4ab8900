// Package toc loads a municipal development code's table of contents from
// JSON and extracts structured entries from it. Three source shapes are
// recognized: a structured object with a "toc" array, a bare array of
// entries, and an extracted-PDF shape whose top-level values carry page
// text. Page text is mined for entries with regex sweeps.
package toc

import (
	"errors"
	"fmt"
	"os"

	"github.com/coolbeans/ordinance/pkg/pattern"
)

// ErrUnsupportedFormat is returned when a TOC payload matches none of the
// recognized source shapes. No partial result accompanies it.
var ErrUnsupportedFormat = errors.New("unsupported TOC data structure")

// Entry is a single table-of-contents entry.
type Entry struct {
	Number string `json:"number"`
	Title  string `json:"title"`
	Page   string `json:"page,omitempty"`
	Level  int    `json:"level"`
}

// SourceKind identifies which of the recognized TOC source shapes a payload
// uses.
type SourceKind int

const (
	// SourceUnknown means the payload matched no recognized shape.
	SourceUnknown SourceKind = iota

	// SourceStructured is an object with a "toc" array of entries.
	SourceStructured

	// SourceList is a bare array of entries.
	SourceList

	// SourcePages is an extracted-PDF object whose top-level values carry
	// {"text": ...} page objects.
	SourcePages
)

// String returns a human-readable name for the source kind.
func (kind SourceKind) String() string {
	switch kind {
	case SourceStructured:
		return "structured"
	case SourceList:
		return "list"
	case SourcePages:
		return "pages"
	default:
		return "unknown"
	}
}

// LoadFile reads a TOC JSON file and parses it into entries.
func LoadFile(path string, patterns *pattern.Set) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not load TOC file %q: %w", path, err)
	}

	entries, err := Parse(data, patterns)
	if err != nil {
		return nil, fmt.Errorf("TOC file %q: %w", path, err)
	}
	return entries, nil
}

// Parse decodes a TOC JSON payload into entries, probing for the source
// shape first. A payload matching none of the recognized shapes returns
// ErrUnsupportedFormat.
func Parse(data []byte, patterns *pattern.Set) ([]Entry, error) {
	if patterns == nil {
		patterns = pattern.Default()
	}

	kind, err := DetectSource(data)
	if err != nil {
		return nil, err
	}

	switch kind {
	case SourceStructured:
		return parseStructured(data)
	case SourceList:
		return parseList(data)
	case SourcePages:
		return parsePages(data, patterns)
	default:
		return nil, ErrUnsupportedFormat
	}
}
