package toc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coolbeans/ordinance/pkg/pattern"
	"github.com/coolbeans/ordinance/pkg/section"
)

// Match type tags produced by the text sweeps.
const (
	MatchSectionHeader = "section_header"
	MatchSubsection    = "subsection"
)

// TextMatch is a raw regex hit from TOC page text before conversion to an
// Entry.
type TextMatch struct {
	Number string
	Title  string
	Type   string
}

// entryJSON is the wire form of a structured TOC entry. Page values appear
// as strings or numbers in extracted data, so they are decoded leniently.
type entryJSON struct {
	Number string          `json:"number"`
	Title  string          `json:"title"`
	Page   json.RawMessage `json:"page"`
	Level  int             `json:"level"`
}

func (wire entryJSON) toEntry() Entry {
	return Entry{
		Number: wire.Number,
		Title:  wire.Title,
		Page:   pageString(wire.Page),
		Level:  wire.Level,
	}
}

// pageString renders a raw page value as a string: quoted strings are
// unquoted, numbers keep their literal form, null and absent become empty.
func pageString(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return trimmed
}

// parseStructured decodes a {"toc": [...]} payload.
func parseStructured(data []byte) ([]Entry, error) {
	var payload struct {
		TOC []entryJSON `json:"toc"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decoding structured TOC: %w", err)
	}

	entries := make([]Entry, 0, len(payload.TOC))
	for _, wire := range payload.TOC {
		entries = append(entries, wire.toEntry())
	}
	return entries, nil
}

// parseList decodes a bare array payload.
func parseList(data []byte) ([]Entry, error) {
	var wires []entryJSON
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("decoding TOC list: %w", err)
	}

	entries := make([]Entry, 0, len(wires))
	for _, wire := range wires {
		entries = append(entries, wire.toEntry())
	}
	return entries, nil
}

// parsePages mines entries out of extracted-PDF page text.
func parsePages(data []byte, patterns *pattern.Set) ([]Entry, error) {
	text, err := ExtractText(data)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, match := range ExtractMatches(text, patterns) {
		switch match.Type {
		case MatchSectionHeader:
			// Section headers are document-level; numbers with a long
			// fractional part normalize to XX.YY form.
			entries = append(entries, Entry{
				Number: section.NormalizeNumber(match.Number),
				Title:  match.Title,
				Level:  0,
			})
		case MatchSubsection:
			entries = append(entries, Entry{
				Number: match.Number,
				Title:  match.Title,
				Level:  1,
			})
		}
	}
	return entries, nil
}

// ExtractMatches runs the section-header and subsection sweeps independently
// over the full text. The sweeps are not mutually exclusive: a number can be
// reported by both, and duplicates are intentionally kept; downstream
// grouping by number collapses them.
func ExtractMatches(text string, patterns *pattern.Set) []TextMatch {
	if patterns == nil {
		patterns = pattern.Default()
	}

	var matches []TextMatch

	for _, groups := range patterns.SectionHeaderRegexp().FindAllStringSubmatch(text, -1) {
		matches = append(matches, TextMatch{
			Number: groups[1],
			Title:  strings.TrimSpace(groups[2]),
			Type:   MatchSectionHeader,
		})
	}

	matches = append(matches, subsectionMatches(text, patterns)...)
	return matches
}

// subsectionMatches locates subsection numbers and slices out each title by
// hand: the title runs from the end of the number match to the next
// subsection number, newline, or dot, whichever comes first. This reproduces
// the lazy-plus-lookahead sweep the pattern table implies, which RE2 cannot
// express directly.
func subsectionMatches(text string, patterns *pattern.Set) []TextMatch {
	numberSpans := patterns.SubsectionNumberRegexp().FindAllStringSubmatchIndex(text, -1)

	var matches []TextMatch
	for spanIndex, span := range numberSpans {
		number := text[span[2]:span[3]]

		titleStart := span[1]
		titleEnd := len(text)
		if spanIndex+1 < len(numberSpans) {
			titleEnd = numberSpans[spanIndex+1][0]
		}
		if newline := strings.IndexByte(text[titleStart:titleEnd], '\n'); newline >= 0 {
			titleEnd = titleStart + newline
		}
		if dot := strings.IndexByte(text[titleStart:titleEnd], '.'); dot >= 0 {
			titleEnd = titleStart + dot
		}

		title := strings.TrimSpace(text[titleStart:titleEnd])
		if title == "" {
			continue
		}
		matches = append(matches, TextMatch{
			Number: number,
			Title:  title,
			Type:   MatchSubsection,
		})
	}
	return matches
}
