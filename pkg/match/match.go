// Package match implements heuristic matching of TOC entries to document
// filenames with confidence scoring. It is looser than the registry's exact
// hierarchy join: filenames are typed (section, article, appendix), numbers
// are normalized per type, and each candidate pairing gets a score so that
// reviewers can triage low-confidence matches instead of losing them.
package match

import (
	"regexp"
	"sort"
	"strings"
)

// Kind classifies what a filename or TOC entry refers to.
type Kind string

const (
	KindSection  Kind = "section"
	KindArticle  Kind = "article"
	KindAppendix Kind = "appendix"
	KindUnknown  Kind = "unknown"
)

// Confidence bands for match scores.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
	ConfidenceNone   = "none"
)

// Score thresholds for the confidence bands.
const (
	highConfidenceThreshold   = 0.9
	mediumConfidenceThreshold = 0.7
	lowConfidenceThreshold    = 0.5
)

var (
	sectionFilePattern  = regexp.MustCompile(`(?i)(?:dc-)?section-(\d+\.\d+)`)
	articleFilePattern  = regexp.MustCompile(`(?i)(?:dc-)?article-(\d+)`)
	appendixFilePattern = regexp.MustCompile(`(?i)(?:dc-)?appendix-(\d+(?:\.\d+)?)`)
)

// FileInfo is the typed number information extracted from a filename.
type FileInfo struct {
	Filename   string `json:"filename"`
	Kind       Kind   `json:"kind"`
	Number     string `json:"number"`
	Normalized string `json:"normalized"`
	BaseNumber string `json:"base_number"`
}

// ExtractFileInfo extracts document type and number from a filename.
// The second return is false when no typed number is recognized.
func ExtractFileInfo(filename string) (*FileInfo, bool) {
	if groups := sectionFilePattern.FindStringSubmatch(filename); groups != nil {
		number := groups[1]
		return &FileInfo{
			Filename:   filename,
			Kind:       KindSection,
			Number:     number,
			Normalized: NormalizeNumber(number, KindSection),
			BaseNumber: baseNumber(number),
		}, true
	}
	if groups := articleFilePattern.FindStringSubmatch(filename); groups != nil {
		number := groups[1]
		return &FileInfo{
			Filename:   filename,
			Kind:       KindArticle,
			Number:     number,
			Normalized: NormalizeNumber(number, KindArticle),
			BaseNumber: number,
		}, true
	}
	if groups := appendixFilePattern.FindStringSubmatch(filename); groups != nil {
		number := groups[1]
		return &FileInfo{
			Filename:   filename,
			Kind:       KindAppendix,
			Number:     number,
			Normalized: NormalizeNumber(number, KindAppendix),
			BaseNumber: baseNumber(number),
		}, true
	}
	return nil, false
}

// NormalizeNumber maps a number to its parent document form for comparison.
// For sections, every entry between XX.YY00 and XX.YY99 belongs to document
// XX.YY00, so 10.0410 normalizes to 10.0400. Short fractional parts are
// zero-padded; other kinds pass through unchanged.
func NormalizeNumber(number string, kind Kind) string {
	if number == "" {
		return ""
	}
	if kind != KindSection || !strings.Contains(number, ".") {
		return number
	}

	parts := strings.SplitN(number, ".", 2)
	integerPart, fractionPart := parts[0], parts[1]
	if !isDigits(fractionPart) {
		return number
	}
	if len(fractionPart) >= 2 {
		return integerPart + "." + fractionPart[:2] + "00"
	}
	for len(fractionPart) < 2 {
		fractionPart += "0"
	}
	return integerPart + "." + fractionPart + "00"
}

// KindOfEntry infers the kind of a TOC entry from its number and title.
// Dotted numbers are sections, bare integers are articles, and a title
// mentioning "appendix" overrides both.
func KindOfEntry(number, title string) Kind {
	if strings.Contains(strings.ToLower(title), "appendix") {
		return KindAppendix
	}
	if strings.Contains(number, ".") {
		return KindSection
	}
	if isDigits(number) && number != "" {
		return KindArticle
	}
	return KindUnknown
}

// Scored is a candidate file for a TOC entry with its match score.
type Scored struct {
	Filename string  `json:"filename"`
	Score    float64 `json:"score"`
}

// ClosestMatches finds candidate files for a TOC entry, highest score first.
// Exact number matches score 1.0, parent-document matches 0.95, and shared
// base numbers 0.3 as a weak fallback.
func ClosestMatches(entryNumber string, entryKind Kind, files []*FileInfo) []Scored {
	if entryNumber == "" || entryKind == KindUnknown {
		return nil
	}

	normalizedEntry := NormalizeNumber(entryNumber, entryKind)
	baseEntry := baseNumber(entryNumber)

	var matches []Scored
	for _, file := range files {
		if file.Kind != entryKind {
			continue
		}
		switch {
		case file.Number == entryNumber:
			matches = append(matches, Scored{Filename: file.Filename, Score: 1.0})
		case file.Normalized == normalizedEntry:
			// Entries XX.YY00 through XX.YY99 belong to document XX.YY00.
			matches = append(matches, Scored{Filename: file.Filename, Score: 0.95})
		case file.BaseNumber == baseEntry:
			matches = append(matches, Scored{Filename: file.Filename, Score: 0.3})
		}
	}

	sort.SliceStable(matches, func(left, right int) bool {
		return matches[left].Score > matches[right].Score
	})
	return matches
}

// ConfidenceFor bands a score into high, medium, low, or none.
func ConfidenceFor(score float64) string {
	switch {
	case score >= highConfidenceThreshold:
		return ConfidenceHigh
	case score >= mediumConfidenceThreshold:
		return ConfidenceMedium
	case score >= lowConfidenceThreshold:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

func baseNumber(number string) string {
	if index := strings.IndexByte(number, '.'); index >= 0 {
		return number[:index]
	}
	return number
}

func isDigits(text string) bool {
	if text == "" {
		return false
	}
	for _, character := range text {
		if character < '0' || character > '9' {
			return false
		}
	}
	return true
}
