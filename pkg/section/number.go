// Package section classifies municipal code section numbers and derives the
// document-level hierarchy they imply. Document-level entries (XX.YY format)
// correspond to actual files; subsection entries (XX.YYYY format) live
// inside their parent document's file.
package section

import (
	"strings"

	"github.com/coolbeans/ordinance/pkg/pattern"
)

// Classification is the result of classifying a section number.
type Classification int

const (
	// Unclassified numbers have a fractional part that is neither 2 nor 4
	// digits (for example 10.041 or 10.040000). They are intentionally
	// ignored by hierarchy construction.
	Unclassified Classification = iota

	// DocumentLevel numbers (XX.YY) correspond to exactly one expected file.
	DocumentLevel

	// Subsection numbers (XX.YYYY) nest inside the document sharing their
	// XX.YY prefix.
	Subsection
)

// String returns a human-readable name for the classification.
func (classification Classification) String() string {
	switch classification {
	case DocumentLevel:
		return "document_level"
	case Subsection:
		return "subsection"
	default:
		return "unclassified"
	}
}

// Classifier classifies section numbers using an explicit pattern set.
type Classifier struct {
	patterns *pattern.Set
}

// NewClassifier creates a classifier backed by the given pattern set.
// A nil set uses the default pattern table.
func NewClassifier(patterns *pattern.Set) *Classifier {
	if patterns == nil {
		patterns = pattern.Default()
	}
	return &Classifier{patterns: patterns}
}

// IsDocumentLevel reports whether number is a document-level number (XX.YY).
func (classifier *Classifier) IsDocumentLevel(number string) bool {
	return classifier.patterns.DocumentLevelRegexp().MatchString(number)
}

// IsSubsection reports whether number is a subsection number (XX.YYYY).
func (classifier *Classifier) IsSubsection(number string) bool {
	return classifier.patterns.SubsectionRegexp().MatchString(number)
}

// Classify returns the classification of number. The document-level and
// subsection patterns are mutually exclusive over well-formed input;
// everything else is Unclassified.
func (classifier *Classifier) Classify(number string) Classification {
	switch {
	case classifier.IsDocumentLevel(number):
		return DocumentLevel
	case classifier.IsSubsection(number):
		return Subsection
	default:
		return Unclassified
	}
}

// ParentDocument derives the document-level number a subsection belongs to:
// the integer part plus the first two digits of the fractional part
// (10.0410 -> 10.04). The second return is false for anything that is not a
// subsection number; callers treat that as "no parent".
func (classifier *Classifier) ParentDocument(number string) (string, bool) {
	if !classifier.IsSubsection(number) {
		return "", false
	}
	parts := strings.SplitN(number, ".", 2)
	if len(parts) != 2 || len(parts[1]) != 4 {
		return "", false
	}
	return parts[0] + "." + parts[1][:2], true
}

// NormalizeNumber truncates a fractional part longer than two digits to its
// first two digits, mapping subsection-style numbers to their document-level
// form (10.0400 -> 10.04). Numbers without exactly one dot pass through
// unchanged.
func NormalizeNumber(number string) string {
	parts := strings.Split(number, ".")
	if len(parts) == 2 && len(parts[1]) > 2 {
		return parts[0] + "." + parts[1][:2]
	}
	return number
}

// NumberFromFilename extracts the first dotted number from a filename and
// normalizes it to document-level form. The second return is false when the
// filename embeds no number; such files remain unmatchable and surface as
// orphans.
func (classifier *Classifier) NumberFromFilename(filename string) (string, bool) {
	match := classifier.patterns.FilenameNumberRegexp().FindStringSubmatch(filename)
	if match == nil {
		return "", false
	}
	return NormalizeNumber(match[1]), true
}
