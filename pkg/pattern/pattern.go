// Package pattern centralizes the regular expressions and canonical file
// names used to parse municipal development code tables of contents and to
// match extracted document files. A Set is an explicit configuration value
// passed into constructors; there is no package-level mutable state.
package pattern

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Set defines the pattern table for a municipal code corpus.
// The zero value is not usable; start from Default and override fields as
// needed, then call Compile.
type Set struct {
	// DocumentLevel matches a document-level number (XX.YY format).
	DocumentLevel string `yaml:"document_level"`

	// Subsection matches a subsection number (XX.YYYY format).
	Subsection string `yaml:"subsection"`

	// SectionHeader matches a "SECTION <number> <TITLE>" line in TOC text.
	// Group 1 is the number, group 2 the uppercase title run.
	SectionHeader string `yaml:"section_header"`

	// SubsectionNumber locates subsection numbers inside TOC text.
	// Group 1 is the number; the title boundary is applied by the TOC
	// parser (RE2 has no lookahead).
	SubsectionNumber string `yaml:"subsection_number"`

	// FilenameNumber extracts a dotted document number from a filename.
	FilenameNumber string `yaml:"filename_number"`

	// TOCFilename is the canonical table-of-contents file, always
	// excluded from content scans.
	TOCFilename string `yaml:"toc_filename"`

	// Default report file names.
	AlignmentReportFilename  string `yaml:"alignment_report_filename"`
	ValidationReportFilename string `yaml:"validation_report_filename"`

	// Compiled patterns (populated by Compile).
	compiled *compiledSet
}

// compiledSet holds the compiled forms of a Set's patterns.
type compiledSet struct {
	documentLevel    *regexp.Regexp
	subsection       *regexp.Regexp
	sectionHeader    *regexp.Regexp
	subsectionNumber *regexp.Regexp
	filenameNumber   *regexp.Regexp
}

// Default returns the canonical pattern table for municipal development
// codes: document-level entries in XX.YY form, subsections in XX.YYYY form.
func Default() *Set {
	return &Set{
		DocumentLevel:            `^\d+\.\d{2}$`,
		Subsection:               `^\d+\.\d{4}$`,
		SectionHeader:            `SECTION\s+(\d+\.\d+)\s+([A-Z][A-Z\s]*)`,
		SubsectionNumber:         `(\d+\.\d{4})\s+`,
		FilenameNumber:           `(\d+\.\d+)`,
		TOCFilename:              "dc-table-of-contents.json",
		AlignmentReportFilename:  "alignment_analysis.json",
		ValidationReportFilename: "content_validation.json",
	}
}

// LoadFile loads a Set from a YAML file. Empty fields fall back to the
// defaults, so an override file only needs to name the patterns it changes.
// The returned set is compiled.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern file: %w", err)
	}

	set := Default()
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("parsing pattern file %q: %w", path, err)
	}
	set.applyDefaults()

	if err := set.Compile(); err != nil {
		return nil, fmt.Errorf("pattern file %q: %w", path, err)
	}
	return set, nil
}

// applyDefaults fills any empty fields from the default table.
func (set *Set) applyDefaults() {
	defaults := Default()
	if set.DocumentLevel == "" {
		set.DocumentLevel = defaults.DocumentLevel
	}
	if set.Subsection == "" {
		set.Subsection = defaults.Subsection
	}
	if set.SectionHeader == "" {
		set.SectionHeader = defaults.SectionHeader
	}
	if set.SubsectionNumber == "" {
		set.SubsectionNumber = defaults.SubsectionNumber
	}
	if set.FilenameNumber == "" {
		set.FilenameNumber = defaults.FilenameNumber
	}
	if set.TOCFilename == "" {
		set.TOCFilename = defaults.TOCFilename
	}
	if set.AlignmentReportFilename == "" {
		set.AlignmentReportFilename = defaults.AlignmentReportFilename
	}
	if set.ValidationReportFilename == "" {
		set.ValidationReportFilename = defaults.ValidationReportFilename
	}
}

// Compile compiles all patterns in the set. Returns the first compilation
// error encountered.
func (set *Set) Compile() error {
	compiled := &compiledSet{}

	var err error
	if compiled.documentLevel, err = regexp.Compile(set.DocumentLevel); err != nil {
		return fmt.Errorf("compiling document_level pattern: %w", err)
	}
	if compiled.subsection, err = regexp.Compile(set.Subsection); err != nil {
		return fmt.Errorf("compiling subsection pattern: %w", err)
	}
	if compiled.sectionHeader, err = regexp.Compile(set.SectionHeader); err != nil {
		return fmt.Errorf("compiling section_header pattern: %w", err)
	}
	if compiled.subsectionNumber, err = regexp.Compile(set.SubsectionNumber); err != nil {
		return fmt.Errorf("compiling subsection_number pattern: %w", err)
	}
	if compiled.filenameNumber, err = regexp.Compile(set.FilenameNumber); err != nil {
		return fmt.Errorf("compiling filename_number pattern: %w", err)
	}

	set.compiled = compiled
	return nil
}

// IsCompiled reports whether Compile has been called successfully.
func (set *Set) IsCompiled() bool {
	return set.compiled != nil
}

// mustCompiled returns the compiled patterns, compiling on first use.
// A set built from Default with unmodified fields cannot fail to compile.
func (set *Set) mustCompiled() *compiledSet {
	if set.compiled == nil {
		if err := set.Compile(); err != nil {
			panic(fmt.Sprintf("pattern: invalid set: %v", err))
		}
	}
	return set.compiled
}

// DocumentLevelRegexp returns the compiled document-level pattern.
func (set *Set) DocumentLevelRegexp() *regexp.Regexp { return set.mustCompiled().documentLevel }

// SubsectionRegexp returns the compiled subsection pattern.
func (set *Set) SubsectionRegexp() *regexp.Regexp { return set.mustCompiled().subsection }

// SectionHeaderRegexp returns the compiled section-header pattern.
func (set *Set) SectionHeaderRegexp() *regexp.Regexp { return set.mustCompiled().sectionHeader }

// SubsectionNumberRegexp returns the compiled in-text subsection number pattern.
func (set *Set) SubsectionNumberRegexp() *regexp.Regexp { return set.mustCompiled().subsectionNumber }

// FilenameNumberRegexp returns the compiled filename number pattern.
func (set *Set) FilenameNumberRegexp() *regexp.Regexp { return set.mustCompiled().filenameNumber }
