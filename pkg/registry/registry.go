// Package registry joins table-of-contents entries and scanned document
// files into a hierarchical document structure, one DocumentHierarchy per
// document-level TOC entry. Construction is single-pass and sequential; a
// built registry is read-only for reporting and validation.
package registry

import (
	"os"
	"path/filepath"

	"github.com/coolbeans/ordinance/pkg/pattern"
	"github.com/coolbeans/ordinance/pkg/scan"
	"github.com/coolbeans/ordinance/pkg/section"
	"github.com/coolbeans/ordinance/pkg/toc"
)

// DocumentHierarchy is the hierarchical structure of one document: its
// document-level TOC entry, the matched file if any (at most one), and its
// subsections in TOC encounter order.
type DocumentHierarchy struct {
	DocumentNumber string
	DocumentTitle  string
	FileInfo       *scan.DocumentFile
	Subsections    []toc.Entry
}

// HasFile reports whether a file matched this document.
func (hierarchy *DocumentHierarchy) HasFile() bool {
	return hierarchy.FileInfo != nil
}

// SubsectionCount returns the number of subsections in this document.
func (hierarchy *DocumentHierarchy) SubsectionCount() int {
	return len(hierarchy.Subsections)
}

// Registry owns the parsed TOC entries, the scanned files, and the built
// document hierarchy.
type Registry struct {
	patterns   *pattern.Set
	classifier *section.Classifier

	tocEntries []toc.Entry
	files      []*scan.DocumentFile
	hierarchy  *hierarchyMap
	collisions []Collision
}

// NewRegistry creates an empty registry using the given pattern set.
// A nil set uses the default pattern table.
func NewRegistry(patterns *pattern.Set) *Registry {
	if patterns == nil {
		patterns = pattern.Default()
	}
	return &Registry{
		patterns:   patterns,
		classifier: section.NewClassifier(patterns),
		hierarchy:  newHierarchyMap(),
	}
}

// New builds a populated registry for a content directory: load the TOC,
// scan the directory, build the hierarchy. When tocPath is empty the
// canonical TOC filename inside contentDir is used. A missing TOC file
// yields an empty TOC (the scan still runs, so every file is orphaned); a
// present but malformed TOC is a hard error.
func New(contentDir, tocPath string, patterns *pattern.Set) (*Registry, error) {
	registry := NewRegistry(patterns)

	if tocPath == "" {
		tocPath = filepath.Join(contentDir, registry.patterns.TOCFilename)
	}
	if _, err := os.Stat(tocPath); err == nil {
		if err := registry.LoadTOC(tocPath); err != nil {
			return nil, err
		}
	}

	if err := registry.ScanFiles(contentDir); err != nil {
		return nil, err
	}
	registry.BuildHierarchy()
	return registry, nil
}

// LoadTOC loads TOC entries from a JSON file, replacing any previously
// loaded entries.
func (registry *Registry) LoadTOC(path string) error {
	entries, err := toc.LoadFile(path, registry.patterns)
	if err != nil {
		return err
	}
	registry.tocEntries = entries
	return nil
}

// SetTOCEntries replaces the registry's TOC entries directly.
func (registry *Registry) SetTOCEntries(entries []toc.Entry) {
	registry.tocEntries = entries
}

// TOCEntries returns the loaded TOC entries.
func (registry *Registry) TOCEntries() []toc.Entry {
	return registry.tocEntries
}

// ScanFiles enumerates document files in the content directory, replacing
// any previous scan.
func (registry *Registry) ScanFiles(contentDir string) error {
	files, err := scan.Directory(contentDir, registry.patterns)
	if err != nil {
		return err
	}
	registry.files = files
	return nil
}

// SetFiles replaces the registry's scanned files directly.
func (registry *Registry) SetFiles(files []*scan.DocumentFile) {
	registry.files = files
}

// Files returns the scanned document files.
func (registry *Registry) Files() []*scan.DocumentFile {
	return registry.files
}

// BuildHierarchy builds the document hierarchy from the loaded TOC entries
// and scanned files. Order matters for determinism:
//
//  1. document-level entries create hierarchies in encounter order, last
//     entry winning on a duplicate number;
//  2. subsections attach to their derived parent in encounter order, and
//     are dropped when the parent is absent;
//  3. files attach by extracted number, last file winning on a duplicate.
//
// Overwrites are recorded as collisions for diagnostics.
func (registry *Registry) BuildHierarchy() {
	registry.hierarchy = newHierarchyMap()
	registry.collisions = nil

	var documentEntries, subsectionEntries []toc.Entry
	for _, entry := range registry.tocEntries {
		switch registry.classifier.Classify(entry.Number) {
		case section.DocumentLevel:
			documentEntries = append(documentEntries, entry)
		case section.Subsection:
			subsectionEntries = append(subsectionEntries, entry)
		}
		// Unclassified numbers are intentionally dropped.
	}

	for _, documentEntry := range documentEntries {
		hierarchy := &DocumentHierarchy{
			DocumentNumber: documentEntry.Number,
			DocumentTitle:  documentEntry.Title,
		}
		if replaced, collided := registry.hierarchy.set(documentEntry.Number, hierarchy); collided {
			registry.collisions = append(registry.collisions, Collision{
				Kind:           CollisionDocument,
				DocumentNumber: documentEntry.Number,
				Replaced:       replaced.DocumentTitle,
				Kept:           hierarchy.DocumentTitle,
			})
		}
	}

	for _, subsectionEntry := range subsectionEntries {
		parentNumber, ok := registry.classifier.ParentDocument(subsectionEntry.Number)
		if !ok {
			continue
		}
		if parent, exists := registry.hierarchy.get(parentNumber); exists {
			parent.Subsections = append(parent.Subsections, subsectionEntry)
		}
	}

	for _, documentFile := range registry.files {
		documentNumber, ok := documentFile.DocumentNumber(registry.classifier)
		if !ok {
			continue
		}
		hierarchy, exists := registry.hierarchy.get(documentNumber)
		if !exists {
			continue
		}
		if hierarchy.FileInfo != nil {
			registry.collisions = append(registry.collisions, Collision{
				Kind:           CollisionFile,
				DocumentNumber: documentNumber,
				Replaced:       hierarchy.FileInfo.Filename,
				Kept:           documentFile.Filename,
			})
		}
		hierarchy.FileInfo = documentFile
	}
}

// Hierarchy returns the document hierarchies in insertion order.
func (registry *Registry) Hierarchy() []*DocumentHierarchy {
	return registry.hierarchy.values()
}

// Lookup returns the hierarchy for a document number.
func (registry *Registry) Lookup(documentNumber string) (*DocumentHierarchy, bool) {
	return registry.hierarchy.get(documentNumber)
}

// Len returns the number of documents in the hierarchy.
func (registry *Registry) Len() int {
	return registry.hierarchy.len()
}

// Collisions returns the overwrites recorded during the last BuildHierarchy.
func (registry *Registry) Collisions() []Collision {
	return registry.collisions
}

// Classifier returns the registry's number classifier.
func (registry *Registry) Classifier() *section.Classifier {
	return registry.classifier
}

// Patterns returns the registry's pattern set.
func (registry *Registry) Patterns() *pattern.Set {
	return registry.patterns
}

// MissingDocuments returns the documents without a corresponding file, in
// hierarchy order.
func (registry *Registry) MissingDocuments() []*DocumentHierarchy {
	var missing []*DocumentHierarchy
	for _, hierarchy := range registry.hierarchy.values() {
		if !hierarchy.HasFile() {
			missing = append(missing, hierarchy)
		}
	}
	return missing
}

// OrphanedFiles returns the scanned files whose filename never became a
// document's FileInfo.
func (registry *Registry) OrphanedFiles() []*scan.DocumentFile {
	matched := make(map[string]bool)
	for _, hierarchy := range registry.hierarchy.values() {
		if hierarchy.FileInfo != nil {
			matched[hierarchy.FileInfo.Filename] = true
		}
	}

	var orphaned []*scan.DocumentFile
	for _, documentFile := range registry.files {
		if !matched[documentFile.Filename] {
			orphaned = append(orphaned, documentFile)
		}
	}
	return orphaned
}
