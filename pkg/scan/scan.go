// Package scan enumerates extracted document files in a content directory
// and extracts document numbers from their filenames.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coolbeans/ordinance/pkg/pattern"
	"github.com/coolbeans/ordinance/pkg/section"
)

// DocumentFile is a candidate document file found in the content directory.
type DocumentFile struct {
	Filename string `json:"filename"`
	Filepath string `json:"filepath"`

	// ExtractedNumber caches the number pulled from the filename. Empty
	// until DocumentNumber is called, or when the filename embeds none.
	ExtractedNumber string `json:"extracted_number,omitempty"`
}

// DocumentNumber returns the normalized document number embedded in the
// filename, extracting it on first use. The second return is false for
// filenames with no dotted number; those files can never match a document
// and end up orphaned.
func (documentFile *DocumentFile) DocumentNumber(classifier *section.Classifier) (string, bool) {
	if documentFile.ExtractedNumber != "" {
		return documentFile.ExtractedNumber, true
	}
	number, ok := classifier.NumberFromFilename(documentFile.Filename)
	if !ok {
		return "", false
	}
	documentFile.ExtractedNumber = number
	return number, true
}

// Directory enumerates the *.json files directly inside dir (non-recursive),
// excluding the canonical TOC filename. File contents are not read. A
// missing directory yields an empty scan; callers that require the directory
// to exist check it themselves.
func Directory(dir string, patterns *pattern.Set) ([]*DocumentFile, error) {
	if patterns == nil {
		patterns = pattern.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading content directory %q: %w", dir, err)
	}

	var documentFiles []*DocumentFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == patterns.TOCFilename {
			continue
		}
		documentFiles = append(documentFiles, &DocumentFile{
			Filename: name,
			Filepath: filepath.Join(dir, name),
		})
	}
	return documentFiles, nil
}
