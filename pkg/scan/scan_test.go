package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coolbeans/ordinance/pkg/section"
)

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "dc-section-10.0400.json")
	writeFile(t, dir, "dc-section-10.0500.json")
	writeFile(t, dir, "dc-table-of-contents.json") // canonical TOC, excluded
	writeFile(t, dir, "readme.txt")                // not JSON
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir, "nested"), "dc-section-10.0600.json") // not scanned

	files, err := Directory(dir, nil)
	if err != nil {
		t.Fatalf("Directory failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
	for _, documentFile := range files {
		if documentFile.Filename == "dc-table-of-contents.json" {
			t.Error("TOC file should be excluded from the scan")
		}
		if documentFile.Filepath != filepath.Join(dir, documentFile.Filename) {
			t.Errorf("Filepath = %q, want joined path", documentFile.Filepath)
		}
	}
}

func TestDirectoryMissing(t *testing.T) {
	files, err := Directory(filepath.Join(t.TempDir(), "absent"), nil)
	if err != nil {
		t.Fatalf("missing directory should not error, got %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

func TestDocumentNumberLazyExtraction(t *testing.T) {
	classifier := section.NewClassifier(nil)

	documentFile := &DocumentFile{Filename: "dc-section-10.0400.json"}
	number, ok := documentFile.DocumentNumber(classifier)
	if !ok || number != "10.04" {
		t.Fatalf("DocumentNumber = %q, %v, want 10.04, true", number, ok)
	}
	if documentFile.ExtractedNumber != "10.04" {
		t.Errorf("ExtractedNumber not cached: %q", documentFile.ExtractedNumber)
	}

	// Pre-set numbers are returned as-is.
	preset := &DocumentFile{Filename: "whatever.json", ExtractedNumber: "12.34"}
	number, ok = preset.DocumentNumber(classifier)
	if !ok || number != "12.34" {
		t.Errorf("DocumentNumber = %q, %v, want preset 12.34", number, ok)
	}

	// No dotted number in the filename.
	unnumbered := &DocumentFile{Filename: "notes.json"}
	if number, ok := unnumbered.DocumentNumber(classifier); ok {
		t.Errorf("DocumentNumber = %q, want no number", number)
	}
}
