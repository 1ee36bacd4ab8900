package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coolbeans/ordinance/pkg/scan"
	"github.com/coolbeans/ordinance/pkg/toc"
)

func TestBuildHierarchyAssignsSubsections(t *testing.T) {
	documentRegistry := NewRegistry(nil)
	documentRegistry.SetTOCEntries([]toc.Entry{
		{Number: "10.04", Title: "Streets"},
		{Number: "10.0410", Title: "Width"},
		{Number: "10.0411", Title: "Grade"},
	})
	documentRegistry.BuildHierarchy()

	hierarchy, exists := documentRegistry.Lookup("10.04")
	if !exists {
		t.Fatal("document 10.04 not found in hierarchy")
	}
	if hierarchy.SubsectionCount() != 2 {
		t.Errorf("SubsectionCount = %d, want 2", hierarchy.SubsectionCount())
	}
	if hierarchy.Subsections[0].Number != "10.0410" || hierarchy.Subsections[1].Number != "10.0411" {
		t.Errorf("subsections out of encounter order: %+v", hierarchy.Subsections)
	}
}

func TestBuildHierarchyDropsOrphanSubsectionsAndUnclassified(t *testing.T) {
	documentRegistry := NewRegistry(nil)
	documentRegistry.SetTOCEntries([]toc.Entry{
		{Number: "10.04", Title: "Streets"},
		{Number: "11.0410", Title: "No parent document"},
		{Number: "10.041", Title: "Unclassifiable fraction"},
		{Number: "10.040000", Title: "Unclassifiable fraction"},
	})
	documentRegistry.BuildHierarchy()

	if documentRegistry.Len() != 1 {
		t.Fatalf("hierarchy size = %d, want 1", documentRegistry.Len())
	}
	hierarchy, _ := documentRegistry.Lookup("10.04")
	if hierarchy.SubsectionCount() != 0 {
		t.Errorf("SubsectionCount = %d, want 0", hierarchy.SubsectionCount())
	}
}

func TestBuildHierarchyMatchesFiles(t *testing.T) {
	documentRegistry := NewRegistry(nil)
	documentRegistry.SetTOCEntries([]toc.Entry{
		{Number: "10.04", Title: "Streets"},
		{Number: "10.05", Title: "Sidewalks"},
	})
	documentRegistry.SetFiles([]*scan.DocumentFile{
		{Filename: "dc-section-10.0400.json", Filepath: "/content/dc-section-10.0400.json"},
		{Filename: "dc-section-99.99.json", Filepath: "/content/dc-section-99.99.json"},
	})
	documentRegistry.BuildHierarchy()

	streets, _ := documentRegistry.Lookup("10.04")
	if !streets.HasFile() {
		t.Fatal("10.04 should have a file: 10.0400 normalizes to 10.04")
	}
	if streets.FileInfo.Filename != "dc-section-10.0400.json" {
		t.Errorf("FileInfo.Filename = %q", streets.FileInfo.Filename)
	}

	sidewalks, _ := documentRegistry.Lookup("10.05")
	if sidewalks.HasFile() {
		t.Error("10.05 should have no file")
	}

	orphaned := documentRegistry.OrphanedFiles()
	if len(orphaned) != 1 || orphaned[0].Filename != "dc-section-99.99.json" {
		t.Errorf("orphaned = %+v, want only dc-section-99.99.json", orphaned)
	}
}

func TestBuildHierarchyLastWinsCollisions(t *testing.T) {
	documentRegistry := NewRegistry(nil)
	documentRegistry.SetTOCEntries([]toc.Entry{
		{Number: "10.04", Title: "First Title"},
		{Number: "10.04", Title: "Second Title"},
	})
	documentRegistry.SetFiles([]*scan.DocumentFile{
		{Filename: "dc-section-10.04.json"},
		{Filename: "dc-section-10.0400.json"},
	})
	documentRegistry.BuildHierarchy()

	hierarchy, _ := documentRegistry.Lookup("10.04")
	if hierarchy.DocumentTitle != "Second Title" {
		t.Errorf("DocumentTitle = %q, want last-wins Second Title", hierarchy.DocumentTitle)
	}
	if hierarchy.FileInfo.Filename != "dc-section-10.0400.json" {
		t.Errorf("FileInfo.Filename = %q, want last-wins", hierarchy.FileInfo.Filename)
	}

	collisions := documentRegistry.Collisions()
	if len(collisions) != 2 {
		t.Fatalf("got %d collisions, want 2: %+v", len(collisions), collisions)
	}
	if collisions[0].Kind != CollisionDocument || collisions[0].Replaced != "First Title" {
		t.Errorf("document collision = %+v", collisions[0])
	}
	if collisions[1].Kind != CollisionFile || collisions[1].Replaced != "dc-section-10.04.json" {
		t.Errorf("file collision = %+v", collisions[1])
	}
}

func TestHierarchyInsertionOrder(t *testing.T) {
	documentRegistry := NewRegistry(nil)
	documentRegistry.SetTOCEntries([]toc.Entry{
		{Number: "10.30", Title: "C"},
		{Number: "10.10", Title: "A"},
		{Number: "10.20", Title: "B"},
	})
	documentRegistry.BuildHierarchy()

	var order []string
	for _, hierarchy := range documentRegistry.Hierarchy() {
		order = append(order, hierarchy.DocumentNumber)
	}
	want := []string{"10.30", "10.10", "10.20"}
	for index := range want {
		if order[index] != want[index] {
			t.Fatalf("hierarchy order = %v, want %v", order, want)
		}
	}
}

func TestMetrics(t *testing.T) {
	documentRegistry := NewRegistry(nil)

	var entries []toc.Entry
	var files []*scan.DocumentFile
	// 10 documents, files for the first 7.
	for documentIndex := 0; documentIndex < 10; documentIndex++ {
		number := "10." + string(rune('1'+documentIndex/5)) + string(rune('0'+documentIndex%5))
		entries = append(entries, toc.Entry{Number: number, Title: "Doc " + number})
		if documentIndex < 7 {
			files = append(files, &scan.DocumentFile{Filename: "dc-section-" + number + ".json"})
		}
	}
	entries = append(entries,
		toc.Entry{Number: "10.1010", Title: "Sub A"},
		toc.Entry{Number: "10.1011", Title: "Sub B"},
	)

	documentRegistry.SetTOCEntries(entries)
	documentRegistry.SetFiles(files)
	documentRegistry.BuildHierarchy()

	metrics := documentRegistry.Metrics()
	if metrics.TotalDocuments != 10 {
		t.Errorf("TotalDocuments = %d, want 10", metrics.TotalDocuments)
	}
	if metrics.DocumentsWithFiles != 7 {
		t.Errorf("DocumentsWithFiles = %d, want 7", metrics.DocumentsWithFiles)
	}
	if metrics.DocumentsWithoutFiles != 3 {
		t.Errorf("DocumentsWithoutFiles = %d, want 3", metrics.DocumentsWithoutFiles)
	}
	if metrics.TotalSubsections != 2 {
		t.Errorf("TotalSubsections = %d, want 2", metrics.TotalSubsections)
	}
	if got := metrics.AlignmentPercentage(); got != 70.0 {
		t.Errorf("AlignmentPercentage = %v, want 70.0", got)
	}
}

func TestMetricsEmptyHierarchy(t *testing.T) {
	documentRegistry := NewRegistry(nil)
	documentRegistry.BuildHierarchy()

	metrics := documentRegistry.Metrics()
	if got := metrics.AlignmentPercentage(); got != 0 {
		t.Errorf("AlignmentPercentage = %v, want 0 on empty hierarchy", got)
	}
}

func TestMissingDocuments(t *testing.T) {
	documentRegistry := NewRegistry(nil)
	documentRegistry.SetTOCEntries([]toc.Entry{
		{Number: "10.04", Title: "Streets"},
		{Number: "10.05", Title: "Sidewalks"},
		{Number: "10.0510", Title: "Sidewalk Width"},
	})
	documentRegistry.SetFiles([]*scan.DocumentFile{
		{Filename: "dc-section-10.0400.json"},
	})
	documentRegistry.BuildHierarchy()

	missing := documentRegistry.MissingDocuments()
	if len(missing) != 1 {
		t.Fatalf("got %d missing documents, want 1", len(missing))
	}
	if missing[0].DocumentNumber != "10.05" || missing[0].SubsectionCount() != 1 {
		t.Errorf("missing = %+v", missing[0])
	}
}

func TestNewFactory(t *testing.T) {
	contentDir := t.TempDir()

	tocPayload := `{"toc": [
		{"number": "10.04", "title": "Streets"},
		{"number": "10.0410", "title": "Width"}
	]}`
	if err := os.WriteFile(filepath.Join(contentDir, "dc-table-of-contents.json"), []byte(tocPayload), 0644); err != nil {
		t.Fatalf("writing TOC: %v", err)
	}
	if err := os.WriteFile(filepath.Join(contentDir, "dc-section-10.0400.json"), []byte(`{"text": "10.0410 Width"}`), 0644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	documentRegistry, err := New(contentDir, "", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if documentRegistry.Len() != 1 {
		t.Fatalf("hierarchy size = %d, want 1", documentRegistry.Len())
	}
	hierarchy, _ := documentRegistry.Lookup("10.04")
	if !hierarchy.HasFile() || hierarchy.SubsectionCount() != 1 {
		t.Errorf("hierarchy = %+v", hierarchy)
	}
}

func TestNewFactoryMissingTOC(t *testing.T) {
	contentDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(contentDir, "dc-section-10.0400.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	// A missing TOC yields an empty hierarchy, not an error; the scan still
	// runs so the file shows up orphaned.
	documentRegistry, err := New(contentDir, "", nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if documentRegistry.Len() != 0 {
		t.Errorf("hierarchy size = %d, want 0", documentRegistry.Len())
	}
	if len(documentRegistry.OrphanedFiles()) != 1 {
		t.Errorf("orphaned = %d, want 1", len(documentRegistry.OrphanedFiles()))
	}
}

func TestNewFactoryMalformedTOC(t *testing.T) {
	contentDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(contentDir, "dc-table-of-contents.json"), []byte(`{"nope": 1}`), 0644); err != nil {
		t.Fatalf("writing TOC: %v", err)
	}

	if _, err := New(contentDir, "", nil); err == nil {
		t.Error("expected hard error for malformed TOC, got nil")
	}
}
