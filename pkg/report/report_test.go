package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/ordinance/pkg/registry"
	"github.com/coolbeans/ordinance/pkg/scan"
	"github.com/coolbeans/ordinance/pkg/toc"
	"github.com/coolbeans/ordinance/pkg/validate"
)

func buildTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	documentRegistry := registry.NewRegistry(nil)
	entries := []toc.Entry{
		{Number: "10.04", Title: "Streets"},
		{Number: "10.05", Title: "Sidewalks"},
	}
	// Seven subsections under 10.04 exercise the inline limit.
	for subsectionIndex := 0; subsectionIndex < 7; subsectionIndex++ {
		entries = append(entries, toc.Entry{
			Number: "10.041" + string(rune('0'+subsectionIndex)),
			Title:  "Subsection",
		})
	}
	documentRegistry.SetTOCEntries(entries)
	documentRegistry.SetFiles([]*scan.DocumentFile{
		{Filename: "dc-section-10.0400.json", Filepath: "/content/dc-section-10.0400.json"},
		{Filename: "dc-section-99.99.json", Filepath: "/content/dc-section-99.99.json"},
	})
	documentRegistry.BuildHierarchy()
	return documentRegistry
}

func TestBuildAlignment(t *testing.T) {
	alignment := BuildAlignment(buildTestRegistry(t))

	if alignment.Metrics.TotalDocuments != 2 {
		t.Errorf("TotalDocuments = %d, want 2", alignment.Metrics.TotalDocuments)
	}
	if alignment.Metrics.DocumentsWithFiles != 1 {
		t.Errorf("DocumentsWithFiles = %d, want 1", alignment.Metrics.DocumentsWithFiles)
	}
	if alignment.Metrics.AlignmentPercentage != 50.0 {
		t.Errorf("AlignmentPercentage = %v, want 50", alignment.Metrics.AlignmentPercentage)
	}
	if alignment.Metrics.OrphanedFiles != 1 {
		t.Errorf("OrphanedFiles = %d, want 1", alignment.Metrics.OrphanedFiles)
	}

	if len(alignment.MissingDocuments) != 1 || alignment.MissingDocuments[0].Number != "10.05" {
		t.Errorf("MissingDocuments = %+v", alignment.MissingDocuments)
	}
	if len(alignment.OrphanedFiles) != 1 || alignment.OrphanedFiles[0].Filename != "dc-section-99.99.json" {
		t.Errorf("OrphanedFiles = %+v", alignment.OrphanedFiles)
	}
	if alignment.OrphanedFiles[0].ExtractedNumber != "99.99" {
		t.Errorf("ExtractedNumber = %q, want 99.99", alignment.OrphanedFiles[0].ExtractedNumber)
	}
}

func TestBuildAlignmentSubsectionOverflow(t *testing.T) {
	alignment := BuildAlignment(buildTestRegistry(t))

	var streets *DocumentSummary
	for index := range alignment.DocumentHierarchy {
		if alignment.DocumentHierarchy[index].Number == "10.04" {
			streets = &alignment.DocumentHierarchy[index]
		}
	}
	if streets == nil {
		t.Fatal("document 10.04 missing from hierarchy listing")
	}

	if streets.SubsectionCount != 7 {
		t.Errorf("SubsectionCount = %d, want 7", streets.SubsectionCount)
	}
	// Five inline entries plus one overflow note.
	if len(streets.Subsections) != 6 {
		t.Fatalf("inline subsections = %d, want 6", len(streets.Subsections))
	}
	note := streets.Subsections[5].Note
	if note != "... and 2 more" {
		t.Errorf("overflow note = %q, want %q", note, "... and 2 more")
	}
}

func TestAlignmentJSONRoundTrip(t *testing.T) {
	alignment := BuildAlignment(buildTestRegistry(t))

	data, err := json.Marshal(alignment)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var reparsed Alignment
	if err := json.Unmarshal(data, &reparsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if reparsed.Metrics != alignment.Metrics {
		t.Errorf("round-trip metrics = %+v, want %+v", reparsed.Metrics, alignment.Metrics)
	}
}

func TestBuildComprehensive(t *testing.T) {
	contentDir := t.TempDir()
	documentPath := filepath.Join(contentDir, "dc-section-10.0400.json")
	if err := os.WriteFile(documentPath, []byte(`{"text": "10.0410"}`), 0644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	documentRegistry := registry.NewRegistry(nil)
	documentRegistry.SetTOCEntries([]toc.Entry{
		{Number: "10.04", Title: "Streets"},
		{Number: "10.0410", Title: "Width"},
	})
	documentRegistry.SetFiles([]*scan.DocumentFile{
		{Filename: "dc-section-10.0400.json", Filepath: documentPath},
	})
	documentRegistry.BuildHierarchy()

	comprehensive := BuildComprehensive(documentRegistry, validate.NewValidator(documentRegistry))

	if comprehensive.ValidationSummary.TotalValidations != 1 {
		t.Errorf("TotalValidations = %d, want 1", comprehensive.ValidationSummary.TotalValidations)
	}
	if comprehensive.ValidationSummary.AverageValidationPercentage != 100.0 {
		t.Errorf("AverageValidationPercentage = %v, want 100",
			comprehensive.ValidationSummary.AverageValidationPercentage)
	}
	if len(comprehensive.ContentValidation) != 1 {
		t.Errorf("ContentValidation entries = %d, want 1", len(comprehensive.ContentValidation))
	}
}

func TestSaveCreatesDirectories(t *testing.T) {
	alignment := BuildAlignment(buildTestRegistry(t))

	path := filepath.Join(t.TempDir(), "reports", "Oregon", "gresham", "alignment.json")
	if err := Save(alignment, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved report: %v", err)
	}
	var reparsed Alignment
	if err := json.Unmarshal(data, &reparsed); err != nil {
		t.Fatalf("saved report is not valid JSON: %v", err)
	}
	if reparsed.Metrics != alignment.Metrics {
		t.Errorf("saved metrics = %+v, want %+v", reparsed.Metrics, alignment.Metrics)
	}
}

func TestToMarkdown(t *testing.T) {
	alignment := BuildAlignment(buildTestRegistry(t))
	markdown := alignment.ToMarkdown()

	for _, want := range []string{
		"# Document Alignment Report",
		"| Total Documents | 2 |",
		"**50.0%**",
		"10.05",
		"dc-section-99.99.json",
	} {
		if !strings.Contains(markdown, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}
