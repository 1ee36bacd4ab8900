package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Save writes any report value as indented JSON, creating parent directories
// as needed.
func Save(reportValue any, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	data, err := json.MarshalIndent(reportValue, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}
	return nil
}

// ToMarkdown renders the alignment report as Markdown suitable for PR
// comments and documentation.
func (alignment *Alignment) ToMarkdown() string {
	var markdownBuilder strings.Builder

	markdownBuilder.WriteString("# Document Alignment Report\n\n")

	markdownBuilder.WriteString("## Metrics\n\n")
	markdownBuilder.WriteString("| Metric | Value |\n")
	markdownBuilder.WriteString("|--------|-------|\n")
	markdownBuilder.WriteString(fmt.Sprintf("| Total Documents | %d |\n", alignment.Metrics.TotalDocuments))
	markdownBuilder.WriteString(fmt.Sprintf("| Documents with Files | %d |\n", alignment.Metrics.DocumentsWithFiles))
	markdownBuilder.WriteString(fmt.Sprintf("| Documents without Files | %d |\n", alignment.Metrics.DocumentsWithoutFiles))
	markdownBuilder.WriteString(fmt.Sprintf("| Total Subsections | %d |\n", alignment.Metrics.TotalSubsections))
	markdownBuilder.WriteString(fmt.Sprintf("| Orphaned Files | %d |\n", alignment.Metrics.OrphanedFiles))
	markdownBuilder.WriteString(fmt.Sprintf("| **Alignment** | **%.1f%%** |\n\n", alignment.Metrics.AlignmentPercentage))

	if len(alignment.MissingDocuments) > 0 {
		markdownBuilder.WriteString("## Missing Documents\n\n")
		markdownBuilder.WriteString("| Number | Title | Subsections |\n")
		markdownBuilder.WriteString("|--------|-------|-------------|\n")
		for _, missing := range alignment.MissingDocuments {
			markdownBuilder.WriteString(fmt.Sprintf("| %s | %s | %d |\n",
				missing.Number, missing.Title, missing.SubsectionCount))
		}
		markdownBuilder.WriteString("\n")
	}

	if len(alignment.OrphanedFiles) > 0 {
		markdownBuilder.WriteString("## Orphaned Files\n\n")
		for _, orphan := range alignment.OrphanedFiles {
			if orphan.ExtractedNumber != "" {
				markdownBuilder.WriteString(fmt.Sprintf("- `%s` (extracted number %s)\n", orphan.Filename, orphan.ExtractedNumber))
			} else {
				markdownBuilder.WriteString(fmt.Sprintf("- `%s` (no number in filename)\n", orphan.Filename))
			}
		}
		markdownBuilder.WriteString("\n")
	}

	if len(alignment.Collisions) > 0 {
		markdownBuilder.WriteString("## Collisions\n\n")
		for _, collision := range alignment.Collisions {
			markdownBuilder.WriteString(fmt.Sprintf("- %s %s: kept %q, replaced %q\n",
				collision.Kind, collision.DocumentNumber, collision.Kept, collision.Replaced))
		}
		markdownBuilder.WriteString("\n")
	}

	markdownBuilder.WriteString("## Document Hierarchy\n\n")
	markdownBuilder.WriteString("| Number | Title | File | Subsections |\n")
	markdownBuilder.WriteString("|--------|-------|------|-------------|\n")
	for _, document := range alignment.DocumentHierarchy {
		fileCell := "—"
		if document.HasFile {
			fileCell = fmt.Sprintf("`%s`", document.Filename)
		}
		markdownBuilder.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
			document.Number, document.Title, fileCell, document.SubsectionCount))
	}

	return markdownBuilder.String()
}
