// Package report assembles JSON-serializable alignment and validation
// reports from a built document registry. Report shapes are a boundary
// contract: downstream remediation tooling consumes them as-is.
package report

import (
	"fmt"
	"math"

	"github.com/coolbeans/ordinance/pkg/registry"
	"github.com/coolbeans/ordinance/pkg/validate"
)

// inlineSubsectionLimit caps how many subsections are inlined per document
// in the hierarchy listing; the remainder collapses to an overflow note.
const inlineSubsectionLimit = 5

// Metrics is the numeric summary block of an alignment report.
type Metrics struct {
	TotalDocuments        int     `json:"total_documents"`
	DocumentsWithFiles    int     `json:"documents_with_files"`
	DocumentsWithoutFiles int     `json:"documents_without_files"`
	TotalSubsections      int     `json:"total_subsections"`
	OrphanedFiles         int     `json:"orphaned_files"`
	AlignmentPercentage   float64 `json:"alignment_percentage"`
}

// SubsectionRef is a subsection reference in a report, or an overflow note
// standing in for elided subsections.
type SubsectionRef struct {
	Number string `json:"number,omitempty"`
	Title  string `json:"title,omitempty"`
	Note   string `json:"note,omitempty"`
}

// MissingDocument is a document-level TOC entry with no matched file,
// reported with its full subsection list for remediation.
type MissingDocument struct {
	Number          string          `json:"number"`
	Title           string          `json:"title"`
	SubsectionCount int             `json:"subsection_count"`
	Subsections     []SubsectionRef `json:"subsections"`
}

// OrphanedFile is a scanned file that matched no document.
type OrphanedFile struct {
	Filename        string `json:"filename"`
	ExtractedNumber string `json:"extracted_number,omitempty"`
}

// DocumentSummary is a per-document line in the hierarchy listing, with up
// to inlineSubsectionLimit subsections inline plus an overflow note.
type DocumentSummary struct {
	Number          string          `json:"number"`
	Title           string          `json:"title"`
	HasFile         bool            `json:"has_file"`
	Filename        string          `json:"filename,omitempty"`
	SubsectionCount int             `json:"subsection_count"`
	Subsections     []SubsectionRef `json:"subsections"`
}

// Metadata describes how a report was produced.
type Metadata struct {
	ContentDirectory    string `json:"content_directory"`
	AnalysisType        string `json:"analysis_type"`
	ValidationPerformed bool   `json:"validation_performed"`
}

// Alignment is the full alignment report.
type Alignment struct {
	Metrics           Metrics              `json:"metrics"`
	MissingDocuments  []MissingDocument    `json:"missing_documents"`
	OrphanedFiles     []OrphanedFile       `json:"orphaned_files"`
	DocumentHierarchy []DocumentSummary    `json:"document_hierarchy"`
	Collisions        []registry.Collision `json:"collisions,omitempty"`
	Metadata          *Metadata            `json:"analysis_metadata,omitempty"`
}

// ValidationSummary aggregates batch validation for a comprehensive report.
type ValidationSummary struct {
	TotalValidations            int     `json:"total_validations"`
	SuccessfulValidations       int     `json:"successful_validations"`
	AverageValidationPercentage float64 `json:"average_validation_percentage"`
}

// Comprehensive combines the alignment report with content validation.
type Comprehensive struct {
	Alignment
	ContentValidation []*validate.Result `json:"content_validation"`
	ValidationSummary ValidationSummary  `json:"validation_summary"`
}

// BuildAlignment assembles an alignment report from a built registry.
func BuildAlignment(documentRegistry *registry.Registry) *Alignment {
	metrics := documentRegistry.Metrics()

	alignment := &Alignment{
		Metrics: Metrics{
			TotalDocuments:        metrics.TotalDocuments,
			DocumentsWithFiles:    metrics.DocumentsWithFiles,
			DocumentsWithoutFiles: metrics.DocumentsWithoutFiles,
			TotalSubsections:      metrics.TotalSubsections,
			OrphanedFiles:         metrics.OrphanedFiles,
			AlignmentPercentage:   round2(metrics.AlignmentPercentage()),
		},
		MissingDocuments:  []MissingDocument{},
		OrphanedFiles:     []OrphanedFile{},
		DocumentHierarchy: []DocumentSummary{},
		Collisions:        documentRegistry.Collisions(),
	}

	for _, missing := range documentRegistry.MissingDocuments() {
		document := MissingDocument{
			Number:          missing.DocumentNumber,
			Title:           missing.DocumentTitle,
			SubsectionCount: missing.SubsectionCount(),
			Subsections:     []SubsectionRef{},
		}
		for _, subsection := range missing.Subsections {
			document.Subsections = append(document.Subsections, SubsectionRef{
				Number: subsection.Number,
				Title:  subsection.Title,
			})
		}
		alignment.MissingDocuments = append(alignment.MissingDocuments, document)
	}

	for _, orphan := range documentRegistry.OrphanedFiles() {
		orphaned := OrphanedFile{Filename: orphan.Filename}
		if number, ok := orphan.DocumentNumber(documentRegistry.Classifier()); ok {
			orphaned.ExtractedNumber = number
		}
		alignment.OrphanedFiles = append(alignment.OrphanedFiles, orphaned)
	}

	for _, hierarchy := range documentRegistry.Hierarchy() {
		summary := DocumentSummary{
			Number:          hierarchy.DocumentNumber,
			Title:           hierarchy.DocumentTitle,
			HasFile:         hierarchy.HasFile(),
			SubsectionCount: hierarchy.SubsectionCount(),
			Subsections:     []SubsectionRef{},
		}
		if hierarchy.HasFile() {
			summary.Filename = hierarchy.FileInfo.Filename
		}

		for index, subsection := range hierarchy.Subsections {
			if index == inlineSubsectionLimit {
				break
			}
			summary.Subsections = append(summary.Subsections, SubsectionRef{
				Number: subsection.Number,
				Title:  subsection.Title,
			})
		}
		if overflow := hierarchy.SubsectionCount() - inlineSubsectionLimit; overflow > 0 {
			summary.Subsections = append(summary.Subsections, SubsectionRef{
				Note: fmt.Sprintf("... and %d more", overflow),
			})
		}

		alignment.DocumentHierarchy = append(alignment.DocumentHierarchy, summary)
	}

	return alignment
}

// BuildComprehensive assembles an alignment report plus batch content
// validation.
func BuildComprehensive(documentRegistry *registry.Registry, validator *validate.Validator) *Comprehensive {
	alignment := BuildAlignment(documentRegistry)
	batch := validator.ValidateAll()

	return &Comprehensive{
		Alignment:         *alignment,
		ContentValidation: batch.Results,
		ValidationSummary: ValidationSummary{
			TotalValidations:            batch.TotalDocumentsWithFiles,
			SuccessfulValidations:       batch.SuccessfulValidations,
			AverageValidationPercentage: batch.AverageValidationPercentage,
		},
	}
}

// round2 rounds to two decimal places for display.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
