// Package validate checks that a document's extracted file actually contains
// the subsections its TOC entry promises. The check is a substring search
// for each subsection number in the file's raw JSON text. That heuristic is
// deliberately preserved from the registry's original behavior: it can
// produce false positives when a number appears in unrelated metadata, and
// it is cheap enough to run across a whole corpus.
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/coolbeans/ordinance/pkg/registry"
)

// Result is the outcome of validating one document. A failed validation
// carries an error marker instead of counts; per-item failures never abort a
// batch.
type Result struct {
	DocumentNumber       string   `json:"document_number,omitempty"`
	FilePath             string   `json:"file_path,omitempty"`
	ExpectedSubsections  int      `json:"expected_subsections"`
	FoundSubsections     int      `json:"found_subsections"`
	MissingSubsections   int      `json:"missing_subsections"`
	FoundList            []string `json:"found_list"`
	MissingList          []string `json:"missing_list"`
	ValidationPercentage float64  `json:"validation_percentage"`
	Error                string   `json:"error,omitempty"`
}

// Failed reports whether the result is an error marker.
func (result *Result) Failed() bool {
	return result.Error != ""
}

// Summary aggregates a batch validation over every document with a file.
type Summary struct {
	TotalDocumentsWithFiles      int       `json:"total_documents_with_files"`
	SuccessfulValidations        int       `json:"successful_validations"`
	FailedValidations            int       `json:"failed_validations"`
	AverageValidationPercentage  float64   `json:"average_validation_percentage"`
	TotalExpectedSubsections     int       `json:"total_expected_subsections"`
	TotalFoundSubsections        int       `json:"total_found_subsections"`
	Results                      []*Result `json:"validation_results"`
}

// Validator validates document content against a built registry.
type Validator struct {
	registry *registry.Registry
	cache    *ResultCache
}

// NewValidator creates a validator for the given registry.
func NewValidator(documentRegistry *registry.Registry) *Validator {
	return &Validator{registry: documentRegistry}
}

// WithCache attaches a result cache, used by watch mode to skip re-reading
// unchanged documents. Returns the validator for chaining.
func (validator *Validator) WithCache(cache *ResultCache) *Validator {
	validator.cache = cache
	return validator
}

// ValidateDocument validates one document by number. Lookup failures and
// unreadable or unparsable files return an error-marker result, not an
// error: the caller decides whether a marker is fatal.
func (validator *Validator) ValidateDocument(documentNumber string) *Result {
	hierarchy, exists := validator.registry.Lookup(documentNumber)
	if !exists {
		return &Result{Error: fmt.Sprintf("document %s not found in hierarchy", documentNumber)}
	}
	if !hierarchy.HasFile() {
		return &Result{Error: fmt.Sprintf("no file found for document %s", documentNumber)}
	}

	if validator.cache != nil {
		if cached, ok := validator.cache.Get(hierarchy.FileInfo.Filepath); ok {
			return cached
		}
	}

	result := validateContent(hierarchy)
	if validator.cache != nil && !result.Failed() {
		validator.cache.Set(hierarchy.FileInfo.Filepath, result)
	}
	return result
}

// validateContent reads the document file and substring-searches each
// expected subsection number in its raw text.
func validateContent(hierarchy *registry.DocumentHierarchy) *Result {
	content, err := os.ReadFile(hierarchy.FileInfo.Filepath)
	if err != nil {
		return &Result{Error: fmt.Sprintf("failed to validate content: %v", err)}
	}
	if !json.Valid(content) {
		return &Result{Error: fmt.Sprintf("failed to validate content: %s is not valid JSON", hierarchy.FileInfo.Filename)}
	}

	// The whole payload is searched, not a targeted text field.
	textContent := string(content)

	foundList := []string{}
	missingList := []string{}
	for _, subsection := range hierarchy.Subsections {
		if strings.Contains(textContent, subsection.Number) {
			foundList = append(foundList, subsection.Number)
		} else {
			missingList = append(missingList, subsection.Number)
		}
	}

	// A document with no expected subsections is vacuously fully validated.
	validationPercentage := 100.0
	if len(hierarchy.Subsections) > 0 {
		validationPercentage = registry.Percentage(len(foundList), len(hierarchy.Subsections))
	}

	return &Result{
		DocumentNumber:       hierarchy.DocumentNumber,
		FilePath:             hierarchy.FileInfo.Filepath,
		ExpectedSubsections:  len(hierarchy.Subsections),
		FoundSubsections:     len(foundList),
		MissingSubsections:   len(missingList),
		FoundList:            foundList,
		MissingList:          missingList,
		ValidationPercentage: validationPercentage,
	}
}

// ValidateAll validates every document that has a file, in hierarchy order,
// and aggregates the results. Error markers are kept in the result list and
// counted as failed.
func (validator *Validator) ValidateAll() *Summary {
	summary := &Summary{Results: []*Result{}}

	for _, hierarchy := range validator.registry.Hierarchy() {
		if !hierarchy.HasFile() {
			continue
		}
		result := validator.ValidateDocument(hierarchy.DocumentNumber)
		summary.Results = append(summary.Results, result)
	}

	summary.TotalDocumentsWithFiles = len(summary.Results)

	percentageTotal := 0.0
	for _, result := range summary.Results {
		if result.Failed() {
			summary.FailedValidations++
			continue
		}
		summary.SuccessfulValidations++
		percentageTotal += result.ValidationPercentage
		summary.TotalExpectedSubsections += result.ExpectedSubsections
		summary.TotalFoundSubsections += result.FoundSubsections
	}
	if summary.SuccessfulValidations > 0 {
		summary.AverageValidationPercentage = percentageTotal / float64(summary.SuccessfulValidations)
	}

	return summary
}
