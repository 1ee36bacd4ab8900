package main

import (
	"fmt"

	"github.com/coolbeans/ordinance/pkg/match"
	"github.com/coolbeans/ordinance/pkg/report"
	"github.com/coolbeans/ordinance/pkg/validate"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ordinance",
		Short: "Municipal code TOC alignment registry",
		Long: `Ordinance aligns a municipal development code's table of contents
against its extracted document files.

It determines which TOC-referenced documents have corresponding files,
which files are orphaned, and whether each document file actually
contains the subsections the TOC promises.`,
		Version: version,
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(matchCmd())
	rootCmd.AddCommand(watchCmd())
	return rootCmd
}

// addCommonFlags registers the flags shared by every analysis command.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("content-dir", "", "directory containing extracted document files")
	cmd.Flags().String("toc", "", "TOC file path (default: canonical TOC filename inside --content-dir)")
	cmd.Flags().String("patterns", "", "YAML pattern override file")
	cmd.Flags().StringP("output", "o", "", "write results to a JSON file")
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze document alignment",
		Long: `Analyze TOC-to-file alignment for a content directory.

Example:
  ordinance analyze --content-dir pdf_content/Oregon/gresham
  ordinance analyze --content-dir pdf_content/Oregon/gresham -o alignment.json --detailed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contentDir, _ := cmd.Flags().GetString("content-dir")
			tocPath, _ := cmd.Flags().GetString("toc")
			patternsFile, _ := cmd.Flags().GetString("patterns")
			output, _ := cmd.Flags().GetString("output")
			detailed, _ := cmd.Flags().GetBool("detailed")
			markdown, _ := cmd.Flags().GetBool("markdown")

			patterns, err := loadPatterns(patternsFile)
			if err != nil {
				return err
			}

			fmt.Printf("Analyzing document alignment for: %s\n", contentDir)
			documentRegistry, err := buildRegistry(contentDir, tocPath, patterns)
			if err != nil {
				return err
			}

			alignment := report.BuildAlignment(documentRegistry)
			alignment.Metadata = &report.Metadata{
				ContentDirectory:    contentDir,
				AnalysisType:        "hierarchical_alignment",
				ValidationPerformed: false,
			}

			if markdown {
				fmt.Println(alignment.ToMarkdown())
			} else {
				printHeader("DOCUMENT ALIGNMENT ANALYSIS RESULTS")
				printAlignmentMetrics(alignment.Metrics)

				if detailed {
					fmt.Println("\nDocument hierarchy:")
					for _, document := range alignment.DocumentHierarchy {
						marker := " "
						if document.HasFile {
							marker = "*"
						}
						fmt.Printf("  %s %-10s %-40s %d subsections\n",
							marker, document.Number, document.Title, document.SubsectionCount)
					}
				}
			}

			if output != "" {
				if err := report.Save(alignment, output); err != nil {
					return err
				}
				fmt.Printf("\nReport saved to: %s\n", output)
			}
			return nil
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().Bool("detailed", false, "print the full document hierarchy")
	cmd.Flags().Bool("markdown", false, "render the report as Markdown")
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate document content against TOC subsections",
		Long: `Check that each document file contains the subsection numbers its TOC
entry promises. Validation is a substring search over the file's raw
JSON text; it is a heuristic, not a structural check.

Example:
  ordinance validate --content-dir pdf_content/Oregon/gresham
  ordinance validate --content-dir pdf_content/Oregon/gresham -d 10.04`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contentDir, _ := cmd.Flags().GetString("content-dir")
			tocPath, _ := cmd.Flags().GetString("toc")
			patternsFile, _ := cmd.Flags().GetString("patterns")
			output, _ := cmd.Flags().GetString("output")
			documentNumber, _ := cmd.Flags().GetString("document-number")

			patterns, err := loadPatterns(patternsFile)
			if err != nil {
				return err
			}

			fmt.Printf("Validating document content for: %s\n", contentDir)
			documentRegistry, err := buildRegistry(contentDir, tocPath, patterns)
			if err != nil {
				return err
			}

			validator := validate.NewValidator(documentRegistry)

			if documentNumber != "" {
				if _, exists := documentRegistry.Lookup(documentNumber); !exists {
					return fmt.Errorf("document %s not found in TOC", documentNumber)
				}
				result := validator.ValidateDocument(documentNumber)

				printHeader("CONTENT VALIDATION RESULTS")
				printValidationResults([]*validate.Result{result})

				if output != "" {
					if err := report.Save(result, output); err != nil {
						return err
					}
					fmt.Printf("\nResults saved to: %s\n", output)
				}
				if result.Failed() {
					return fmt.Errorf("validation failed: %s", result.Error)
				}
				return nil
			}

			summary := validator.ValidateAll()

			printHeader("CONTENT VALIDATION RESULTS")
			fmt.Printf("Total Documents with Files:     %d\n", summary.TotalDocumentsWithFiles)
			fmt.Printf("Successful Validations:         %d\n", summary.SuccessfulValidations)
			fmt.Printf("Failed Validations:             %d\n", summary.FailedValidations)
			if summary.SuccessfulValidations > 0 {
				fmt.Printf("Average Validation Percentage:  %.1f%%\n", summary.AverageValidationPercentage)
			}
			printValidationResults(summary.Results)

			if output != "" {
				if err := report.Save(summary, output); err != nil {
					return err
				}
				fmt.Printf("\nResults saved to: %s\n", output)
			}
			return nil
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().StringP("document-number", "d", "", "validate a single document number")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a comprehensive alignment and validation report",
		RunE: func(cmd *cobra.Command, args []string) error {
			contentDir, _ := cmd.Flags().GetString("content-dir")
			tocPath, _ := cmd.Flags().GetString("toc")
			patternsFile, _ := cmd.Flags().GetString("patterns")
			output, _ := cmd.Flags().GetString("output")

			patterns, err := loadPatterns(patternsFile)
			if err != nil {
				return err
			}

			fmt.Printf("Generating comprehensive report for: %s\n", contentDir)
			documentRegistry, err := buildRegistry(contentDir, tocPath, patterns)
			if err != nil {
				return err
			}

			validator := validate.NewValidator(documentRegistry)
			comprehensive := report.BuildComprehensive(documentRegistry, validator)
			comprehensive.Metadata = &report.Metadata{
				ContentDirectory:    contentDir,
				AnalysisType:        "comprehensive",
				ValidationPerformed: true,
			}

			printHeader("COMPREHENSIVE DOCUMENT REGISTRY REPORT")
			fmt.Println("ALIGNMENT METRICS:")
			printAlignmentMetrics(comprehensive.Metrics)
			fmt.Println()
			fmt.Println("VALIDATION METRICS:")
			fmt.Printf("Successful Validations:    %d\n", comprehensive.ValidationSummary.SuccessfulValidations)
			fmt.Printf("Average Validation %%:      %.1f%%\n", comprehensive.ValidationSummary.AverageValidationPercentage)

			if output != "" {
				if err := report.Save(comprehensive, output); err != nil {
					return err
				}
				fmt.Printf("\nComprehensive report saved to: %s\n", output)
			}
			return nil
		},
	}

	addCommonFlags(cmd)
	return cmd
}

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match TOC entries to files with confidence scoring",
		Long: `Run the heuristic matcher: filenames are typed (section, article,
appendix), numbers are normalized per type, and every TOC entry gets its
best-scoring file with a confidence band for triage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			contentDir, _ := cmd.Flags().GetString("content-dir")
			tocPath, _ := cmd.Flags().GetString("toc")
			patternsFile, _ := cmd.Flags().GetString("patterns")
			output, _ := cmd.Flags().GetString("output")
			detailed, _ := cmd.Flags().GetBool("detailed")

			patterns, err := loadPatterns(patternsFile)
			if err != nil {
				return err
			}

			fmt.Printf("Matching TOC entries to files for: %s\n", contentDir)
			documentRegistry, err := buildRegistry(contentDir, tocPath, patterns)
			if err != nil {
				return err
			}

			outcome := match.Run(documentRegistry.TOCEntries(), documentRegistry.Files())
			printMatchOutcome(outcome, detailed)

			if output != "" {
				if err := report.Save(outcome, output); err != nil {
					return err
				}
				fmt.Printf("\nResults saved to: %s\n", output)
			}
			return nil
		},
	}

	addCommonFlags(cmd)
	cmd.Flags().Bool("detailed", false, "list every match and unmatched entry")
	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the content directory and re-analyze on changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			contentDir, _ := cmd.Flags().GetString("content-dir")
			tocPath, _ := cmd.Flags().GetString("toc")
			patternsFile, _ := cmd.Flags().GetString("patterns")

			patterns, err := loadPatterns(patternsFile)
			if err != nil {
				return err
			}

			// Run once up front so a bad content dir fails fast.
			if _, err := buildRegistry(contentDir, tocPath, patterns); err != nil {
				return err
			}
			return runWatch(contentDir, tocPath, patterns)
		},
	}

	addCommonFlags(cmd)
	return cmd
}
