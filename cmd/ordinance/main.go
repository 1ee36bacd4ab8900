package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coolbeans/ordinance/pkg/match"
	"github.com/coolbeans/ordinance/pkg/pattern"
	"github.com/coolbeans/ordinance/pkg/registry"
	"github.com/coolbeans/ordinance/pkg/report"
	"github.com/coolbeans/ordinance/pkg/validate"
	"github.com/coolbeans/ordinance/pkg/watch"
)

var version = "0.1.0"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadPatterns returns the pattern set for a run: the default table, or a
// YAML override file when one is named.
func loadPatterns(patternsFile string) (*pattern.Set, error) {
	if patternsFile == "" {
		set := pattern.Default()
		if err := set.Compile(); err != nil {
			return nil, err
		}
		return set, nil
	}
	return pattern.LoadFile(patternsFile)
}

// buildRegistry validates the content directory and builds a populated
// registry for it.
func buildRegistry(contentDir, tocPath string, patterns *pattern.Set) (*registry.Registry, error) {
	if contentDir == "" {
		return nil, fmt.Errorf("--content-dir flag is required")
	}
	info, err := os.Stat(contentDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory does not exist: %s", contentDir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", contentDir)
	}

	return registry.New(contentDir, tocPath, patterns)
}

func printHeader(title string) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 60))
}

func printAlignmentMetrics(metrics report.Metrics) {
	fmt.Printf("Total Documents:           %d\n", metrics.TotalDocuments)
	fmt.Printf("Documents with Files:      %d\n", metrics.DocumentsWithFiles)
	fmt.Printf("Documents without Files:   %d\n", metrics.DocumentsWithoutFiles)
	fmt.Printf("Total Subsections:         %d\n", metrics.TotalSubsections)
	fmt.Printf("Orphaned Files:            %d\n", metrics.OrphanedFiles)
	fmt.Printf("Alignment Percentage:      %.1f%%\n", metrics.AlignmentPercentage)
}

func printValidationResults(results []*validate.Result) {
	for _, result := range results {
		if result.Failed() {
			fmt.Printf("  ERROR: %s\n", result.Error)
			continue
		}

		status := "✗"
		if result.ValidationPercentage > 80 {
			status = "✓"
		} else if result.ValidationPercentage > 50 {
			status = "⚠"
		}
		fmt.Printf("  %s %s: %.1f%% (%d/%d subsections)\n",
			status, result.DocumentNumber, result.ValidationPercentage,
			result.FoundSubsections, result.ExpectedSubsections)
	}
}

// runWatch re-analyzes the content directory after each debounced change
// batch until interrupted.
func runWatch(contentDir, tocPath string, patterns *pattern.Set) error {
	resultCache := validate.NewResultCache(time.Hour)

	analyze := func() {
		documentRegistry, err := registry.New(contentDir, tocPath, patterns)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
			return
		}
		alignment := report.BuildAlignment(documentRegistry)
		batch := validate.NewValidator(documentRegistry).WithCache(resultCache).ValidateAll()

		fmt.Printf("[%s] alignment %.1f%% (%d/%d documents), validation avg %.1f%% (%d ok, %d failed)\n",
			time.Now().Format("15:04:05"),
			alignment.Metrics.AlignmentPercentage,
			alignment.Metrics.DocumentsWithFiles,
			alignment.Metrics.TotalDocuments,
			batch.AverageValidationPercentage,
			batch.SuccessfulValidations,
			batch.FailedValidations)
	}

	contentWatcher := watch.NewContentWatcher(contentDir, func(event watch.Event) {
		for _, path := range event.Paths {
			resultCache.Invalidate(path)
		}
		fmt.Printf("%d file(s) changed\n", len(event.Paths))
		analyze()
	})
	contentWatcher.SetOnError(func(err error) {
		fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
	})

	if err := contentWatcher.Start(); err != nil {
		return err
	}
	defer contentWatcher.Stop()

	fmt.Printf("Watching %s for changes (Ctrl-C to stop)\n", contentDir)
	analyze()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt
	fmt.Println("\nStopped.")
	return nil
}

func printMatchOutcome(outcome *match.Outcome, detailed bool) {
	printHeader("TOC MATCHING QUALITY")
	fmt.Printf("Total Entries:             %d\n", outcome.Quality.TotalEntries)
	fmt.Printf("Matched Entries:           %d\n", outcome.Quality.MatchedEntries)
	fmt.Printf("Unmatched Entries:         %d\n", outcome.Quality.UnmatchedEntries)
	fmt.Printf("Unmatched Files:           %d\n", outcome.Quality.UnmatchedFiles)
	fmt.Printf("Match Rate:                %.1f%%\n", outcome.Quality.MatchRate)
	fmt.Printf("Confidence:                %d high / %d medium / %d low\n",
		outcome.Quality.HighConfidence,
		outcome.Quality.MediumConfidence,
		outcome.Quality.LowConfidence)

	if !detailed {
		return
	}
	if len(outcome.Matched) > 0 {
		fmt.Println("\nMatched entries:")
		for _, matched := range outcome.Matched {
			fmt.Printf("  %-10s -> %s (%.2f, %s)\n",
				matched.EntryNumber, matched.Filename, matched.Score, matched.Confidence)
		}
	}
	if len(outcome.UnmatchedTOC) > 0 {
		fmt.Println("\nUnmatched TOC entries:")
		for _, unmatched := range outcome.UnmatchedTOC {
			fmt.Printf("  %-10s %s\n", unmatched.EntryNumber, unmatched.EntryTitle)
		}
	}
	if len(outcome.UnmatchedFiles) > 0 {
		fmt.Println("\nUnmatched files:")
		for _, filename := range outcome.UnmatchedFiles {
			fmt.Printf("  %s\n", filename)
		}
	}
}
