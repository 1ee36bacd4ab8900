package match

import (
	"github.com/coolbeans/ordinance/pkg/scan"
	"github.com/coolbeans/ordinance/pkg/toc"
)

// Match pairs a TOC entry with its best-scoring file.
type Match struct {
	EntryNumber string  `json:"entry_number"`
	EntryTitle  string  `json:"entry_title"`
	Kind        Kind    `json:"kind"`
	Filename    string  `json:"filename"`
	Score       float64 `json:"score"`
	Confidence  string  `json:"confidence"`
}

// UnmatchedEntry is a TOC entry for which no file scored at or above the low
// confidence threshold.
type UnmatchedEntry struct {
	EntryNumber string `json:"entry_number"`
	EntryTitle  string `json:"entry_title"`
	Kind        Kind   `json:"kind"`
}

// Quality summarizes an outcome for triage: overall match rate plus counts
// per confidence band.
type Quality struct {
	TotalEntries     int     `json:"total_entries"`
	MatchedEntries   int     `json:"matched_entries"`
	UnmatchedEntries int     `json:"unmatched_entries"`
	UnmatchedFiles   int     `json:"unmatched_files"`
	MatchRate        float64 `json:"match_rate"`
	HighConfidence   int     `json:"high_confidence"`
	MediumConfidence int     `json:"medium_confidence"`
	LowConfidence    int     `json:"low_confidence"`
}

// Outcome is the full result of matching a TOC against a file scan.
type Outcome struct {
	Matched        []Match          `json:"matched"`
	UnmatchedTOC   []UnmatchedEntry `json:"unmatched_toc"`
	UnmatchedFiles []string         `json:"unmatched_files"`
	Quality        Quality          `json:"quality"`
}

// Files extracts typed file information from a scan, silently skipping
// filenames with no recognizable typed number (they surface later as
// unmatched files).
func Files(documentFiles []*scan.DocumentFile) []*FileInfo {
	var files []*FileInfo
	for _, documentFile := range documentFiles {
		if info, ok := ExtractFileInfo(documentFile.Filename); ok {
			files = append(files, info)
		}
	}
	return files
}

// Run matches every numbered TOC entry against the scanned files and bands
// each best match by confidence. Each entry takes its single best-scoring
// candidate at or above the low threshold; files claimed by no entry are
// reported as unmatched.
func Run(entries []toc.Entry, documentFiles []*scan.DocumentFile) *Outcome {
	files := Files(documentFiles)

	outcome := &Outcome{
		Matched:        []Match{},
		UnmatchedTOC:   []UnmatchedEntry{},
		UnmatchedFiles: []string{},
	}

	claimedFiles := make(map[string]bool)
	for _, entry := range entries {
		if entry.Number == "" {
			continue
		}
		outcome.Quality.TotalEntries++

		entryKind := KindOfEntry(entry.Number, entry.Title)
		candidates := ClosestMatches(entry.Number, entryKind, files)

		var best *Scored
		for index := range candidates {
			if candidates[index].Score >= lowConfidenceThreshold {
				best = &candidates[index]
				break
			}
		}

		if best == nil {
			outcome.UnmatchedTOC = append(outcome.UnmatchedTOC, UnmatchedEntry{
				EntryNumber: entry.Number,
				EntryTitle:  entry.Title,
				Kind:        entryKind,
			})
			continue
		}

		claimedFiles[best.Filename] = true
		outcome.Matched = append(outcome.Matched, Match{
			EntryNumber: entry.Number,
			EntryTitle:  entry.Title,
			Kind:        entryKind,
			Filename:    best.Filename,
			Score:       best.Score,
			Confidence:  ConfidenceFor(best.Score),
		})
	}

	for _, documentFile := range documentFiles {
		if !claimedFiles[documentFile.Filename] {
			outcome.UnmatchedFiles = append(outcome.UnmatchedFiles, documentFile.Filename)
		}
	}

	outcome.Quality.MatchedEntries = len(outcome.Matched)
	outcome.Quality.UnmatchedEntries = len(outcome.UnmatchedTOC)
	outcome.Quality.UnmatchedFiles = len(outcome.UnmatchedFiles)
	if outcome.Quality.TotalEntries > 0 {
		outcome.Quality.MatchRate = float64(outcome.Quality.MatchedEntries) / float64(outcome.Quality.TotalEntries) * 100
	}
	for _, matched := range outcome.Matched {
		switch matched.Confidence {
		case ConfidenceHigh:
			outcome.Quality.HighConfidence++
		case ConfidenceMedium:
			outcome.Quality.MediumConfidence++
		case ConfidenceLow:
			outcome.Quality.LowConfidence++
		}
	}

	return outcome
}
