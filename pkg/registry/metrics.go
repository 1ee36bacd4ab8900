package registry

// AlignmentMetrics summarizes TOC-to-file alignment for a built registry.
type AlignmentMetrics struct {
	TotalDocuments        int `json:"total_documents"`
	DocumentsWithFiles    int `json:"documents_with_files"`
	DocumentsWithoutFiles int `json:"documents_without_files"`
	TotalSubsections      int `json:"total_subsections"`
	OrphanedFiles         int `json:"orphaned_files"`
}

// AlignmentPercentage is the share of documents with a matched file, 0 when
// the hierarchy is empty.
func (metrics AlignmentMetrics) AlignmentPercentage() float64 {
	return Percentage(metrics.DocumentsWithFiles, metrics.TotalDocuments)
}

// Percentage computes numerator/denominator*100 with zero-division
// protection.
func Percentage(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// Metrics computes alignment metrics for the built hierarchy. Orphaned files
// are scanned files whose filename matched no document.
func (registry *Registry) Metrics() AlignmentMetrics {
	totalDocuments := registry.hierarchy.len()

	documentsWithFiles := 0
	totalSubsections := 0
	matched := make(map[string]bool)
	for _, hierarchy := range registry.hierarchy.values() {
		totalSubsections += hierarchy.SubsectionCount()
		if hierarchy.HasFile() {
			documentsWithFiles++
			matched[hierarchy.FileInfo.Filename] = true
		}
	}

	return AlignmentMetrics{
		TotalDocuments:        totalDocuments,
		DocumentsWithFiles:    documentsWithFiles,
		DocumentsWithoutFiles: totalDocuments - documentsWithFiles,
		TotalSubsections:      totalSubsections,
		OrphanedFiles:         len(registry.files) - len(matched),
	}
}
