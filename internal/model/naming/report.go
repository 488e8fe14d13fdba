package naming

import "time"

// SourceSummary describes one scanned project
type SourceSummary struct {
	Name          string `json:"name"`
	Path          string `json:"path"`
	Commit        string `json:"commit,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`
	FilesFound    int    `json:"files_found"`
	FilesScanned  int    `json:"files_scanned"`
}

// SkippedFile is a file that was excluded from the totals
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// Report is the terminal result of a run
type Report struct {
	RunID                  string           `json:"run_id"`
	Category               string           `json:"category"`
	Kind                   string           `json:"kind"`
	TopSize                int              `json:"top_size"`
	Sources                []SourceSummary  `json:"sources"`
	FilesScanned           int              `json:"files_scanned"`
	FilesSkipped           int              `json:"files_skipped"`
	Skipped                []SkippedFile    `json:"skipped,omitempty"`
	TotalWords             int              `json:"total_words"`
	TotalMatches           int              `json:"total_matches"`
	DistinctWords          int              `json:"distinct_words"`
	ClassificationFailures int              `json:"classification_failures"`
	Entries                []FrequencyEntry `json:"entries"`
	GeneratedAt            time.Time        `json:"generated_at"`
}

// TotalEntries is the number of ranked entries in the report
func (r *Report) TotalEntries() int {
	return len(r.Entries)
}
