package domain

// RunRequest asks the worker to execute one veille run. Query is free text
// describing the topic, at least three characters.
type RunRequest struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

// Run outcome statuses, mirrored in worker logs and task results.
const (
	RunStatusSuccess = "SUCCESS"
	RunStatusFailure = "FAILURE"
)

// RunSummary reports the terminal state of a run.
type RunSummary struct {
	Status    string `json:"status"`
	Processed int    `json:"processed_articles"`
}

// Extraction is the result of downloading and cleaning one article page.
type Extraction struct {
	Content string
	Date    string
}
